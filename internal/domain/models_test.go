package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTableNames(t *testing.T) {
	if got := (Course{}).TableName(); got != "courses" {
		t.Fatalf("Course table = %q; want courses", got)
	}
	if got := (File{}).TableName(); got != "files" {
		t.Fatalf("File table = %q; want files", got)
	}
}

func TestCourseJSONShape(t *testing.T) {
	c := Course{
		ID:        7,
		Title:     "CS101",
		Category:  "computer-science",
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"id":7`, `"title":"CS101"`, `"category":"computer-science"`} {
		if !strings.Contains(s, want) {
			t.Errorf("json missing %s: %s", want, s)
		}
	}
	// Optional attributes and the relation stay out of the payload when empty.
	for _, absent := range []string{`"description"`, `"level"`, `"files"`} {
		if strings.Contains(s, absent) {
			t.Errorf("json should omit empty %s: %s", absent, s)
		}
	}
}

func TestFileJSONOmitsCourses(t *testing.T) {
	f := File{ID: 3, Name: "syllabus.pdf", Courses: []Course{{ID: 1}}}
	b, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "courses") {
		t.Fatalf("file json must not embed the back-reference: %s", b)
	}
}
