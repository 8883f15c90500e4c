package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/edulab/go-course-platform/internal/domain"
)

// ----- Fake repo -----

type fakeCourseRepo struct {
	byTitle    *domain.Course
	byTitleErr error

	byID    *domain.Course
	byIDErr error

	withFiles    *domain.Course
	withFilesErr error

	files    []domain.File
	filesErr error

	createErr  error
	saveErr    error
	deleteErr  error
	replaceErr error

	// capture
	createdCourse *domain.Course
	savedCourse   *domain.Course
	deletedCourse *domain.Course
	replacedWith  []domain.File
	replaceCalls  int
	listedIDs     []int64
}

func (r *fakeCourseRepo) CreateCourse(ctx context.Context, db *gorm.DB, c *domain.Course) error {
	r.createdCourse = c
	if r.createErr != nil {
		return r.createErr
	}
	c.ID = 1
	return nil
}

func (r *fakeCourseRepo) ListCourses(ctx context.Context, db *gorm.DB) ([]domain.Course, error) {
	return []domain.Course{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}, nil
}

func (r *fakeCourseRepo) GetCourse(ctx context.Context, db *gorm.DB, id int64) (*domain.Course, error) {
	return r.byID, r.byIDErr
}

func (r *fakeCourseRepo) GetCourseByTitle(ctx context.Context, db *gorm.DB, title string) (*domain.Course, error) {
	return r.byTitle, r.byTitleErr
}

func (r *fakeCourseRepo) GetCourseWithFiles(ctx context.Context, db *gorm.DB, id int64) (*domain.Course, error) {
	return r.withFiles, r.withFilesErr
}

func (r *fakeCourseRepo) SaveCourse(ctx context.Context, db *gorm.DB, c *domain.Course) error {
	r.savedCourse = c
	return r.saveErr
}

func (r *fakeCourseRepo) DeleteCourse(ctx context.Context, db *gorm.DB, c *domain.Course) error {
	r.deletedCourse = c
	return r.deleteErr
}

func (r *fakeCourseRepo) ListFilesByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]domain.File, error) {
	r.listedIDs = ids
	return r.files, r.filesErr
}

func (r *fakeCourseRepo) ReplaceCourseFiles(ctx context.Context, db *gorm.DB, c *domain.Course, files []domain.File) error {
	r.replaceCalls++
	r.replacedWith = files
	return r.replaceErr
}

// ----- Create -----

func TestCreate_NewTitle(t *testing.T) {
	r := &fakeCourseRepo{byTitleErr: gorm.ErrRecordNotFound}
	s := NewCourseService(nil, r)

	c, err := s.Create(context.Background(), CreateCourseInput{Title: "CS101", Category: "cs"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID != 1 || c.Title != "CS101" || c.Category != "cs" {
		t.Fatalf("unexpected course: %+v", c)
	}
}

func TestCreate_DuplicateTitle(t *testing.T) {
	r := &fakeCourseRepo{byTitle: &domain.Course{ID: 9, Title: "CS101"}}
	s := NewCourseService(nil, r)

	_, err := s.Create(context.Background(), CreateCourseInput{Title: "CS101"})
	if !errors.Is(err, ErrCourseAlreadyExists) {
		t.Fatalf("err = %v; want ErrCourseAlreadyExists", err)
	}
	if r.createdCourse != nil {
		t.Fatalf("insert must not happen on duplicate title")
	}
}

func TestCreate_StoreFailurePassesThrough(t *testing.T) {
	boom := errors.New("disk on fire")
	r := &fakeCourseRepo{byTitleErr: boom}
	s := NewCourseService(nil, r)

	_, err := s.Create(context.Background(), CreateCourseInput{Title: "CS101"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v; want store error", err)
	}
}

// ----- Get / Update / Remove -----

func TestGet_NotFound(t *testing.T) {
	r := &fakeCourseRepo{byIDErr: gorm.ErrRecordNotFound}
	s := NewCourseService(nil, r)

	_, err := s.Get(context.Background(), 42)
	if !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("err = %v; want ErrCourseNotFound", err)
	}
}

func TestUpdate_MergesOnlySuppliedFields(t *testing.T) {
	r := &fakeCourseRepo{byID: &domain.Course{
		ID: 5, Title: "Old", Description: "keep me", Category: "cs", Level: "intro",
	}}
	s := NewCourseService(nil, r)

	c, err := s.Update(context.Background(), 5, map[string]any{
		"title": "New",
		"level": "advanced",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if c.Title != "New" || c.Level != "advanced" {
		t.Fatalf("supplied fields not applied: %+v", c)
	}
	if c.Description != "keep me" || c.Category != "cs" {
		t.Fatalf("untouched fields changed: %+v", c)
	}
	if r.savedCourse != c {
		t.Fatalf("merged course not persisted")
	}
}

func TestUpdate_EmptyFieldsChangesNothing(t *testing.T) {
	orig := domain.Course{ID: 5, Title: "Same", Description: "d", Category: "c", Level: "l"}
	cp := orig
	r := &fakeCourseRepo{byID: &cp}
	s := NewCourseService(nil, r)

	c, err := s.Update(context.Background(), 5, map[string]any{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if c.Title != orig.Title || c.Description != orig.Description ||
		c.Category != orig.Category || c.Level != orig.Level {
		t.Fatalf("round-trip with empty fields changed the entity: %+v vs %+v", *c, orig)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	r := &fakeCourseRepo{byIDErr: gorm.ErrRecordNotFound}
	s := NewCourseService(nil, r)

	_, err := s.Update(context.Background(), 42, map[string]any{"title": "x"})
	if !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("err = %v; want ErrCourseNotFound", err)
	}
	if r.savedCourse != nil {
		t.Fatalf("save must not happen for a missing course")
	}
}

func TestRemove_ReturnsSnapshot(t *testing.T) {
	r := &fakeCourseRepo{byID: &domain.Course{ID: 5, Title: "Doomed"}}
	s := NewCourseService(nil, r)

	snap, err := s.Remove(context.Background(), 5)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if snap.ID != 5 || snap.Title != "Doomed" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if r.deletedCourse == nil {
		t.Fatalf("delete not issued")
	}
}

func TestRemove_NotFound(t *testing.T) {
	r := &fakeCourseRepo{byIDErr: gorm.ErrRecordNotFound}
	s := NewCourseService(nil, r)

	if _, err := s.Remove(context.Background(), 42); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("err = %v; want ErrCourseNotFound", err)
	}
}

// ----- RemoveFiles -----

func courseWithFiles(ids ...int64) *domain.Course {
	c := &domain.Course{ID: 1, Title: "CS101"}
	for _, id := range ids {
		c.Files = append(c.Files, domain.File{ID: id})
	}
	return c
}

func TestRemoveFiles_AllPresent(t *testing.T) {
	r := &fakeCourseRepo{withFiles: courseWithFiles(1, 2, 3)}
	s := NewCourseService(nil, r)

	c, remaining, err := s.RemoveFiles(context.Background(), 1, []int64{2})
	if err != nil {
		t.Fatalf("remove files: %v", err)
	}
	if len(remaining) != 2 || remaining[0].ID != 1 || remaining[1].ID != 3 {
		t.Fatalf("remaining = %+v", remaining)
	}
	if len(c.Files) != 2 {
		t.Fatalf("course relation not updated: %+v", c.Files)
	}
	if r.replaceCalls != 1 {
		t.Fatalf("replace calls = %d", r.replaceCalls)
	}
}

func TestRemoveFiles_MissingIDsAbortWholesale(t *testing.T) {
	r := &fakeCourseRepo{withFiles: courseWithFiles(1, 2)}
	s := NewCourseService(nil, r)

	_, _, err := s.RemoveFiles(context.Background(), 1, []int64{9, 1, 7})
	var missing *MissingFilesError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v; want MissingFilesError", err)
	}
	// Offending ids in request order, present ids excluded.
	if len(missing.IDs) != 2 || missing.IDs[0] != 9 || missing.IDs[1] != 7 {
		t.Fatalf("missing ids = %v; want [9 7]", missing.IDs)
	}
	if r.replaceCalls != 0 {
		t.Fatalf("no mutation may happen when ids are missing")
	}
}

func TestRemoveFiles_RepeatAfterSuccessReportsMissing(t *testing.T) {
	// Second call sees the relation already shrunk.
	r := &fakeCourseRepo{withFiles: courseWithFiles(1, 3)}
	s := NewCourseService(nil, r)

	_, _, err := s.RemoveFiles(context.Background(), 1, []int64{2})
	var missing *MissingFilesError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v; want MissingFilesError", err)
	}
	if len(missing.IDs) != 1 || missing.IDs[0] != 2 {
		t.Fatalf("missing ids = %v; want [2]", missing.IDs)
	}
}

func TestRemoveFiles_CourseNotFound(t *testing.T) {
	r := &fakeCourseRepo{withFilesErr: gorm.ErrRecordNotFound}
	s := NewCourseService(nil, r)

	_, _, err := s.RemoveFiles(context.Background(), 42, []int64{1})
	if !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("err = %v; want ErrCourseNotFound", err)
	}
}

// ----- AddFiles -----

func TestAddFiles_UnionWithDedup(t *testing.T) {
	r := &fakeCourseRepo{
		withFiles: courseWithFiles(1),
		files:     []domain.File{{ID: 1}, {ID: 2}},
	}
	s := NewCourseService(nil, r)

	_, files, err := s.AddFiles(context.Background(), 1, []int64{2, 1, 2})
	if err != nil {
		t.Fatalf("add files: %v", err)
	}
	if len(files) != 2 || files[0].ID != 1 || files[1].ID != 2 {
		t.Fatalf("union = %+v; want ids [1 2]", files)
	}
	if r.replacedWith == nil || len(r.replacedWith) != 2 {
		t.Fatalf("relation not rewritten with union: %+v", r.replacedWith)
	}
}

func TestAddFiles_UnknownFileIDs(t *testing.T) {
	r := &fakeCourseRepo{
		withFiles: courseWithFiles(1),
		files:     []domain.File{{ID: 2}},
	}
	s := NewCourseService(nil, r)

	_, _, err := s.AddFiles(context.Background(), 1, []int64{2, 8})
	var missing *MissingFilesError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v; want MissingFilesError", err)
	}
	if len(missing.IDs) != 1 || missing.IDs[0] != 8 {
		t.Fatalf("missing ids = %v; want [8]", missing.IDs)
	}
	if r.replaceCalls != 0 {
		t.Fatalf("no mutation may happen when ids are unknown")
	}
}

// ----- outcome messages -----

func TestMissingFilesError_Message(t *testing.T) {
	err := &MissingFilesError{IDs: []int64{4, 2, 9}}
	want := "files with ids 4, 2, 9 not found in the course"
	if err.Error() != want {
		t.Fatalf("message = %q; want %q", err.Error(), want)
	}
}
