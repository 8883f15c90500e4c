package rpc

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/edulab/go-course-platform/internal/domain"
	"github.com/edulab/go-course-platform/internal/services"
)

// ----- Fake domain service -----

type fakeCourseService struct {
	course  *domain.Course
	courses []domain.Course
	files   []domain.File
	err     error

	// capture
	createIn     services.CreateCourseInput
	updateID     int64
	updateFields map[string]any
	relCourseID  int64
	relFileIDs   []int64
	panicOn      string
}

func (f *fakeCourseService) Create(ctx context.Context, in services.CreateCourseInput) (*domain.Course, error) {
	if f.panicOn == "create" {
		panic("boom")
	}
	f.createIn = in
	return f.course, f.err
}

func (f *fakeCourseService) List(ctx context.Context) ([]domain.Course, error) {
	return f.courses, f.err
}

func (f *fakeCourseService) Get(ctx context.Context, id int64) (*domain.Course, error) {
	return f.course, f.err
}

func (f *fakeCourseService) Update(ctx context.Context, id int64, fields map[string]any) (*domain.Course, error) {
	f.updateID, f.updateFields = id, fields
	return f.course, f.err
}

func (f *fakeCourseService) Remove(ctx context.Context, id int64) (*domain.Course, error) {
	return f.course, f.err
}

func (f *fakeCourseService) AddFiles(ctx context.Context, courseID int64, fileIDs []int64) (*domain.Course, []domain.File, error) {
	f.relCourseID, f.relFileIDs = courseID, fileIDs
	return f.course, f.files, f.err
}

func (f *fakeCourseService) RemoveFiles(ctx context.Context, courseID int64, fileIDs []int64) (*domain.Course, []domain.File, error) {
	f.relCourseID, f.relFileIDs = courseID, fileIDs
	return f.course, f.files, f.err
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("struct: %v", err)
	}
	return s
}

// ----- Endpoint behavior -----

func TestCreateCourse_Success(t *testing.T) {
	svc := &fakeCourseService{course: &domain.Course{ID: 3, Title: "CS101"}}
	srv := NewCourseServer(svc)

	resp, err := srv.CreateCourse(context.Background(), mustStruct(t, map[string]any{
		"title":    "CS101",
		"category": "cs",
	}))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if svc.createIn.Title != "CS101" || svc.createIn.Category != "cs" {
		t.Fatalf("input not forwarded: %+v", svc.createIn)
	}
	m := resp.AsMap()
	if m["id"] != float64(3) || m["title"] != "CS101" {
		t.Fatalf("payload = %v", m)
	}
}

func TestCreateCourse_MissingTitle(t *testing.T) {
	srv := NewCourseServer(&fakeCourseService{})

	_, err := srv.CreateCourse(context.Background(), mustStruct(t, map[string]any{}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %v; want InvalidArgument", status.Code(err))
	}
}

func TestCreateCourse_AlreadyExistsStatus(t *testing.T) {
	svc := &fakeCourseService{err: services.ErrCourseAlreadyExists}
	srv := NewCourseServer(svc)

	_, err := srv.CreateCourse(context.Background(), mustStruct(t, map[string]any{"title": "CS101"}))
	st := status.Convert(err)
	if st.Code() != codes.AlreadyExists {
		t.Fatalf("code = %v; want AlreadyExists", st.Code())
	}
	if st.Message() != "course already exists" {
		t.Fatalf("message = %q", st.Message())
	}
}

func TestFindAllCourses_WrapsCollection(t *testing.T) {
	svc := &fakeCourseService{courses: []domain.Course{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}}
	srv := NewCourseServer(svc)

	resp, err := srv.FindAllCourses(context.Background(), &structpb.Struct{})
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	courses, ok := resp.AsMap()["courses"].([]any)
	if !ok || len(courses) != 2 {
		t.Fatalf("payload = %v", resp.AsMap())
	}
}

func TestFindOneCourse_RejectsBadID(t *testing.T) {
	srv := NewCourseServer(&fakeCourseService{})

	for name, req := range map[string]map[string]any{
		"missing":      {},
		"zero":         {"id": 0},
		"negative":     {"id": -4},
		"non-integral": {"id": 3.5},
	} {
		_, err := srv.FindOneCourse(context.Background(), mustStruct(t, req))
		if status.Code(err) != codes.InvalidArgument {
			t.Errorf("%s: code = %v; want InvalidArgument", name, status.Code(err))
		}
	}
}

func TestFindOneCourse_NotFoundStatus(t *testing.T) {
	svc := &fakeCourseService{err: services.ErrCourseNotFound}
	srv := NewCourseServer(svc)

	_, err := srv.FindOneCourse(context.Background(), mustStruct(t, map[string]any{"id": 42}))
	st := status.Convert(err)
	if st.Code() != codes.NotFound || st.Message() != "course not found" {
		t.Fatalf("status = (%v, %q)", st.Code(), st.Message())
	}
}

func TestUpdateCourse_StripsIDFromFields(t *testing.T) {
	svc := &fakeCourseService{course: &domain.Course{ID: 5, Title: "New"}}
	srv := NewCourseServer(svc)

	_, err := srv.UpdateCourse(context.Background(), mustStruct(t, map[string]any{
		"id":    5,
		"title": "New",
	}))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if svc.updateID != 5 {
		t.Fatalf("id = %d", svc.updateID)
	}
	if _, present := svc.updateFields["id"]; present {
		t.Fatalf("id must not leak into the merge fields: %v", svc.updateFields)
	}
	if svc.updateFields["title"] != "New" {
		t.Fatalf("fields = %v", svc.updateFields)
	}
}

func TestRemoveFilesFromCourse_MissingIDsMessage(t *testing.T) {
	svc := &fakeCourseService{err: &services.MissingFilesError{IDs: []int64{7, 3}}}
	srv := NewCourseServer(svc)

	_, err := srv.RemoveFilesFromCourse(context.Background(), mustStruct(t, map[string]any{
		"courseId": 1,
		"fileIds":  []any{7, 3},
	}))
	st := status.Convert(err)
	if st.Code() != codes.NotFound {
		t.Fatalf("code = %v; want NotFound", st.Code())
	}
	if st.Message() != "files with ids 7, 3 not found in the course" {
		t.Fatalf("message = %q", st.Message())
	}
	if len(svc.relFileIDs) != 2 || svc.relFileIDs[0] != 7 || svc.relFileIDs[1] != 3 {
		t.Fatalf("ids not forwarded in order: %v", svc.relFileIDs)
	}
}

func TestSetCourseFile_ReturnsCourseAndFiles(t *testing.T) {
	svc := &fakeCourseService{
		course: &domain.Course{ID: 1, Title: "CS101"},
		files:  []domain.File{{ID: 4, Name: "a.pdf"}},
	}
	srv := NewCourseServer(svc)

	resp, err := srv.SetCourseFile(context.Background(), mustStruct(t, map[string]any{
		"courseId": 1,
		"fileIds":  []any{4},
	}))
	if err != nil {
		t.Fatalf("set course file: %v", err)
	}
	m := resp.AsMap()
	if _, ok := m["course"].(map[string]any); !ok {
		t.Fatalf("payload missing course: %v", m)
	}
	files, ok := m["files"].([]any)
	if !ok || len(files) != 1 {
		t.Fatalf("payload missing files: %v", m)
	}
}

func TestStoreFailureNeverLeaks(t *testing.T) {
	svc := &fakeCourseService{err: errors.New("pq: connection refused")}
	srv := NewCourseServer(svc)

	_, err := srv.FindOneCourse(context.Background(), mustStruct(t, map[string]any{"id": 1}))
	st := status.Convert(err)
	if st.Code() != codes.Internal {
		t.Fatalf("code = %v; want Internal", st.Code())
	}
	if st.Message() != "internal server error" {
		t.Fatalf("store text leaked: %q", st.Message())
	}
}

// ----- Recovery interceptor -----

func TestRecoveryInterceptor_ConvertsPanic(t *testing.T) {
	ic := RecoveryInterceptor()

	_, err := ic(context.Background(), &structpb.Struct{},
		&grpc.UnaryServerInfo{FullMethod: "/" + ServiceName + "/CreateCourse"},
		func(ctx context.Context, req any) (any, error) { panic("boom") },
	)
	st := status.Convert(err)
	if st.Code() != codes.Internal || st.Message() != "internal server error" {
		t.Fatalf("status = (%v, %q)", st.Code(), st.Message())
	}
}

func TestRecoveryInterceptor_PassesThrough(t *testing.T) {
	ic := RecoveryInterceptor()

	resp, err := ic(context.Background(), &structpb.Struct{},
		&grpc.UnaryServerInfo{FullMethod: "/" + ServiceName + "/FindAllCourses"},
		func(ctx context.Context, req any) (any, error) { return "ok", nil },
	)
	if err != nil || resp != "ok" {
		t.Fatalf("resp = %v, err = %v", resp, err)
	}
}
