// Backend-side RPC endpoint.
//
// CourseServer is a thin composition layer: each method decodes its struct
// payload, delegates to the course service, and feeds any failure through
// the error mapper before it can cross the channel. No business logic lives
// here, and no raw store error ever leaves this package as a gRPC response.
package rpc

import (
	"context"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/edulab/go-course-platform/internal/domain"
	"github.com/edulab/go-course-platform/internal/services"
)

// ServiceName is the fully-qualified gRPC service name of the course backend.
const ServiceName = "courses.v1.CourseService"

// CourseService is the domain contract the endpoint composes. It is
// implemented by services.CourseService.
type CourseService interface {
	Create(ctx context.Context, in services.CreateCourseInput) (*domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	Get(ctx context.Context, id int64) (*domain.Course, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*domain.Course, error)
	Remove(ctx context.Context, id int64) (*domain.Course, error)
	AddFiles(ctx context.Context, courseID int64, fileIDs []int64) (*domain.Course, []domain.File, error)
	RemoveFiles(ctx context.Context, courseID int64, fileIDs []int64) (*domain.Course, []domain.File, error)
}

// CourseRPC is the wire-level handler set registered with the gRPC server.
type CourseRPC interface {
	CreateCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	FindAllCourses(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	FindOneCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RemoveCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SetCourseFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RemoveFilesFromCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// CourseServer implements CourseRPC on top of a CourseService.
type CourseServer struct {
	svc CourseService
}

// NewCourseServer constructs the endpoint for the given service.
func NewCourseServer(svc CourseService) *CourseServer {
	return &CourseServer{svc: svc}
}

var _ CourseRPC = (*CourseServer)(nil)

// wireError maps err through the outcome table and logs the diagnosis for
// internal failures. The returned error is always a gRPC status error.
func (s *CourseServer) wireError(method string, err error) error {
	st, diag := MapOutcome(err)
	if st.Code() == codes.Internal {
		log.Error().
			Str("method", method).
			Str("reason", string(diag)).
			Err(err).
			Msg("rpc internal failure")
	}
	return st.Err()
}

// CreateCourse persists a new course unless the title is taken.
func (s *CourseServer) CreateCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	title := StringFromStruct(req, "title")
	if title == "" {
		return nil, status.Error(codes.InvalidArgument, "missing title")
	}
	c, err := s.svc.Create(ctx, services.CreateCourseInput{
		Title:       title,
		Description: StringFromStruct(req, "description"),
		Category:    StringFromStruct(req, "category"),
		Level:       StringFromStruct(req, "level"),
	})
	if err != nil {
		return nil, s.wireError("CreateCourse", err)
	}
	payload, perr := CourseStruct(c)
	return s.encode("CreateCourse", payload, perr)
}

// FindAllCourses returns the full collection wrapped as {"courses": [...]}.
func (s *CourseServer) FindAllCourses(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	courses, err := s.svc.List(ctx)
	if err != nil {
		return nil, s.wireError("FindAllCourses", err)
	}
	payload, perr := CoursesStruct(courses)
	return s.encode("FindAllCourses", payload, perr)
}

// FindOneCourse returns the course with the requested id.
func (s *CourseServer) FindOneCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := IDFromStruct(req, "id")
	if err != nil {
		return nil, err
	}
	c, err := s.svc.Get(ctx, id)
	if err != nil {
		return nil, s.wireError("FindOneCourse", err)
	}
	payload, perr := CourseStruct(c)
	return s.encode("FindOneCourse", payload, perr)
}

// UpdateCourse merges the request's non-id fields into an existing course.
func (s *CourseServer) UpdateCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := IDFromStruct(req, "id")
	if err != nil {
		return nil, err
	}
	c, err := s.svc.Update(ctx, id, FieldsFromStruct(req, "id"))
	if err != nil {
		return nil, s.wireError("UpdateCourse", err)
	}
	payload, perr := CourseStruct(c)
	return s.encode("UpdateCourse", payload, perr)
}

// RemoveCourse deletes a course and returns its pre-deletion snapshot.
func (s *CourseServer) RemoveCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := IDFromStruct(req, "id")
	if err != nil {
		return nil, err
	}
	c, err := s.svc.Remove(ctx, id)
	if err != nil {
		return nil, s.wireError("RemoveCourse", err)
	}
	payload, perr := CourseStruct(c)
	return s.encode("RemoveCourse", payload, perr)
}

// SetCourseFile associates file ids with a course (union, deduplicated).
func (s *CourseServer) SetCourseFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	courseID, err := IDFromStruct(req, "courseId")
	if err != nil {
		return nil, err
	}
	fileIDs, err := IDListFromStruct(req, "fileIds")
	if err != nil {
		return nil, err
	}
	c, files, err := s.svc.AddFiles(ctx, courseID, fileIDs)
	if err != nil {
		return nil, s.wireError("SetCourseFile", err)
	}
	payload, perr := CourseFilesStruct(c, files)
	return s.encode("SetCourseFile", payload, perr)
}

// RemoveFilesFromCourse removes file ids from a course, all-or-nothing.
func (s *CourseServer) RemoveFilesFromCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	courseID, err := IDFromStruct(req, "courseId")
	if err != nil {
		return nil, err
	}
	fileIDs, err := IDListFromStruct(req, "fileIds")
	if err != nil {
		return nil, err
	}
	c, files, err := s.svc.RemoveFiles(ctx, courseID, fileIDs)
	if err != nil {
		return nil, s.wireError("RemoveFilesFromCourse", err)
	}
	payload, perr := CourseFilesStruct(c, files)
	return s.encode("RemoveFilesFromCourse", payload, perr)
}

// encode guards payload construction; a codec failure is an internal error,
// never a partially-built response.
func (s *CourseServer) encode(method string, payload *structpb.Struct, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, s.wireError(method, err)
	}
	return payload, nil
}

// Register attaches the course service to a gRPC server under ServiceName.
func Register(server grpc.ServiceRegistrar, srv CourseRPC) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*CourseRPC)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "CreateCourse", Handler: structHandler("CreateCourse", CourseRPC.CreateCourse)},
			{MethodName: "FindAllCourses", Handler: structHandler("FindAllCourses", CourseRPC.FindAllCourses)},
			{MethodName: "FindOneCourse", Handler: structHandler("FindOneCourse", CourseRPC.FindOneCourse)},
			{MethodName: "UpdateCourse", Handler: structHandler("UpdateCourse", CourseRPC.UpdateCourse)},
			{MethodName: "RemoveCourse", Handler: structHandler("RemoveCourse", CourseRPC.RemoveCourse)},
			{MethodName: "SetCourseFile", Handler: structHandler("SetCourseFile", CourseRPC.SetCourseFile)},
			{MethodName: "RemoveFilesFromCourse", Handler: structHandler("RemoveFilesFromCourse", CourseRPC.RemoveFilesFromCourse)},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "courses/v1/course_service",
	}, srv)
}

// structHandler builds the grpc.MethodDesc handler for a unary method whose
// request and response are both structpb.Struct.
func structHandler(
	name string,
	call func(CourseRPC, context.Context, *structpb.Struct) (*structpb.Struct, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ServiceName + "/" + name
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		typedSrv, ok := srv.(CourseRPC)
		if !ok {
			return nil, status.Error(codes.Internal, "invalid server type")
		}
		if interceptor == nil {
			return call(typedSrv, ctx, req)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return call(typedSrv, ctx, typed)
		})
	}
}

// RecoveryInterceptor converts a handler panic into an Internal status so a
// raw failure can never escape the RPC boundary.
func RecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Str("method", info.FullMethod).
					Interface("panic", rec).
					Msg("panic recovered in rpc handler")
				err = status.Error(codes.Internal, msgInternal)
			}
		}()
		return handler(ctx, req)
	}
}
