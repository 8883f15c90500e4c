// Package rpc implements the internal channel between the gateway and the
// course backend. The service is a hand-written gRPC service definition
// ("courses.v1.CourseService") whose unary methods exchange
// structpb.Struct payloads, so request bodies can be forwarded by the
// gateway without a schema compilation step.
//
// This file holds the payload codec: converting domain entities to wire
// structs and extracting identifiers from inbound requests.
package rpc

import (
	"math"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/edulab/go-course-platform/internal/domain"
)

// courseMap flattens a course into the wire representation. Empty optional
// attributes are omitted; the file relation is included only when loaded.
func courseMap(c *domain.Course, includeFiles bool) map[string]any {
	m := map[string]any{
		"id":         c.ID,
		"title":      c.Title,
		"created_at": c.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at": c.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if c.Description != "" {
		m["description"] = c.Description
	}
	if c.Category != "" {
		m["category"] = c.Category
	}
	if c.Level != "" {
		m["level"] = c.Level
	}
	if includeFiles {
		m["files"] = filesList(c.Files)
	}
	return m
}

// filesList flattens a file set into the wire representation.
func filesList(files []domain.File) []any {
	out := make([]any, len(files))
	for i, f := range files {
		fm := map[string]any{
			"id":   f.ID,
			"name": f.Name,
		}
		if f.URL != "" {
			fm["url"] = f.URL
		}
		out[i] = fm
	}
	return out
}

// CourseStruct encodes a single course as a response payload.
func CourseStruct(c *domain.Course) (*structpb.Struct, error) {
	return structpb.NewStruct(courseMap(c, false))
}

// CoursesStruct encodes a course collection as {"courses": [...]}.
func CoursesStruct(courses []domain.Course) (*structpb.Struct, error) {
	list := make([]any, len(courses))
	for i := range courses {
		list[i] = courseMap(&courses[i], false)
	}
	return structpb.NewStruct(map[string]any{"courses": list})
}

// CourseFilesStruct encodes a relation-mutation result as
// {"course": {...}, "files": [...]}.
func CourseFilesStruct(c *domain.Course, files []domain.File) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"course": courseMap(c, false),
		"files":  filesList(files),
	})
}

// IDFromStruct extracts the required positive integer field key from req.
// structpb carries numbers as float64; anything non-integral or non-positive
// is rejected as InvalidArgument before it can reach the domain layer.
func IDFromStruct(req *structpb.Struct, key string) (int64, error) {
	v := req.GetFields()[key]
	if v == nil {
		return 0, status.Errorf(codes.InvalidArgument, "missing %s", key)
	}
	f := v.GetNumberValue()
	if f <= 0 || f != math.Trunc(f) {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a positive integer", key)
	}
	return int64(f), nil
}

// IDListFromStruct extracts the integer list field key from req, preserving
// order. An absent field yields an empty list.
func IDListFromStruct(req *structpb.Struct, key string) ([]int64, error) {
	v := req.GetFields()[key]
	if v == nil {
		return nil, nil
	}
	lv := v.GetListValue()
	if lv == nil {
		return nil, status.Errorf(codes.InvalidArgument, "%s must be a list of integers", key)
	}
	out := make([]int64, 0, len(lv.GetValues()))
	for _, item := range lv.GetValues() {
		f := item.GetNumberValue()
		if f <= 0 || f != math.Trunc(f) {
			return nil, status.Errorf(codes.InvalidArgument, "%s must contain positive integers", key)
		}
		out = append(out, int64(f))
	}
	return out, nil
}

// StringFromStruct extracts the string field key, or "" when absent.
func StringFromStruct(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

// FieldsFromStruct converts the payload into a plain map, dropping the keys
// listed in omit (used to strip routing fields like "id" from update bodies).
func FieldsFromStruct(req *structpb.Struct, omit ...string) map[string]any {
	m := req.AsMap()
	for _, k := range omit {
		delete(m, k)
	}
	return m
}
