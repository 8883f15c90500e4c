// RPC error mapper.
//
// Domain outcomes cross the channel as exactly one of a fixed status
// taxonomy: OK, AlreadyExists, NotFound, Internal. The mapper is a pure
// function from an error value to a wire status plus a diagnosis that tells
// apart genuine store failures from outcomes the mapping table does not
// know. The diagnosis never crosses the wire; it exists for logs and tests.
package rpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/edulab/go-course-platform/internal/services"
)

// Diagnosis classifies how an error was mapped.
type Diagnosis string

const (
	// DiagMapped: a recognized domain outcome with a table entry.
	DiagMapped Diagnosis = "mapped"
	// DiagUnmappedOutcome: carries the domain outcome marker but has no
	// table entry. Always an implementation bug.
	DiagUnmappedOutcome Diagnosis = "unmapped_outcome"
	// DiagStoreFailure: an unrecognized error, i.e. a raw store or
	// infrastructure failure.
	DiagStoreFailure Diagnosis = "store_failure"
)

// Fixed wire messages. Store error text is never echoed to callers.
const (
	msgAlreadyExists = "course already exists"
	msgNotFound      = "course not found"
	msgInternal      = "internal server error"
)

// MapOutcome translates a domain error into its wire status and diagnosis.
// A nil error maps to the OK status.
func MapOutcome(err error) (*status.Status, Diagnosis) {
	if err == nil {
		return status.New(codes.OK, ""), DiagMapped
	}

	var missing *services.MissingFilesError
	switch {
	case errors.Is(err, services.ErrCourseAlreadyExists):
		return status.New(codes.AlreadyExists, msgAlreadyExists), DiagMapped
	case errors.Is(err, services.ErrCourseNotFound):
		return status.New(codes.NotFound, msgNotFound), DiagMapped
	case errors.As(err, &missing):
		// Offending ids, comma-joined in request order, carried verbatim.
		return status.New(codes.NotFound, missing.Error()), DiagMapped
	}

	var outcome services.Outcome
	if errors.As(err, &outcome) {
		return status.New(codes.Internal, msgInternal), DiagUnmappedOutcome
	}
	return status.New(codes.Internal, msgInternal), DiagStoreFailure
}
