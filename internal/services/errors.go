// Package services defines the business logic for courses and their file
// relation. This file centralizes the domain outcomes a service method can
// produce, so the RPC layer can translate them into wire statuses without
// inspecting raw store errors.
//
// Every recognized outcome implements the Outcome marker. Errors without the
// marker are treated as internal store failures by the RPC error mapper; a
// marked outcome the mapper does not know is reported as an unmapped outcome,
// which keeps the two failure classes distinguishable in logs and tests.
package services

import (
	"fmt"
	"strings"
)

// Outcome marks an error value as a recognized domain outcome, as opposed to
// an unexpected store failure.
type Outcome interface {
	error
	domainOutcome()
}

// outcomeError is a sentinel string error carrying the Outcome marker.
type outcomeError string

func (e outcomeError) Error() string  { return string(e) }
func (e outcomeError) domainOutcome() {}

var (
	// ErrCourseAlreadyExists indicates a create collided with an existing
	// course carrying the same title.
	ErrCourseAlreadyExists = outcomeError("course already exists")

	// ErrCourseNotFound indicates that no course carries the requested id.
	ErrCourseNotFound = outcomeError("course not found")
)

// MissingFilesError reports a file-relation mutation that referenced at least
// one file id not applicable to the course. IDs preserves request order and
// the mutation is guaranteed not to have happened.
type MissingFilesError struct {
	IDs []int64
}

func (e *MissingFilesError) Error() string {
	parts := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("files with ids %s not found in the course", strings.Join(parts, ", "))
}

func (*MissingFilesError) domainOutcome() {}
