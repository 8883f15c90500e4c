// Package services - CourseService
//
// This file implements the CourseService, which owns the business rules for
// the course entity: title uniqueness on create, existence checks on every
// id-addressed operation, partial merge-updates, and all-or-nothing mutation
// of the course/file relation. The service holds no state across calls;
// every operation re-fetches from the store.
//
// Service-level outcomes (e.g., ErrCourseNotFound) are returned for
// predictable cases so the RPC layer can map them to wire statuses
// consistently. Any other error is an unexpected store failure.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/edulab/go-course-platform/internal/domain"
)

// CourseRepo defines the repository contract required by CourseService.
// Implementations are responsible for persistence of the course aggregate
// and its file relation.
type CourseRepo interface {
	// CreateCourse inserts a new course row, assigning its id.
	CreateCourse(ctx context.Context, db *gorm.DB, c *domain.Course) error

	// ListCourses returns all courses in store order.
	ListCourses(ctx context.Context, db *gorm.DB) ([]domain.Course, error)

	// GetCourse fetches a course by id, without the file relation.
	GetCourse(ctx context.Context, db *gorm.DB, id int64) (*domain.Course, error)

	// GetCourseByTitle fetches a course by exact title.
	GetCourseByTitle(ctx context.Context, db *gorm.DB, title string) (*domain.Course, error)

	// GetCourseWithFiles fetches a course by id with files preloaded.
	GetCourseWithFiles(ctx context.Context, db *gorm.DB, id int64) (*domain.Course, error)

	// SaveCourse persists the non-relation fields of a loaded course.
	SaveCourse(ctx context.Context, db *gorm.DB, c *domain.Course) error

	// DeleteCourse removes a course and its join rows.
	DeleteCourse(ctx context.Context, db *gorm.DB, c *domain.Course) error

	// ListFilesByIDs returns the files whose ids are present in the store.
	ListFilesByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]domain.File, error)

	// ReplaceCourseFiles rewrites the course's file relation to exactly files.
	ReplaceCourseFiles(ctx context.Context, db *gorm.DB, c *domain.Course, files []domain.File) error
}

// CourseService provides course lifecycle operations and relation mutation.
// It is stateless apart from its injected dependencies and safe for
// concurrent use.
type CourseService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the course repository used by this service.
	Repo CourseRepo
}

// NewCourseService constructs a CourseService.
func NewCourseService(db *gorm.DB, r CourseRepo) *CourseService {
	return &CourseService{DB: db, Repo: r}
}

// CreateCourseInput carries the attributes accepted at course creation.
type CreateCourseInput struct {
	Title       string
	Description string
	Category    string
	Level       string
}

// Create persists a new course unless a course with an equal title already
// exists. The title check is exact-match and happens immediately before the
// insert; a concurrent duplicate insert is caught by the store's unique
// index and surfaces as a store error, not as ErrCourseAlreadyExists.
func (s *CourseService) Create(ctx context.Context, in CreateCourseInput) (*domain.Course, error) {
	_, err := s.Repo.GetCourseByTitle(ctx, s.DB, in.Title)
	switch {
	case err == nil:
		return nil, ErrCourseAlreadyExists
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	c := &domain.Course{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Level:       in.Level,
	}
	if err := s.Repo.CreateCourse(ctx, s.DB, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns all courses in store order.
func (s *CourseService) List(ctx context.Context) ([]domain.Course, error) {
	return s.Repo.ListCourses(ctx, s.DB)
}

// Get returns the course with the given id, or ErrCourseNotFound.
func (s *CourseService) Get(ctx context.Context, id int64) (*domain.Course, error) {
	c, err := s.Repo.GetCourse(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return c, nil
}

// Update merges the supplied fields into an existing course and persists the
// result. Only keys present in fields are touched; everything else keeps its
// prior value. An empty fields map is a no-op round-trip.
//
// Recognized keys: title, description, category, level. Anything else is
// ignored here; body shape validation is the transport's concern.
func (s *CourseService) Update(ctx context.Context, id int64, fields map[string]any) (*domain.Course, error) {
	c, err := s.Repo.GetCourse(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	mergeCourseFields(c, fields)

	if err := s.Repo.SaveCourse(ctx, s.DB, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Remove deletes the course with the given id and returns its pre-deletion
// snapshot for caller confirmation.
func (s *CourseService) Remove(ctx context.Context, id int64) (*domain.Course, error) {
	c, err := s.Repo.GetCourse(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	snapshot := *c
	if err := s.Repo.DeleteCourse(ctx, s.DB, c); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// AddFiles associates the given file ids with the course: the resulting
// relation is the union of the current set and the requested ids,
// deduplicated by id. Requested ids with no backing file row fail the whole
// call with MissingFilesError and no mutation happens.
func (s *CourseService) AddFiles(ctx context.Context, courseID int64, fileIDs []int64) (*domain.Course, []domain.File, error) {
	c, err := s.Repo.GetCourseWithFiles(ctx, s.DB, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCourseNotFound
		}
		return nil, nil, err
	}

	requested := dedupeIDs(fileIDs)
	found, err := s.Repo.ListFilesByIDs(ctx, s.DB, requested)
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[int64]domain.File, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}
	var missing []int64
	for _, id := range requested {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &MissingFilesError{IDs: missing}
	}

	current := make(map[int64]struct{}, len(c.Files))
	for _, f := range c.Files {
		current[f.ID] = struct{}{}
	}
	union := append([]domain.File(nil), c.Files...)
	for _, id := range requested {
		if _, ok := current[id]; !ok {
			union = append(union, byID[id])
		}
	}

	if err := s.Repo.ReplaceCourseFiles(ctx, s.DB, c, union); err != nil {
		return nil, nil, err
	}
	c.Files = union
	return c, union, nil
}

// RemoveFiles removes exactly the requested file ids from the course's
// relation. If any requested id is not currently associated, the whole call
// fails with MissingFilesError listing the offending ids in request order,
// and nothing is removed.
func (s *CourseService) RemoveFiles(ctx context.Context, courseID int64, fileIDs []int64) (*domain.Course, []domain.File, error) {
	c, err := s.Repo.GetCourseWithFiles(ctx, s.DB, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCourseNotFound
		}
		return nil, nil, err
	}

	current := make(map[int64]struct{}, len(c.Files))
	for _, f := range c.Files {
		current[f.ID] = struct{}{}
	}

	requested := dedupeIDs(fileIDs)
	var missing []int64
	for _, id := range requested {
		if _, ok := current[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &MissingFilesError{IDs: missing}
	}

	drop := make(map[int64]struct{}, len(requested))
	for _, id := range requested {
		drop[id] = struct{}{}
	}
	remaining := make([]domain.File, 0, len(c.Files))
	for _, f := range c.Files {
		if _, gone := drop[f.ID]; !gone {
			remaining = append(remaining, f)
		}
	}

	if err := s.Repo.ReplaceCourseFiles(ctx, s.DB, c, remaining); err != nil {
		return nil, nil, err
	}
	c.Files = remaining
	return c, remaining, nil
}

// mergeCourseFields applies the recognized keys of fields onto c.
func mergeCourseFields(c *domain.Course, fields map[string]any) {
	if v, ok := fields["title"].(string); ok {
		c.Title = v
	}
	if v, ok := fields["description"].(string); ok {
		c.Description = v
	}
	if v, ok := fields["category"].(string); ok {
		c.Category = v
	}
	if v, ok := fields["level"].(string); ok {
		c.Level = v
	}
}

// dedupeIDs removes duplicate ids while preserving first-seen order.
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
