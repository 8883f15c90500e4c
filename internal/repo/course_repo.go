// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Course
// model and its file relation.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a course is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// This repository is designed to be wrapped by a higher-level service
// (see services.CourseService) which enforces business rules such as title
// uniqueness and all-or-nothing relation mutation.
package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/edulab/go-course-platform/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateCourse inserts the given course. The generated ID and timestamps are
// written back into c. On failure, it returns a DB error.
func CreateCourse(ctx context.Context, db *gorm.DB, c *domain.Course) error {
	return db.WithContext(ctx).Create(c).Error
}

// ListCourses returns every course ordered by id ascending. It returns an
// empty slice when no courses exist. On DB error, it returns the error.
func ListCourses(ctx context.Context, db *gorm.DB) ([]domain.Course, error) {
	var out []domain.Course
	err := db.WithContext(ctx).
		Order("id asc").
		Find(&out).Error
	return out, err
}

// GetCourse fetches a single course by id, without its file relation.
// Returns ErrNotFound when the record is missing.
func GetCourse(ctx context.Context, db *gorm.DB, id int64) (*domain.Course, error) {
	var c domain.Course
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCourseByTitle fetches a single course by exact (case-sensitive) title.
// Returns ErrNotFound when no course carries the title.
func GetCourseByTitle(ctx context.Context, db *gorm.DB, title string) (*domain.Course, error) {
	var c domain.Course
	err := db.WithContext(ctx).
		Where("title = ?", title).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCourseWithFiles fetches a course by id with its file relation preloaded.
// Returns ErrNotFound when the record is missing.
func GetCourseWithFiles(ctx context.Context, db *gorm.DB, id int64) (*domain.Course, error) {
	var c domain.Course
	err := db.WithContext(ctx).
		Preload("Files").
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveCourse persists all non-relation fields of an already-loaded course.
// Used by the service layer after merging a partial update into the entity.
func SaveCourse(ctx context.Context, db *gorm.DB, c *domain.Course) error {
	return db.WithContext(ctx).
		Omit(clause.Associations).
		Save(c).Error
}

// DeleteCourse removes a course row together with its course_files join rows.
// File rows themselves are never deleted here.
func DeleteCourse(ctx context.Context, db *gorm.DB, c *domain.Course) error {
	return db.WithContext(ctx).
		Select(clause.Associations).
		Delete(c).Error
}

// ListFilesByIDs returns the files whose ids appear in ids. Missing ids are
// simply absent from the result; the caller decides whether that is an error.
func ListFilesByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]domain.File, error) {
	if len(ids) == 0 {
		return []domain.File{}, nil
	}
	var out []domain.File
	err := db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&out).Error
	return out, err
}

// ReplaceCourseFiles replaces the course's file relation with exactly the
// given set, rewriting the course_files join rows in one association call.
func ReplaceCourseFiles(ctx context.Context, db *gorm.DB, c *domain.Course, files []domain.File) error {
	refs := make([]*domain.File, len(files))
	for i := range files {
		refs[i] = &files[i]
	}
	return db.WithContext(ctx).
		Model(c).
		Association("Files").
		Replace(refs)
}
