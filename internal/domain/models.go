// Package domain defines the persistence models for courses and files.
// These types are mapped with GORM and form the core data layer shared by
// the backend service and its repositories.
package domain

import (
	"time"
)

// Course represents a single course offering. A course owns a many-to-many
// relationship to File entities through the course_files join table.
//
// Fields:
//   - ID: autoincrement integer primary key, immutable after creation.
//   - Title: human-readable course title, unique across all courses.
//   - Description / Category / Level: optional descriptive attributes;
//     partial updates touch only the fields present in the request.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - Files: associated files; loaded only when explicitly preloaded.
type Course struct {
	ID          int64     `json:"id"          gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title"       gorm:"type:varchar(255);not null;uniqueIndex:ux_courses_title"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Category    string    `json:"category,omitempty"    gorm:"type:varchar(128)"`
	Level       string    `json:"level,omitempty"       gorm:"type:varchar(64)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Files holds the course's file set. The relation rows live in
	// course_files; removing an association never deletes the file row.
	Files []File `json:"files,omitempty" gorm:"many2many:course_files"`
}

// TableName returns the database table name for Course.
func (Course) TableName() string { return "courses" }

// File represents an uploaded asset that can be attached to any number of
// courses. Only its identity matters to the course operations; the
// descriptive attributes are carried for completeness.
type File struct {
	ID        int64     `json:"id"   gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	URL       string    `json:"url"  gorm:"type:varchar(1024)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Courses []Course `json:"-" gorm:"many2many:course_files"`
}

// TableName returns the database table name for File.
func (File) TableName() string { return "files" }
