package repository

import (
	"context"
	"errors"

	"github.com/noah-isme/course-scheduler/internal/models"
)

// ErrDuplicateCourse is returned when adding a course whose id is already stored.
var ErrDuplicateCourse = errors.New("course already exists")

// ErrDuplicateAssignment is returned when a write would leave two stored
// assignments sharing an id, within one course or across courses.
var ErrDuplicateAssignment = errors.New("assignment already exists")

// CourseRepository persists Course aggregates. A course's assignment list always
// travels with it; there is no separate assignment store.
//
// GetCourseByID returns (nil, nil) for an unknown id. UpdateCourse on an unknown
// id returns an error wrapping sql.ErrNoRows. DeleteCourse of an unknown id is a
// no-op.
type CourseRepository interface {
	GetAllCourses(ctx context.Context) ([]models.Course, error)
	GetCourseByID(ctx context.Context, id string) (*models.Course, error)
	AddCourse(ctx context.Context, course models.Course) error
	UpdateCourse(ctx context.Context, course models.Course) error
	DeleteCourse(ctx context.Context, id string) error
	Load(ctx context.Context) error
	Save(ctx context.Context) error
	Backend() string
}
