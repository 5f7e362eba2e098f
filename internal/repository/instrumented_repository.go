package repository

import (
	"context"
	"time"

	"github.com/noah-isme/course-scheduler/internal/models"
)

// OperationObserver receives the outcome of every repository call.
type OperationObserver interface {
	ObserveStoreOperation(backend, operation string, duration time.Duration, err error)
}

// InstrumentedCourseRepository times each call on the wrapped repository.
type InstrumentedCourseRepository struct {
	next     CourseRepository
	observer OperationObserver
}

// Instrument wraps next. A nil observer returns next unchanged.
func Instrument(next CourseRepository, observer OperationObserver) CourseRepository {
	if observer == nil {
		return next
	}
	return &InstrumentedCourseRepository{next: next, observer: observer}
}

func (r *InstrumentedCourseRepository) observe(op string, start time.Time, err error) {
	r.observer.ObserveStoreOperation(r.next.Backend(), op, time.Since(start), err)
}

func (r *InstrumentedCourseRepository) Backend() string {
	return r.next.Backend()
}

func (r *InstrumentedCourseRepository) GetAllCourses(ctx context.Context) ([]models.Course, error) {
	start := time.Now()
	courses, err := r.next.GetAllCourses(ctx)
	r.observe("get_all_courses", start, err)
	return courses, err
}

func (r *InstrumentedCourseRepository) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	start := time.Now()
	course, err := r.next.GetCourseByID(ctx, id)
	r.observe("get_course", start, err)
	return course, err
}

func (r *InstrumentedCourseRepository) AddCourse(ctx context.Context, course models.Course) error {
	start := time.Now()
	err := r.next.AddCourse(ctx, course)
	r.observe("add_course", start, err)
	return err
}

func (r *InstrumentedCourseRepository) UpdateCourse(ctx context.Context, course models.Course) error {
	start := time.Now()
	err := r.next.UpdateCourse(ctx, course)
	r.observe("update_course", start, err)
	return err
}

func (r *InstrumentedCourseRepository) DeleteCourse(ctx context.Context, id string) error {
	start := time.Now()
	err := r.next.DeleteCourse(ctx, id)
	r.observe("delete_course", start, err)
	return err
}

func (r *InstrumentedCourseRepository) Load(ctx context.Context) error {
	start := time.Now()
	err := r.next.Load(ctx)
	r.observe("load", start, err)
	return err
}

func (r *InstrumentedCourseRepository) Save(ctx context.Context) error {
	start := time.Now()
	err := r.next.Save(ctx)
	r.observe("save", start, err)
	return err
}
