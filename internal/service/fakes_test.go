package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/course-scheduler/internal/models"
	"github.com/noah-isme/course-scheduler/internal/repository"
)

var testNow = time.Date(2025, time.October, 6, 8, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type memoryCourseRepo struct {
	mu       sync.Mutex
	courses  []models.Course
	err      error
	addErr   map[string]error
	updates  int
	deletes  []string
	lastSave *models.Course
}

func newMemoryCourseRepo(courses ...models.Course) *memoryCourseRepo {
	repo := &memoryCourseRepo{addErr: map[string]error{}}
	for _, c := range courses {
		repo.courses = append(repo.courses, c.Clone())
	}
	return repo
}

func (r *memoryCourseRepo) GetAllCourses(ctx context.Context) ([]models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]models.Course, len(r.courses))
	for i, c := range r.courses {
		out[i] = c.Clone()
	}
	return out, nil
}

func (r *memoryCourseRepo) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.courses {
		if c.ID == id {
			clone := c.Clone()
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memoryCourseRepo) AddCourse(ctx context.Context, course models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.addErr[course.ID]; err != nil {
		return err
	}
	for _, c := range r.courses {
		if c.ID == course.ID {
			return fmt.Errorf("add: %w", repository.ErrDuplicateCourse)
		}
	}
	r.courses = append(r.courses, course.Clone())
	return nil
}

func (r *memoryCourseRepo) UpdateCourse(ctx context.Context, course models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for i, c := range r.courses {
		if c.ID == course.ID {
			r.courses[i] = course.Clone()
			r.updates++
			saved := course.Clone()
			r.lastSave = &saved
			return nil
		}
	}
	return fmt.Errorf("update: %w", sql.ErrNoRows)
}

func (r *memoryCourseRepo) DeleteCourse(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.deletes = append(r.deletes, id)
	for i, c := range r.courses {
		if c.ID == id {
			r.courses = append(r.courses[:i], r.courses[i+1:]...)
			return nil
		}
	}
	return nil
}

func courseWith(id, code, name, professor string, assignments ...models.Assignment) models.Course {
	course := models.Course{
		ID:          id,
		Name:        name,
		Code:        code,
		Professor:   professor,
		Semester:    models.Semester{Season: models.SeasonFall, Year: 2025},
		Assignments: []models.Assignment{},
	}
	for _, a := range assignments {
		course.AddAssignment(a)
	}
	return course
}

func assignmentDue(id, title string, due time.Time, status models.AssignmentStatus) models.Assignment {
	deadline := due
	return models.Assignment{
		ID:                 id,
		Title:              title,
		DueDate:            due,
		SubmissionDeadline: &deadline,
		Status:             status,
		CreatedAt:          testNow.Add(-72 * time.Hour),
		UpdatedAt:          testNow.Add(-72 * time.Hour),
	}
}
