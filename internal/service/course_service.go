package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler/internal/models"
	"github.com/noah-isme/course-scheduler/internal/repository"
	appErrors "github.com/noah-isme/course-scheduler/pkg/errors"
	"github.com/noah-isme/course-scheduler/pkg/logger"
)

type courseRepository interface {
	GetAllCourses(ctx context.Context) ([]models.Course, error)
	GetCourseByID(ctx context.Context, id string) (*models.Course, error)
	AddCourse(ctx context.Context, course models.Course) error
	UpdateCourse(ctx context.Context, course models.Course) error
	DeleteCourse(ctx context.Context, id string) error
}

// CourseService exposes course-level operations over the active repository.
type CourseService struct {
	repo   courseRepository
	logger *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, logger: logger}
}

// GetAllCourses returns every course with its assignments.
func (s *CourseService) GetAllCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.GetAllCourses(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list courses")
	}
	return courses, nil
}

// GetCourseByID returns nil when no course has the id.
func (s *CourseService) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.GetCourseByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to load course")
	}
	return course, nil
}

// GetCoursesBySemester returns the courses whose semester equals semester.
func (s *CourseService) GetCoursesBySemester(ctx context.Context, semester models.Semester) ([]models.Course, error) {
	courses, err := s.GetAllCourses(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]models.Course, 0)
	for _, course := range courses {
		if !course.Semester.IsZero() && course.Semester == semester {
			result = append(result, course)
		}
	}
	return result, nil
}

// CreateCourse persists course together with any assignments it carries. An
// empty id is replaced with a generated one.
func (s *CourseService) CreateCourse(ctx context.Context, course models.Course) (*models.Course, error) {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.Assignments == nil {
		course.Assignments = []models.Assignment{}
	}
	for i := range course.Assignments {
		course.Assignments[i] = course.Assignments[i].Normalized()
		course.Assignments[i].CourseID = course.ID
	}
	if err := s.repo.AddCourse(ctx, course); err != nil {
		return nil, storeError(err, "failed to create course")
	}
	logger.WithContext(ctx, s.logger).Debug("course created", zap.String("course_id", course.ID), zap.String("code", course.Code))
	return &course, nil
}

// UpdateCourse replaces the stored course, assignments included.
func (s *CourseService) UpdateCourse(ctx context.Context, course models.Course) error {
	if err := s.repo.UpdateCourse(ctx, course); err != nil {
		return storeError(err, "failed to update course")
	}
	return nil
}

// DeleteCourse removes the course and its assignments. Unknown ids are ignored.
func (s *CourseService) DeleteCourse(ctx context.Context, id string) error {
	if err := s.repo.DeleteCourse(ctx, id); err != nil {
		return storeError(err, "failed to delete course")
	}
	return nil
}

// SearchCourses matches name, code or professor case-insensitively. A blank
// query matches nothing.
func (s *CourseService) SearchCourses(ctx context.Context, query string) ([]models.Course, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []models.Course{}, nil
	}
	courses, err := s.GetAllCourses(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]models.Course, 0)
	for _, course := range courses {
		if containsFold(needle, course.Name, course.Code, course.Professor) {
			result = append(result, course)
		}
	}
	return result, nil
}

func containsFold(needle string, fields ...string) bool {
	for _, field := range fields {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// storeError maps repository failures onto typed errors.
func storeError(err error, message string) error {
	var typed *appErrors.Error
	switch {
	case errors.As(err, &typed):
		return typed
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.WrapAs(appErrors.ErrCourseNotFound, err, "")
	case errors.Is(err, repository.ErrDuplicateCourse):
		return appErrors.WrapAs(appErrors.ErrConflict, err, "course already exists")
	case errors.Is(err, repository.ErrDuplicateAssignment):
		return appErrors.WrapAs(appErrors.ErrConflict, err, "assignment already exists")
	default:
		return appErrors.WrapAs(appErrors.ErrPersistence, err, message)
	}
}
