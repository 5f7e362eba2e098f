package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler/internal/dto"
	"github.com/noah-isme/course-scheduler/internal/models"
	appErrors "github.com/noah-isme/course-scheduler/pkg/errors"
)

// MigrationService copies every course from one repository into another,
// typically from the file store into the relational store.
type MigrationService struct {
	source courseRepository
	target courseRepository
	logger *zap.Logger
}

// NewMigrationService constructs a MigrationService.
func NewMigrationService(source, target courseRepository, logger *zap.Logger) *MigrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MigrationService{source: source, target: target, logger: logger}
}

// Plan counts what a migration would copy and what the target already holds.
func (s *MigrationService) Plan(ctx context.Context) (*dto.MigrationReport, error) {
	report, _, _, err := s.inspect(ctx)
	return report, err
}

// Migrate copies every source course with its assignments. A non-empty target
// is refused unless overwrite is set, in which case its courses are deleted
// first. Each course is added on its own; a failure is counted and the run
// continues.
func (s *MigrationService) Migrate(ctx context.Context, overwrite bool) (*dto.MigrationReport, error) {
	report, courses, existing, err := s.inspect(ctx)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		s.logger.Info("nothing to migrate")
		return report, nil
	}

	if len(existing) > 0 {
		if !overwrite {
			return report, appErrors.Clone(appErrors.ErrConflict, "target already contains courses")
		}
		for _, course := range existing {
			if err := s.target.DeleteCourse(ctx, course.ID); err != nil {
				return report, storeError(err, "failed to clear target")
			}
		}
		report.Overwritten = true
		s.logger.Info("existing target data deleted", zap.Int("courses", len(existing)))
	}

	for _, course := range courses {
		if err := s.target.AddCourse(ctx, course); err != nil {
			report.FailedCourses++
			report.Failures = append(report.Failures, dto.MigrationFailure{CourseID: course.ID, Code: course.Code, Error: err.Error()})
			s.logger.Warn("course migration failed", zap.String("course_id", course.ID), zap.String("code", course.Code), zap.Error(err))
			continue
		}
		report.MigratedCourses++
		report.MigratedAssignments += len(course.Assignments)
		s.logger.Info("course migrated", zap.String("code", course.Code), zap.Int("assignments", len(course.Assignments)))
	}
	return report, nil
}

func (s *MigrationService) inspect(ctx context.Context) (*dto.MigrationReport, []models.Course, []models.Course, error) {
	courses, err := s.source.GetAllCourses(ctx)
	if err != nil {
		return nil, nil, nil, storeError(err, "failed to read source")
	}
	existing, err := s.target.GetAllCourses(ctx)
	if err != nil {
		return nil, nil, nil, storeError(err, "failed to read target")
	}
	report := &dto.MigrationReport{SourceCourses: len(courses), TargetExisting: len(existing)}
	for _, course := range courses {
		report.SourceAssignments += len(course.Assignments)
	}
	return report, courses, existing, nil
}
