package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler/internal/models"
	appErrors "github.com/noah-isme/course-scheduler/pkg/errors"
	"github.com/noah-isme/course-scheduler/pkg/logger"
)

// maxDaysAhead keeps the upcoming window inside time.Duration's range.
const maxDaysAhead = 36500

// AssignmentService derives assignment views from course aggregates and routes
// every assignment mutation through the owning course.
type AssignmentService struct {
	repo   courseRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(repo courseRepository, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the time source used for derived predicates.
func (s *AssignmentService) WithClock(now func() time.Time) *AssignmentService {
	if now != nil {
		s.now = now
	}
	return s
}

// Now returns the service's notion of the current instant.
func (s *AssignmentService) Now() time.Time {
	return s.now()
}

// GetAllAssignments flattens the assignments of every course.
func (s *AssignmentService) GetAllAssignments(ctx context.Context) ([]models.Assignment, error) {
	courses, err := s.repo.GetAllCourses(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list assignments")
	}
	result := make([]models.Assignment, 0)
	for _, course := range courses {
		result = append(result, course.Assignments...)
	}
	return result, nil
}

// GetAssignmentsByCourse returns an empty list for an unknown course.
func (s *AssignmentService) GetAssignmentsByCourse(ctx context.Context, courseID string) ([]models.Assignment, error) {
	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, storeError(err, "failed to load course")
	}
	if course == nil {
		return []models.Assignment{}, nil
	}
	return course.Assignments, nil
}

// GetAssignmentByID returns nil when no assignment has the id.
func (s *AssignmentService) GetAssignmentByID(ctx context.Context, id string) (*models.Assignment, error) {
	assignments, err := s.GetAllAssignments(ctx)
	if err != nil {
		return nil, err
	}
	for i := range assignments {
		if assignments[i].ID == id {
			return &assignments[i], nil
		}
	}
	return nil, nil
}

// CreateAssignment attaches assignment to the course and persists the course.
// Missing id, status, deadline and timestamps are filled in.
func (s *AssignmentService) CreateAssignment(ctx context.Context, courseID string, assignment models.Assignment) (*models.Assignment, error) {
	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, storeError(err, "failed to load course")
	}
	if course == nil {
		return nil, appErrors.Clone(appErrors.ErrCourseNotFound, "course not found: "+courseID)
	}

	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	} else if err := s.ensureUnusedID(ctx, assignment.ID); err != nil {
		return nil, err
	}

	now := s.now()
	if assignment.Status == "" {
		assignment.Status = models.StatusNotStarted
	}
	if assignment.SubmissionDeadline == nil && !assignment.DueDate.IsZero() {
		deadline := assignment.DueDate
		assignment.SubmissionDeadline = &deadline
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now

	course.AddAssignment(assignment.Normalized())
	if err := s.repo.UpdateCourse(ctx, *course); err != nil {
		return nil, storeError(err, "failed to create assignment")
	}
	created := course.Assignments[len(course.Assignments)-1]
	logger.WithContext(ctx, s.logger).Debug("assignment created", zap.String("assignment_id", created.ID), zap.String("course_id", course.ID))
	return &created, nil
}

// UpdateAssignment replaces the stored assignment with the same id inside its
// owning course. CreatedAt, and the status when left empty, are kept from the
// stored copy and UpdatedAt refreshed.
func (s *AssignmentService) UpdateAssignment(ctx context.Context, assignment models.Assignment) (*models.Assignment, error) {
	course, err := s.owningCourse(ctx, assignment)
	if err != nil {
		return nil, err
	}
	existing, ok := course.FindAssignment(assignment.ID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrAssignmentNotFound, "assignment not found: "+assignment.ID)
	}

	if assignment.Status == "" {
		assignment.Status = existing.Status
	}
	assignment.CreatedAt = existing.CreatedAt
	assignment.Touch(s.now())
	course.ReplaceAssignment(assignment.Normalized())
	if err := s.repo.UpdateCourse(ctx, *course); err != nil {
		return nil, storeError(err, "failed to update assignment")
	}
	updated, _ := course.FindAssignment(assignment.ID)
	return &updated, nil
}

// DeleteAssignment removes the assignment from its course. Unknown course or
// assignment ids are ignored.
func (s *AssignmentService) DeleteAssignment(ctx context.Context, courseID, assignmentID string) error {
	course, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return storeError(err, "failed to load course")
	}
	if course == nil || !course.RemoveAssignment(assignmentID) {
		return nil
	}
	if err := s.repo.UpdateCourse(ctx, *course); err != nil {
		return storeError(err, "failed to delete assignment")
	}
	return nil
}

// GetAssignmentsByStatus returns assignments with exactly the given status.
func (s *AssignmentService) GetAssignmentsByStatus(ctx context.Context, status models.AssignmentStatus) ([]models.Assignment, error) {
	return s.FilterAssignments(ctx, models.AssignmentFilter{Status: status})
}

// GetUpcomingAssignments returns unsubmitted assignments due strictly after now
// and strictly before now plus daysAhead whole 24-hour days, soonest first.
func (s *AssignmentService) GetUpcomingAssignments(ctx context.Context, daysAhead int) ([]models.Assignment, error) {
	all, err := s.GetAllAssignments(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if daysAhead > maxDaysAhead {
		daysAhead = maxDaysAhead
	}
	limit := now.Add(time.Duration(daysAhead) * 24 * time.Hour)
	result := make([]models.Assignment, 0)
	for _, a := range all {
		if a.DueDate.IsZero() || a.Status == models.StatusSubmitted {
			continue
		}
		if a.DueDate.After(now) && a.DueDate.Before(limit) {
			result = append(result, a)
		}
	}
	sortByDueDate(result)
	return result, nil
}

// GetOverdueAssignments returns overdue assignments, oldest due date first.
func (s *AssignmentService) GetOverdueAssignments(ctx context.Context) ([]models.Assignment, error) {
	return s.FilterAssignments(ctx, models.AssignmentFilter{OverdueOnly: true})
}

// GetAssignmentsBetweenDates returns assignments due within [start, end].
func (s *AssignmentService) GetAssignmentsBetweenDates(ctx context.Context, start, end time.Time) ([]models.Assignment, error) {
	return s.FilterAssignments(ctx, models.AssignmentFilter{StartDate: &start, EndDate: &end})
}

// SearchAssignments matches title, description or notes case-insensitively. A
// blank query matches nothing.
func (s *AssignmentService) SearchAssignments(ctx context.Context, query string) ([]models.Assignment, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []models.Assignment{}, nil
	}
	all, err := s.GetAllAssignments(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]models.Assignment, 0)
	for _, a := range all {
		if containsFold(needle, a.Title, a.Description, a.Notes) {
			result = append(result, a)
		}
	}
	return result, nil
}

// FilterAssignments applies every set criterion and sorts by due date, with
// undated assignments last.
func (s *AssignmentService) FilterAssignments(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	all, err := s.GetAllAssignments(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	result := make([]models.Assignment, 0)
	for _, a := range all {
		if filter.Matches(a, now) {
			result = append(result, a)
		}
	}
	sortByDueDate(result)
	return result, nil
}

func (s *AssignmentService) ensureUnusedID(ctx context.Context, id string) error {
	existing, err := s.GetAssignmentByID(ctx, id)
	if err != nil {
		return err
	}
	if existing != nil {
		return appErrors.Clone(appErrors.ErrConflict, "assignment already exists: "+id)
	}
	return nil
}

func (s *AssignmentService) owningCourse(ctx context.Context, assignment models.Assignment) (*models.Course, error) {
	if assignment.CourseID != "" {
		course, err := s.repo.GetCourseByID(ctx, assignment.CourseID)
		if err != nil {
			return nil, storeError(err, "failed to load course")
		}
		if course == nil {
			return nil, appErrors.Clone(appErrors.ErrCourseNotFound, "course not found: "+assignment.CourseID)
		}
		return course, nil
	}

	courses, err := s.repo.GetAllCourses(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list courses")
	}
	for i := range courses {
		if _, ok := courses[i].FindAssignment(assignment.ID); ok {
			return &courses[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrAssignmentNotFound, "assignment not found: "+assignment.ID)
}

func sortByDueDate(assignments []models.Assignment) {
	sort.SliceStable(assignments, func(i, j int) bool {
		a, b := assignments[i].DueDate, assignments[j].DueDate
		if a.IsZero() != b.IsZero() {
			return !a.IsZero()
		}
		return a.Before(b)
	})
}
