package service

import (
	"context"
	"strings"

	"github.com/noah-isme/course-scheduler/internal/dto"
	"github.com/noah-isme/course-scheduler/internal/models"
)

type courseSearcher interface {
	GetAllCourses(ctx context.Context) ([]models.Course, error)
	SearchCourses(ctx context.Context, query string) ([]models.Course, error)
}

type assignmentSearcher interface {
	SearchAssignments(ctx context.Context, query string) ([]models.Assignment, error)
}

// SearchService merges course and assignment hits into one list.
type SearchService struct {
	courses     courseSearcher
	assignments assignmentSearcher
}

// NewSearchService constructs a SearchService.
func NewSearchService(courses courseSearcher, assignments assignmentSearcher) *SearchService {
	return &SearchService{courses: courses, assignments: assignments}
}

// Search lists matching courses first, then matching assignments, each in the
// order the underlying service returned them.
func (s *SearchService) Search(ctx context.Context, query string) ([]dto.SearchResult, error) {
	results := make([]dto.SearchResult, 0)
	if strings.TrimSpace(query) == "" {
		return results, nil
	}

	courses, err := s.courses.SearchCourses(ctx, query)
	if err != nil {
		return nil, err
	}
	for _, course := range courses {
		results = append(results, dto.SearchResult{
			Kind:       dto.SearchKindCourse,
			ID:         course.ID,
			Title:      course.DisplayName(),
			Subtitle:   "Professor: " + course.Professor,
			CourseID:   course.ID,
			CourseName: course.DisplayName(),
		})
	}

	assignments, err := s.assignments.SearchAssignments(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return results, nil
	}

	all, err := s.courses.GetAllCourses(ctx)
	if err != nil {
		return nil, err
	}
	owners := make(map[string]models.Course, len(all))
	for _, course := range all {
		owners[course.ID] = course
	}

	for _, a := range assignments {
		courseName := "Unknown Course"
		result := dto.SearchResult{Kind: dto.SearchKindAssignment, ID: a.ID, Title: a.Title}
		if owner, ok := owners[a.CourseID]; ok {
			courseName = owner.DisplayName()
			result.CourseID = owner.ID
			result.CourseName = courseName
		}
		due := "No date"
		if !a.DueDate.IsZero() {
			due = a.DueDate.Format("2006-01-02")
		}
		result.Subtitle = courseName + " | Due: " + due
		results = append(results, result)
	}
	return results, nil
}
