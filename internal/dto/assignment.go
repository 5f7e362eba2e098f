package dto

import (
	"fmt"
	"time"

	"github.com/noah-isme/course-scheduler/internal/models"
)

// AssignmentRequest is the payload for creating or updating an assignment.
type AssignmentRequest struct {
	Title              string     `json:"title" validate:"required,max=255"`
	Description        string     `json:"description"`
	DueDate            *time.Time `json:"dueDate" validate:"required"`
	SubmissionDeadline *time.Time `json:"submissionDeadline"`
	Status             string     `json:"status"`
	Notes              string     `json:"notes"`
}

// ToModel converts the payload. An empty status is left for the service to default.
func (r AssignmentRequest) ToModel() (models.Assignment, error) {
	a := models.Assignment{
		Title:       r.Title,
		Description: r.Description,
		Notes:       r.Notes,
	}
	if r.DueDate != nil {
		a.DueDate = *r.DueDate
	}
	if r.SubmissionDeadline != nil {
		deadline := *r.SubmissionDeadline
		a.SubmissionDeadline = &deadline
	}
	if r.Status != "" {
		status, err := models.ParseAssignmentStatus(r.Status)
		if err != nil {
			return models.Assignment{}, err
		}
		a.Status = status
	}
	return a, nil
}

// AssignmentFilterQuery binds the query string of the assignment listing.
type AssignmentFilterQuery struct {
	CourseID    string `form:"courseId"`
	Status      string `form:"status"`
	Start       string `form:"start"`
	End         string `form:"end"`
	OverdueOnly bool   `form:"overdue"`
}

// ToFilter parses dates as RFC3339 or YYYY-MM-DD. A bare end date covers that whole day.
func (q AssignmentFilterQuery) ToFilter() (models.AssignmentFilter, error) {
	filter := models.AssignmentFilter{CourseID: q.CourseID, OverdueOnly: q.OverdueOnly}
	if q.Status != "" {
		status, err := models.ParseAssignmentStatus(q.Status)
		if err != nil {
			return models.AssignmentFilter{}, err
		}
		filter.Status = status
	}
	if q.Start != "" {
		start, _, err := parseQueryTime(q.Start)
		if err != nil {
			return models.AssignmentFilter{}, fmt.Errorf("invalid start: %w", err)
		}
		filter.StartDate = &start
	}
	if q.End != "" {
		end, dateOnly, err := parseQueryTime(q.End)
		if err != nil {
			return models.AssignmentFilter{}, fmt.Errorf("invalid end: %w", err)
		}
		if dateOnly {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		filter.EndDate = &end
	}
	return filter, nil
}

func parseQueryTime(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// AssignmentView decorates an assignment with derived fields for display.
type AssignmentView struct {
	models.Assignment
	Overdue       bool   `json:"overdue"`
	StatusLabel   string `json:"statusLabel"`
	RelativeDue   string `json:"relativeDue,omitempty"`
	CourseDisplay string `json:"courseDisplay,omitempty"`
}

// NewAssignmentView derives display fields at the given instant.
func NewAssignmentView(a models.Assignment, courseDisplay string, now time.Time) AssignmentView {
	return AssignmentView{
		Assignment:    a,
		Overdue:       a.IsOverdue(now),
		StatusLabel:   a.Status.DisplayName(),
		RelativeDue:   models.RelativeDueText(a.DueDate, now),
		CourseDisplay: courseDisplay,
	}
}
