package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AssignmentStatus tracks the progress of an assignment.
type AssignmentStatus string

const (
	StatusNotStarted AssignmentStatus = "NOT_STARTED"
	StatusInProgress AssignmentStatus = "IN_PROGRESS"
	StatusSubmitted  AssignmentStatus = "SUBMITTED"
	StatusLate       AssignmentStatus = "LATE"
)

var statusDisplayNames = map[AssignmentStatus]string{
	StatusNotStarted: "Not Started",
	StatusInProgress: "In Progress",
	StatusSubmitted:  "Submitted",
	StatusLate:       "Late",
}

// DisplayName returns the human readable status.
func (s AssignmentStatus) DisplayName() string {
	if name, ok := statusDisplayNames[s]; ok {
		return name
	}
	return string(s)
}

// Valid reports whether s is a known status.
func (s AssignmentStatus) Valid() bool {
	_, ok := statusDisplayNames[s]
	return ok
}

// ParseAssignmentStatus accepts "IN_PROGRESS", "in_progress" or "In Progress".
func ParseAssignmentStatus(raw string) (AssignmentStatus, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", "_"))
	s := AssignmentStatus(normalized)
	if !s.Valid() {
		return "", fmt.Errorf("unknown assignment status %q", raw)
	}
	return s, nil
}

// Assignment is owned by exactly one Course. CourseID is a lookup back-reference only.
type Assignment struct {
	ID                 string           `json:"id"`
	CourseID           string           `json:"courseId"`
	Title              string           `json:"title"`
	Description        string           `json:"description,omitempty"`
	DueDate            time.Time        `json:"dueDate"`
	SubmissionDeadline *time.Time       `json:"submissionDeadline,omitempty"`
	Status             AssignmentStatus `json:"status"`
	Notes              string           `json:"notes,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

// NewAssignment builds an assignment with a fresh id, NOT_STARTED status and a
// submission deadline equal to the due date.
func NewAssignment(title string, dueDate time.Time, now time.Time) Assignment {
	deadline := dueDate
	return Assignment{
		ID:                 uuid.NewString(),
		Title:              title,
		DueDate:            dueDate,
		SubmissionDeadline: &deadline,
		Status:             StatusNotStarted,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// IsOverdue holds iff the due date is before now and the assignment was not submitted.
func (a Assignment) IsOverdue(now time.Time) bool {
	return !a.DueDate.IsZero() && a.DueDate.Before(now) && a.Status != StatusSubmitted
}

// Touch refreshes UpdatedAt after a field mutation.
func (a *Assignment) Touch(now time.Time) {
	a.UpdatedAt = now
}

// StorageTime reduces t to what both stores round-trip unchanged: UTC,
// microsecond precision and no monotonic reading. The zero time stays zero.
func StorageTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC().Truncate(time.Microsecond)
}

// Normalized returns a copy with every timestamp passed through StorageTime.
func (a Assignment) Normalized() Assignment {
	a = a.Clone()
	a.DueDate = StorageTime(a.DueDate)
	if a.SubmissionDeadline != nil {
		*a.SubmissionDeadline = StorageTime(*a.SubmissionDeadline)
	}
	a.CreatedAt = StorageTime(a.CreatedAt)
	a.UpdatedAt = StorageTime(a.UpdatedAt)
	return a
}

// Equal compares identity only.
func (a Assignment) Equal(other Assignment) bool {
	return a.ID == other.ID
}

// Clone returns a copy that shares no pointers with a.
func (a Assignment) Clone() Assignment {
	if a.SubmissionDeadline != nil {
		deadline := *a.SubmissionDeadline
		a.SubmissionDeadline = &deadline
	}
	return a
}

func (a Assignment) String() string {
	return a.Title
}
