package models

import "time"

// AssignmentFilter combines the fixed set of criteria supported by the query layer.
// Zero-valued fields do not constrain the result.
type AssignmentFilter struct {
	CourseID    string
	Status      AssignmentStatus
	StartDate   *time.Time
	EndDate     *time.Time
	OverdueOnly bool
}

// Matches evaluates the filter against a at the given instant.
func (f AssignmentFilter) Matches(a Assignment, now time.Time) bool {
	if f.CourseID != "" && a.CourseID != f.CourseID {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.StartDate != nil && (a.DueDate.IsZero() || a.DueDate.Before(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && (a.DueDate.IsZero() || a.DueDate.After(*f.EndDate)) {
		return false
	}
	if f.OverdueOnly && !a.IsOverdue(now) {
		return false
	}
	return true
}
