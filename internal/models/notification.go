package models

import "time"

// DeadlineBand classifies how close an assignment is to its due date.
type DeadlineBand string

const (
	BandUrgent  DeadlineBand = "URGENT"
	BandHeadsUp DeadlineBand = "HEADS_UP"
	BandOverdue DeadlineBand = "OVERDUE"
	BandManual  DeadlineBand = "MANUAL"
)

// DeadlineNotification is emitted by the deadline scanner. Overdue notifications
// aggregate every overdue assignment and carry no assignment id.
type DeadlineNotification struct {
	ID            string       `json:"id"`
	Band          DeadlineBand `json:"band"`
	Title         string       `json:"title"`
	Message       string       `json:"message"`
	AssignmentID  string       `json:"assignmentId,omitempty"`
	CourseID      string       `json:"courseId,omitempty"`
	DueDate       *time.Time   `json:"dueDate,omitempty"`
	HoursUntilDue int          `json:"hoursUntilDue,omitempty"`
	DaysUntilDue  int          `json:"daysUntilDue,omitempty"`
	OverdueCount  int          `json:"overdueCount,omitempty"`
	GeneratedAt   time.Time    `json:"generatedAt"`
}

// Key groups notifications about the same subject, e.g. for partitioning.
func (n DeadlineNotification) Key() string {
	if n.AssignmentID != "" {
		return n.AssignmentID
	}
	return string(n.Band)
}
