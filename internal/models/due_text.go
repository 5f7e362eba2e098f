package models

import (
	"fmt"
	"time"
)

const (
	DateLayout     = "Jan 02, 2006"
	DateTimeLayout = "Jan 02, 2006 15:04"
)

// WholeHoursBetween truncates toward zero, so 23h59m counts as 23 hours.
func WholeHoursBetween(from, to time.Time) int {
	return int(to.Sub(from) / time.Hour)
}

// WholeDaysBetween truncates toward zero, so 47h counts as 1 day.
func WholeDaysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

// RelativeDueText renders a due date relative to now, e.g. "In 5 hour(s)",
// "Tomorrow", "2 day(s) ago". Dates more than a week out fall back to DateLayout.
func RelativeDueText(due, now time.Time) string {
	if due.IsZero() {
		return ""
	}
	days := WholeDaysBetween(now, due)
	hours := WholeHoursBetween(now, due)

	switch {
	case days < 0:
		return fmt.Sprintf("%d day(s) ago", -days)
	case days == 0 && hours < 0:
		return fmt.Sprintf("%d hour(s) ago", -hours)
	case days == 0 && hours == 0:
		return "Due now"
	case days == 0:
		return fmt.Sprintf("In %d hour(s)", hours)
	case days == 1:
		return "Tomorrow"
	case days <= 7:
		return fmt.Sprintf("In %d days", days)
	default:
		return due.Format(DateLayout)
	}
}
