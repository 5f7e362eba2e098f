package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2025, time.October, 10, 12, 0, 0, 0, time.UTC)

func TestAssignmentIsOverdue(t *testing.T) {
	past := NewAssignment("HW1", refNow.Add(-time.Hour), refNow)
	assert.True(t, past.IsOverdue(refNow))

	past.Status = StatusSubmitted
	assert.False(t, past.IsOverdue(refNow), "submitted assignments are never overdue")

	past.Status = StatusLate
	assert.True(t, past.IsOverdue(refNow))

	future := NewAssignment("HW2", refNow.Add(time.Hour), refNow)
	assert.False(t, future.IsOverdue(refNow))

	var undated Assignment
	assert.False(t, undated.IsOverdue(refNow))
}

func TestNewAssignmentDefaults(t *testing.T) {
	due := refNow.Add(48 * time.Hour)
	a := NewAssignment("Essay", due, refNow)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, StatusNotStarted, a.Status)
	require.NotNil(t, a.SubmissionDeadline)
	assert.Equal(t, due, *a.SubmissionDeadline)
	assert.Equal(t, refNow, a.CreatedAt)
	assert.Equal(t, refNow, a.UpdatedAt)

	b := NewAssignment("Essay", due, refNow)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCourseEqualityIsByID(t *testing.T) {
	a := NewCourse("Algorithms", "CS201", "Knuth", Semester{Season: SeasonFall, Year: 2025})
	b := a
	b.Name = "Renamed"
	assert.True(t, a.Equal(b))

	c := NewCourse("Algorithms", "CS201", "Knuth", Semester{Season: SeasonFall, Year: 2025})
	assert.False(t, a.Equal(c))
}

func TestSemesterValueEquality(t *testing.T) {
	assert.Equal(t, Semester{Season: SeasonSpring, Year: 2024}, Semester{Season: SeasonSpring, Year: 2024})
	assert.NotEqual(t, Semester{Season: SeasonSpring, Year: 2024}, Semester{Season: SeasonFall, Year: 2024})
	assert.Equal(t, "Spring 2024", Semester{Season: SeasonSpring, Year: 2024}.String())
	assert.True(t, Semester{}.IsZero())
}

func TestCourseAssignmentMutation(t *testing.T) {
	course := NewCourse("Databases", "CS340", "Codd", Semester{Season: SeasonWinter, Year: 2026})
	hw1 := NewAssignment("HW1", refNow, refNow)
	hw2 := NewAssignment("HW2", refNow, refNow)
	course.AddAssignment(hw1)
	course.AddAssignment(hw2)
	assert.Equal(t, course.ID, course.Assignments[0].CourseID)

	edited := hw1
	edited.Title = "HW1 (revised)"
	assert.True(t, course.ReplaceAssignment(edited))
	assert.Equal(t, "HW1 (revised)", course.Assignments[0].Title)
	assert.Equal(t, course.ID, course.Assignments[0].CourseID)

	assert.True(t, course.RemoveAssignment(hw1.ID))
	assert.False(t, course.RemoveAssignment(hw1.ID))
	require.Len(t, course.Assignments, 1)
	assert.Equal(t, hw2.ID, course.Assignments[0].ID)

	_, ok := course.FindAssignment("missing")
	assert.False(t, ok)
}

func TestCourseCloneIsDeep(t *testing.T) {
	course := NewCourse("Compilers", "CS450", "Aho", Semester{Season: SeasonSpring, Year: 2025})
	course.AddAssignment(NewAssignment("Lexer", refNow, refNow))

	clone := course.Clone()
	clone.Assignments[0].Title = "Parser"
	*clone.Assignments[0].SubmissionDeadline = refNow.Add(time.Hour)

	assert.Equal(t, "Lexer", course.Assignments[0].Title)
	assert.Equal(t, refNow, *course.Assignments[0].SubmissionDeadline)
}

func TestAssignmentNormalizedMatchesStoragePrecision(t *testing.T) {
	zone := time.FixedZone("CEST", 2*60*60)
	local := time.Date(2025, time.October, 10, 14, 0, 5, 123456789, zone)
	a := NewAssignment("Lab", local, time.Now())
	a.CreatedAt = local
	a.UpdatedAt = local

	normalized := a.Normalized()
	want := time.Date(2025, time.October, 10, 12, 0, 5, 123456000, time.UTC)
	assert.Equal(t, want, normalized.DueDate)
	assert.Equal(t, want, *normalized.SubmissionDeadline)
	assert.Equal(t, want, normalized.CreatedAt)
	assert.Equal(t, want, normalized.UpdatedAt)
	assert.Equal(t, local, *a.SubmissionDeadline, "original left untouched")
	assert.Equal(t, normalized, normalized.Normalized())

	assert.True(t, StorageTime(time.Time{}).IsZero())
	stamped := StorageTime(time.Now())
	assert.Equal(t, stamped, stamped.Round(0), "monotonic reading stripped")
}

func TestCourseDisplayName(t *testing.T) {
	assert.Equal(t, "CS101 - Intro", Course{Name: "Intro", Code: "CS101"}.DisplayName())
	assert.Equal(t, "Intro", Course{Name: "Intro"}.DisplayName())
}

func TestParseEnums(t *testing.T) {
	season, err := ParseSeason("fall")
	require.NoError(t, err)
	assert.Equal(t, SeasonFall, season)
	_, err = ParseSeason("monsoon")
	assert.Error(t, err)

	status, err := ParseAssignmentStatus("In Progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, status)
	_, err = ParseAssignmentStatus("done")
	assert.Error(t, err)
	assert.Equal(t, "Not Started", StatusNotStarted.DisplayName())
}

func TestAssignmentFilterMatches(t *testing.T) {
	a := NewAssignment("HW", refNow.Add(-2*time.Hour), refNow)
	a.CourseID = "course-1"

	start := refNow.Add(-3 * time.Hour)
	end := refNow
	assert.True(t, AssignmentFilter{}.Matches(a, refNow))
	assert.True(t, AssignmentFilter{CourseID: "course-1", StartDate: &start, EndDate: &end, OverdueOnly: true}.Matches(a, refNow))
	assert.False(t, AssignmentFilter{CourseID: "course-2"}.Matches(a, refNow))
	assert.False(t, AssignmentFilter{Status: StatusSubmitted}.Matches(a, refNow))

	exactStart := a.DueDate
	assert.True(t, AssignmentFilter{StartDate: &exactStart, EndDate: &exactStart}.Matches(a, refNow), "range is inclusive")
}

func TestRelativeDueText(t *testing.T) {
	cases := map[string]time.Time{
		"2 day(s) ago":  refNow.Add(-50 * time.Hour),
		"3 hour(s) ago": refNow.Add(-3 * time.Hour),
		"Due now":       refNow.Add(10 * time.Minute),
		"In 5 hour(s)":  refNow.Add(5 * time.Hour),
		"Tomorrow":      refNow.Add(30 * time.Hour),
		"In 4 days":     refNow.Add(4*24*time.Hour + time.Hour),
		"Oct 30, 2025":  refNow.Add(20 * 24 * time.Hour),
	}
	for want, due := range cases {
		assert.Equal(t, want, RelativeDueText(due, refNow), want)
	}
	assert.Equal(t, "", RelativeDueText(time.Time{}, refNow))
}

func TestCourseJSONShape(t *testing.T) {
	course := NewCourse("Networks", "CS330", "Cerf", Semester{Season: SeasonFall, Year: 2025})
	course.AddAssignment(NewAssignment("Lab 1", refNow, refNow))

	raw, err := json.Marshal(course)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "CS330", decoded["code"])
	semester := decoded["semester"].(map[string]interface{})
	assert.Equal(t, "FALL", semester["season"])
	assignments := decoded["assignments"].([]interface{})
	first := assignments[0].(map[string]interface{})
	assert.Equal(t, "2025-10-10T12:00:00Z", first["dueDate"])
	assert.Equal(t, "NOT_STARTED", first["status"])
}
