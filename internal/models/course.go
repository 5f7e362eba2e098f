package models

import "github.com/google/uuid"

// Course is the aggregate root: it exclusively owns its assignments.
type Course struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Code        string       `json:"code"`
	Description string       `json:"description,omitempty"`
	Professor   string       `json:"professor,omitempty"`
	Semester    Semester     `json:"semester"`
	Assignments []Assignment `json:"assignments"`
}

// NewCourse builds a course with a freshly generated id and no assignments.
func NewCourse(name, code, professor string, semester Semester) Course {
	return Course{
		ID:          uuid.NewString(),
		Name:        name,
		Code:        code,
		Professor:   professor,
		Semester:    semester,
		Assignments: []Assignment{},
	}
}

// Equal compares identity only; two courses with the same id are the same course.
func (c Course) Equal(other Course) bool {
	return c.ID == other.ID
}

// DisplayName renders "CODE - Name", or just the name when no code is set.
func (c Course) DisplayName() string {
	if c.Code == "" {
		return c.Name
	}
	return c.Code + " - " + c.Name
}

// Clone deep-copies the course including its assignment list.
func (c Course) Clone() Course {
	assignments := make([]Assignment, len(c.Assignments))
	for i, a := range c.Assignments {
		assignments[i] = a.Clone()
	}
	c.Assignments = assignments
	return c
}

// AddAssignment appends a and stamps it with the course id.
func (c *Course) AddAssignment(a Assignment) {
	a.CourseID = c.ID
	c.Assignments = append(c.Assignments, a)
}

// ReplaceAssignment swaps the assignment with the same id in place. It reports
// false when no such assignment exists.
func (c *Course) ReplaceAssignment(a Assignment) bool {
	for i := range c.Assignments {
		if c.Assignments[i].ID == a.ID {
			a.CourseID = c.ID
			c.Assignments[i] = a
			return true
		}
	}
	return false
}

// RemoveAssignment drops the assignment with the given id, preserving order.
func (c *Course) RemoveAssignment(id string) bool {
	for i := range c.Assignments {
		if c.Assignments[i].ID == id {
			c.Assignments = append(c.Assignments[:i], c.Assignments[i+1:]...)
			return true
		}
	}
	return false
}

// FindAssignment returns a copy of the assignment with the given id.
func (c Course) FindAssignment(id string) (Assignment, bool) {
	for _, a := range c.Assignments {
		if a.ID == id {
			return a.Clone(), true
		}
	}
	return Assignment{}, false
}
