package dto

import (
	"github.com/noah-isme/course-scheduler/internal/models"
)

// SemesterPayload is the wire form of a semester. Season accepts "FALL" or "Fall".
type SemesterPayload struct {
	Season string `json:"season" validate:"required"`
	Year   int    `json:"year" validate:"required,min=1900,max=2200"`
}

// CourseRequest is the payload for creating or updating a course.
type CourseRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Code        string           `json:"code" validate:"omitempty,max=64"`
	Description string           `json:"description"`
	Professor   string           `json:"professor" validate:"omitempty,max=255"`
	Semester    *SemesterPayload `json:"semester"`
}

// ToModel converts the payload into a course without id or assignments.
func (r CourseRequest) ToModel() (models.Course, error) {
	course := models.Course{
		Name:        r.Name,
		Code:        r.Code,
		Description: r.Description,
		Professor:   r.Professor,
		Assignments: []models.Assignment{},
	}
	if r.Semester != nil {
		season, err := models.ParseSeason(r.Semester.Season)
		if err != nil {
			return models.Course{}, err
		}
		course.Semester = models.Semester{Season: season, Year: r.Semester.Year}
	}
	return course, nil
}

// CourseSummary is the list view of a course.
type CourseSummary struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Code            string          `json:"code"`
	DisplayName     string          `json:"displayName"`
	Professor       string          `json:"professor,omitempty"`
	Semester        models.Semester `json:"semester"`
	SemesterLabel   string          `json:"semesterLabel,omitempty"`
	AssignmentCount int             `json:"assignmentCount"`
}

// NewCourseSummary builds the list view of course.
func NewCourseSummary(course models.Course) CourseSummary {
	return CourseSummary{
		ID:              course.ID,
		Name:            course.Name,
		Code:            course.Code,
		DisplayName:     course.DisplayName(),
		Professor:       course.Professor,
		Semester:        course.Semester,
		SemesterLabel:   course.Semester.String(),
		AssignmentCount: len(course.Assignments),
	}
}
