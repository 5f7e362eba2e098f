package dto

// MigrationFailure records one course that could not be copied.
type MigrationFailure struct {
	CourseID string `json:"courseId"`
	Code     string `json:"code,omitempty"`
	Error    string `json:"error"`
}

// MigrationReport summarises a file-to-relational migration run.
type MigrationReport struct {
	SourceCourses       int                `json:"sourceCourses"`
	SourceAssignments   int                `json:"sourceAssignments"`
	TargetExisting      int                `json:"targetExisting"`
	Overwritten         bool               `json:"overwritten"`
	MigratedCourses     int                `json:"migratedCourses"`
	MigratedAssignments int                `json:"migratedAssignments"`
	FailedCourses       int                `json:"failedCourses"`
	Failures            []MigrationFailure `json:"failures,omitempty"`
}
