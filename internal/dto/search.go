package dto

// SearchResultKind tags a search hit so consumers know which store resolves its id.
type SearchResultKind string

const (
	SearchKindCourse     SearchResultKind = "course"
	SearchKindAssignment SearchResultKind = "assignment"
)

// SearchResult is one hit of the combined search. Course hits come first.
type SearchResult struct {
	Kind       SearchResultKind `json:"kind"`
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Subtitle   string           `json:"subtitle"`
	CourseID   string           `json:"courseId,omitempty"`
	CourseName string           `json:"courseName,omitempty"`
}
