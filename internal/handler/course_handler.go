package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-scheduler/internal/dto"
	"github.com/noah-isme/course-scheduler/internal/models"
	appErrors "github.com/noah-isme/course-scheduler/pkg/errors"
	"github.com/noah-isme/course-scheduler/pkg/response"
)

type courseService interface {
	GetAllCourses(ctx context.Context) ([]models.Course, error)
	GetCourseByID(ctx context.Context, id string) (*models.Course, error)
	GetCoursesBySemester(ctx context.Context, semester models.Semester) ([]models.Course, error)
	CreateCourse(ctx context.Context, course models.Course) (*models.Course, error)
	UpdateCourse(ctx context.Context, course models.Course) error
	DeleteCourse(ctx context.Context, id string) error
}

type courseAssignmentService interface {
	GetAssignmentsByCourse(ctx context.Context, courseID string) ([]models.Assignment, error)
	CreateAssignment(ctx context.Context, courseID string, assignment models.Assignment) (*models.Assignment, error)
	UpdateAssignment(ctx context.Context, assignment models.Assignment) (*models.Assignment, error)
	DeleteAssignment(ctx context.Context, courseID, assignmentID string) error
	Now() time.Time
}

// CourseHandler exposes course endpoints and the assignments nested under them.
type CourseHandler struct {
	courses     courseService
	assignments courseAssignmentService
}

// NewCourseHandler builds a new handler.
func NewCourseHandler(courses courseService, assignments courseAssignmentService) *CourseHandler {
	return &CourseHandler{courses: courses, assignments: assignments}
}

// List returns course summaries, optionally narrowed with ?season=&year=.
func (h *CourseHandler) List(c *gin.Context) {
	var (
		courses []models.Course
		err     error
	)
	season, year := c.Query("season"), c.Query("year")
	if season != "" || year != "" {
		semester, parseErr := parseSemesterQuery(season, year)
		if parseErr != nil {
			response.Error(c, invalid(parseErr, "invalid semester filter"))
			return
		}
		courses, err = h.courses.GetCoursesBySemester(c.Request.Context(), semester)
	} else {
		courses, err = h.courses.GetAllCourses(c.Request.Context())
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	summaries := make([]dto.CourseSummary, len(courses))
	for i, course := range courses {
		summaries[i] = dto.NewCourseSummary(course)
	}
	response.JSON(c, http.StatusOK, summaries, map[string]interface{}{"total": len(summaries)})
}

// Get returns one course with its assignments.
func (h *CourseHandler) Get(c *gin.Context) {
	course, ok := h.loadCourse(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// Create adds a course.
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CourseRequest
	if !bindJSON(c, &req, "invalid course payload") {
		return
	}
	course, err := req.ToModel()
	if err != nil {
		response.Error(c, invalid(err, "invalid course payload"))
		return
	}
	created, err := h.courses.CreateCourse(c.Request.Context(), course)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Update replaces the course fields and keeps its assignments.
func (h *CourseHandler) Update(c *gin.Context) {
	var req dto.CourseRequest
	if !bindJSON(c, &req, "invalid course payload") {
		return
	}
	changes, err := req.ToModel()
	if err != nil {
		response.Error(c, invalid(err, "invalid course payload"))
		return
	}
	course, ok := h.loadCourse(c)
	if !ok {
		return
	}
	course.Name = changes.Name
	course.Code = changes.Code
	course.Description = changes.Description
	course.Professor = changes.Professor
	if req.Semester != nil {
		course.Semester = changes.Semester
	}
	if err := h.courses.UpdateCourse(c.Request.Context(), *course); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// Delete removes a course and its assignments.
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courses.DeleteCourse(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListAssignments returns the course's assignments in stored order.
func (h *CourseHandler) ListAssignments(c *gin.Context) {
	course, ok := h.loadCourse(c)
	if !ok {
		return
	}
	assignments, err := h.assignments.GetAssignmentsByCourse(c.Request.Context(), course.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	now := h.assignments.Now()
	views := make([]dto.AssignmentView, len(assignments))
	for i, a := range assignments {
		views[i] = dto.NewAssignmentView(a, course.DisplayName(), now)
	}
	response.JSON(c, http.StatusOK, views)
}

// CreateAssignment attaches a new assignment to the course.
func (h *CourseHandler) CreateAssignment(c *gin.Context) {
	assignment, ok := bindAssignment(c)
	if !ok {
		return
	}
	created, err := h.assignments.CreateAssignment(c.Request.Context(), c.Param("id"), assignment)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewAssignmentView(*created, "", h.assignments.Now()))
}

// UpdateAssignment replaces an assignment of the course.
func (h *CourseHandler) UpdateAssignment(c *gin.Context) {
	assignment, ok := bindAssignment(c)
	if !ok {
		return
	}
	assignment.ID = c.Param("assignmentId")
	assignment.CourseID = c.Param("id")
	updated, err := h.assignments.UpdateAssignment(c.Request.Context(), assignment)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewAssignmentView(*updated, "", h.assignments.Now()))
}

// DeleteAssignment removes an assignment from the course.
func (h *CourseHandler) DeleteAssignment(c *gin.Context) {
	if err := h.assignments.DeleteAssignment(c.Request.Context(), c.Param("id"), c.Param("assignmentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *CourseHandler) loadCourse(c *gin.Context) (*models.Course, bool) {
	id := c.Param("id")
	course, err := h.courses.GetCourseByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	if course == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrCourseNotFound, "course not found: "+id))
		return nil, false
	}
	return course, true
}

func bindAssignment(c *gin.Context) (models.Assignment, bool) {
	var req dto.AssignmentRequest
	if !bindJSON(c, &req, "invalid assignment payload") {
		return models.Assignment{}, false
	}
	assignment, err := req.ToModel()
	if err != nil {
		response.Error(c, invalid(err, "invalid assignment payload"))
		return models.Assignment{}, false
	}
	return assignment, true
}

func parseSemesterQuery(season, year string) (models.Semester, error) {
	parsed, err := models.ParseSeason(season)
	if err != nil {
		return models.Semester{}, err
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return models.Semester{}, err
	}
	return models.Semester{Season: parsed, Year: y}, nil
}
