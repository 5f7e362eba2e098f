package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-scheduler/internal/dto"
	"github.com/noah-isme/course-scheduler/internal/models"
	"github.com/noah-isme/course-scheduler/internal/service"
	"github.com/noah-isme/course-scheduler/pkg/export"
	"github.com/noah-isme/course-scheduler/pkg/response"
)

const defaultUpcomingDays = 7

type assignmentQueryService interface {
	FilterAssignments(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
	GetUpcomingAssignments(ctx context.Context, daysAhead int) ([]models.Assignment, error)
	GetOverdueAssignments(ctx context.Context) ([]models.Assignment, error)
	Now() time.Time
}

type courseNameService interface {
	GetAllCourses(ctx context.Context) ([]models.Course, error)
}

type agendaExporter interface {
	ExportAssignments(ctx context.Context, filter models.AssignmentFilter, format export.Format) (*service.ExportResult, error)
}

// AssignmentHandler exposes cross-course assignment queries and agenda export.
type AssignmentHandler struct {
	assignments assignmentQueryService
	courses     courseNameService
	exporter    agendaExporter
}

// NewAssignmentHandler builds a new handler.
func NewAssignmentHandler(assignments assignmentQueryService, courses courseNameService, exporter agendaExporter) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, courses: courses, exporter: exporter}
}

// List filters assignments by course, status, due date range and overdue flag.
func (h *AssignmentHandler) List(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	assignments, err := h.assignments.FilterAssignments(c.Request.Context(), filter)
	h.respond(c, assignments, err)
}

// Upcoming lists unsubmitted assignments due within ?days= (default 7).
func (h *AssignmentHandler) Upcoming(c *gin.Context) {
	days := defaultUpcomingDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.Error(c, invalid(err, "days must be a non-negative integer"))
			return
		}
		days = parsed
	}
	assignments, err := h.assignments.GetUpcomingAssignments(c.Request.Context(), days)
	h.respond(c, assignments, err)
}

// Overdue lists assignments past due and not submitted.
func (h *AssignmentHandler) Overdue(c *gin.Context) {
	assignments, err := h.assignments.GetOverdueAssignments(c.Request.Context())
	h.respond(c, assignments, err)
}

// Export renders the filtered agenda as CSV or PDF.
func (h *AssignmentHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, invalid(err, "unsupported export format"))
		return
	}
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	result, err := h.exporter.ExportAssignments(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Data)
}

func (h *AssignmentHandler) respond(c *gin.Context, assignments []models.Assignment, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	courses, err := h.courses.GetAllCourses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	names := make(map[string]string, len(courses))
	for _, course := range courses {
		names[course.ID] = course.DisplayName()
	}
	now := h.assignments.Now()
	views := make([]dto.AssignmentView, len(assignments))
	for i, a := range assignments {
		views[i] = dto.NewAssignmentView(a, names[a.CourseID], now)
	}
	response.JSON(c, http.StatusOK, views, map[string]interface{}{"total": len(views)})
}

func bindFilter(c *gin.Context) (models.AssignmentFilter, bool) {
	var query dto.AssignmentFilterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, invalid(err, "invalid filter"))
		return models.AssignmentFilter{}, false
	}
	filter, err := query.ToFilter()
	if err != nil {
		response.Error(c, invalid(err, "invalid filter"))
		return models.AssignmentFilter{}, false
	}
	return filter, true
}
