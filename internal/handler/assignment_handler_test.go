package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler/internal/models"
	"github.com/noah-isme/course-scheduler/internal/service"
	"github.com/noah-isme/course-scheduler/pkg/export"
)

type assignmentQueryMock struct {
	filter   models.AssignmentFilter
	days     int
	items    []models.Assignment
	queryErr error
}

func (m *assignmentQueryMock) FilterAssignments(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	m.filter = filter
	return m.items, m.queryErr
}

func (m *assignmentQueryMock) GetUpcomingAssignments(ctx context.Context, daysAhead int) ([]models.Assignment, error) {
	m.days = daysAhead
	return m.items, m.queryErr
}

func (m *assignmentQueryMock) GetOverdueAssignments(ctx context.Context) ([]models.Assignment, error) {
	return m.items, m.queryErr
}

func (m *assignmentQueryMock) Now() time.Time { return handlerNow }

type staticCourses []models.Course

func (s staticCourses) GetAllCourses(ctx context.Context) ([]models.Course, error) {
	return s, nil
}

type exporterMock struct {
	filter models.AssignmentFilter
	format export.Format
}

func (m *exporterMock) ExportAssignments(ctx context.Context, filter models.AssignmentFilter, format export.Format) (*service.ExportResult, error) {
	m.filter = filter
	m.format = format
	return &service.ExportResult{Filename: "agenda_20251006_080000.pdf", ContentType: format.ContentType(), Data: []byte("%PDF-1.3")}, nil
}

func newAssignmentHandlerFixture() (*AssignmentHandler, *assignmentQueryMock, *exporterMock) {
	query := &assignmentQueryMock{items: []models.Assignment{
		{ID: "a-1", CourseID: "c-1", Title: "Lab", DueDate: handlerNow.Add(5 * time.Hour), Status: models.StatusNotStarted},
	}}
	exporter := &exporterMock{}
	courses := staticCourses{{ID: "c-1", Name: "Algorithms", Code: "CS201"}}
	return NewAssignmentHandler(query, courses, exporter), query, exporter
}

func TestAssignmentHandlerListParsesFilter(t *testing.T) {
	handler, query, _ := newAssignmentHandlerFixture()
	c, w := jsonContext(t, http.MethodGet, "/assignments?courseId=c-1&status=in_progress&start=2025-10-01&end=2025-10-31&overdue=true", nil)

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c-1", query.filter.CourseID)
	assert.Equal(t, models.StatusInProgress, query.filter.Status)
	assert.True(t, query.filter.OverdueOnly)
	require.NotNil(t, query.filter.EndDate)
	assert.Equal(t, time.Date(2025, time.October, 31, 23, 59, 59, 999999999, time.UTC), *query.filter.EndDate)

	body := string(decode(t, w).Data)
	assert.Contains(t, body, `"courseDisplay":"CS201 - Algorithms"`)
	assert.Contains(t, body, `"relativeDue":"In 5 hour(s)"`)
}

func TestAssignmentHandlerListRejectsBadDate(t *testing.T) {
	handler, _, _ := newAssignmentHandlerFixture()
	c, w := jsonContext(t, http.MethodGet, "/assignments?start=yesterday", nil)

	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignmentHandlerUpcomingDays(t *testing.T) {
	handler, query, _ := newAssignmentHandlerFixture()

	c, w := jsonContext(t, http.MethodGet, "/assignments/upcoming", nil)
	handler.Upcoming(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultUpcomingDays, query.days)

	c, w = jsonContext(t, http.MethodGet, "/assignments/upcoming?days=3", nil)
	handler.Upcoming(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, query.days)

	c, w = jsonContext(t, http.MethodGet, "/assignments/upcoming?days=-1", nil)
	handler.Upcoming(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignmentHandlerOverdueError(t *testing.T) {
	handler, query, _ := newAssignmentHandlerFixture()
	query.queryErr = errors.New("connection reset")
	c, w := jsonContext(t, http.MethodGet, "/assignments/overdue", nil)

	handler.Overdue(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAssignmentHandlerExport(t *testing.T) {
	handler, _, exporter := newAssignmentHandlerFixture()
	c, w := jsonContext(t, http.MethodGet, "/assignments/export?format=pdf&courseId=c-1", nil)

	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.FormatPDF, exporter.format)
	assert.Equal(t, "c-1", exporter.filter.CourseID)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "agenda_20251006_080000.pdf")
}

func TestAssignmentHandlerExportUnknownFormat(t *testing.T) {
	handler, _, exporter := newAssignmentHandlerFixture()
	c, w := jsonContext(t, http.MethodGet, "/assignments/export?format=xlsx", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, exporter.format)
}
