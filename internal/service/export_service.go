package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler/internal/models"
	"github.com/noah-isme/course-scheduler/pkg/export"
)

type agendaSource interface {
	FilterAssignments(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
	Now() time.Time
}

type courseLister interface {
	GetAllCourses(ctx context.Context) ([]models.Course, error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// ExportResult is a rendered agenda ready to be streamed.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

var agendaHeaders = []string{"Course", "Title", "Status", "Due", "When", "Overdue", "Notes"}

// ExportService renders filtered assignment agendas as CSV or PDF.
type ExportService struct {
	assignments agendaSource
	courses     courseLister
	csv         tableRenderer
	pdf         tableRenderer
	logger      *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(assignments agendaSource, courses courseLister, logger *zap.Logger, csv, pdf tableRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{assignments: assignments, courses: courses, csv: csv, pdf: pdf, logger: logger}
}

// ExportAssignments renders the assignments matching filter in due-date order.
func (s *ExportService) ExportAssignments(ctx context.Context, filter models.AssignmentFilter, format export.Format) (*ExportResult, error) {
	assignments, err := s.assignments.FilterAssignments(ctx, filter)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.GetAllCourses(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(courses))
	for _, course := range courses {
		names[course.ID] = course.DisplayName()
	}

	now := s.assignments.Now()
	table := export.Table{Title: "Assignment agenda", Headers: agendaHeaders}
	for _, a := range assignments {
		due := ""
		if !a.DueDate.IsZero() {
			due = a.DueDate.Format(models.DateTimeLayout)
		}
		overdue := "no"
		if a.IsOverdue(now) {
			overdue = "yes"
		}
		table.Rows = append(table.Rows, []string{
			names[a.CourseID],
			a.Title,
			a.Status.DisplayName(),
			due,
			models.RelativeDueText(a.DueDate, now),
			overdue,
			a.Notes,
		})
	}

	var renderer tableRenderer
	switch format {
	case export.FormatCSV:
		renderer = s.csv
	case export.FormatPDF:
		renderer = s.pdf
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
	data, err := renderer.Render(table)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("agenda exported", zap.String("format", string(format)), zap.Int("rows", len(table.Rows)))

	return &ExportResult{
		Filename:    fmt.Sprintf("agenda_%s.%s", now.UTC().Format("20060102_150405"), format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}
