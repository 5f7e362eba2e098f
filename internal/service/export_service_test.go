package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler/internal/models"
	"github.com/noah-isme/course-scheduler/pkg/export"
)

type capturingRenderer struct {
	table export.Table
}

func (r *capturingRenderer) Render(table export.Table) ([]byte, error) {
	r.table = table
	return []byte("%PDF-stub"), nil
}

func TestExportServiceCSV(t *testing.T) {
	assignments, repo := newAssignmentFixture()
	svc := NewExportService(assignments, NewCourseService(repo, nil), nil, nil, nil)

	result, err := svc.ExportAssignments(context.Background(), models.AssignmentFilter{CourseID: "c-1"}, export.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "agenda_20251006_080000.csv", result.Filename)

	records, err := csv.NewReader(bytes.NewReader(result.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, agendaHeaders, records[0])
	assert.Equal(t, []string{"CS201 - Algorithms", "Sorting essay", "In Progress", "Oct 04, 2025 08:00", "2 day(s) ago", "yes", ""}, records[1])
	assert.Equal(t, "In 10 hour(s)", records[2][4])
	assert.Equal(t, "no", records[3][5])
}

func TestExportServicePDFUsesRenderer(t *testing.T) {
	assignments, repo := newAssignmentFixture()
	pdf := &capturingRenderer{}
	svc := NewExportService(assignments, NewCourseService(repo, nil), nil, nil, pdf)

	start := testNow
	end := testNow.Add(72 * time.Hour)
	result, err := svc.ExportAssignments(context.Background(), models.AssignmentFilter{StartDate: &start, EndDate: &end}, export.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Equal(t, "Assignment agenda", pdf.table.Title)
	require.Len(t, pdf.table.Rows, 3)
	assert.Equal(t, "CS340 - Databases", pdf.table.Rows[2][0])
}

func TestExportServiceUnsupportedFormat(t *testing.T) {
	assignments, repo := newAssignmentFixture()
	svc := NewExportService(assignments, NewCourseService(repo, nil), nil, nil, nil)

	_, err := svc.ExportAssignments(context.Background(), models.AssignmentFilter{}, export.Format("xlsx"))
	assert.Error(t, err)
}
