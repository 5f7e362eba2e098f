package handler

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler/internal/middleware"
	"github.com/noah-isme/course-scheduler/internal/repository"
	"github.com/noah-isme/course-scheduler/internal/service"
	"github.com/noah-isme/course-scheduler/pkg/storage"
)

func newTestRouter(t *testing.T) (*gin.Engine, *service.MetricsService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	fileRepo := repository.NewFileCourseRepository(store, "scheduler-data.json", nil)
	require.NoError(t, fileRepo.Load(context.Background()))

	metrics := service.NewMetricsService(fileRepo.Backend())
	repo := repository.Instrument(fileRepo, metrics)
	clock := func() time.Time { return handlerNow }

	courses := service.NewCourseService(repo, nil)
	assignments := service.NewAssignmentService(repo, nil).WithClock(clock)
	search := service.NewSearchService(courses, assignments)
	exports := service.NewExportService(assignments, courses, nil, nil, nil)

	r := gin.New()
	r.Use(middleware.Metrics(metrics))
	RegisterRoutes(r, "/api/v1", Handlers{
		Courses:     NewCourseHandler(courses, assignments),
		Assignments: NewAssignmentHandler(assignments, courses, exports),
		Search:      NewSearchHandler(search),
		Metrics:     NewMetricsHandler(metrics),
	})
	return r, metrics
}

func perform(t *testing.T, r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouterCourseLifecycle(t *testing.T) {
	r, metrics := newTestRouter(t)

	w := perform(t, r, http.MethodPost, "/api/v1/courses", map[string]interface{}{
		"name":      "Algorithms",
		"code":      "CS201",
		"professor": "Knuth",
		"semester":  map[string]interface{}{"season": "FALL", "year": 2025},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	courseID := created.Data.ID
	require.NotEmpty(t, courseID)

	w = perform(t, r, http.MethodPost, "/api/v1/courses/"+courseID+"/assignments", map[string]interface{}{
		"title":   "Graph homework",
		"dueDate": handlerNow.Add(10 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = perform(t, r, http.MethodPost, "/api/v1/courses/missing/assignments", map[string]interface{}{
		"title":   "Orphan",
		"dueDate": handlerNow.Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(t, r, http.MethodGet, "/api/v1/assignments/upcoming?days=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Graph homework"`)
	assert.Contains(t, w.Body.String(), `"statusLabel":"Not Started"`)

	w = perform(t, r, http.MethodGet, "/api/v1/search?q=graph", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"subtitle":"CS201 - Algorithms | Due: 2025-10-06"`)

	w = perform(t, r, http.MethodGet, "/api/v1/assignments/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "CS201 - Algorithms", records[1][0])

	w = perform(t, r, http.MethodDelete, "/api/v1/courses/"+courseID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = perform(t, r, http.MethodGet, "/api/v1/courses/"+courseID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(8), snapshot.RequestsTotal)
	assert.NotZero(t, snapshot.StoreOperations)
}

func TestRouterProbes(t *testing.T) {
	r, _ := newTestRouter(t)

	w := perform(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"backend":"file"`)

	w = perform(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
