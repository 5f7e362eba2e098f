package service

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler/internal/models"
)

func TestMetricsServiceSnapshotAndExposition(t *testing.T) {
	m := NewMetricsService("file")
	m.ObserveHTTPRequest(http.MethodGet, "/courses", http.StatusOK, 20*time.Millisecond)
	m.ObserveStoreOperation("file", "get_all_courses", 4*time.Millisecond, nil)
	m.ObserveStoreOperation("file", "update_course", 6*time.Millisecond, errors.New("disk full"))
	m.ObserveDeadlineScan(time.Millisecond, nil)
	m.RecordNotification(models.BandUrgent)

	snap := m.Snapshot()
	assert.Equal(t, "file", snap.Backend)
	assert.Equal(t, uint64(1), snap.RequestsTotal)
	assert.InDelta(t, 20.0, snap.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(2), snap.StoreOperations)
	assert.Equal(t, uint64(1), snap.StoreErrors)
	assert.InDelta(t, 5.0, snap.AverageStoreOperationMs, 0.001)
	assert.Equal(t, uint64(1), snap.DeadlineScans)
	assert.Equal(t, uint64(1), snap.NotificationsSent)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `deadline_notifications_total{band="URGENT"} 1`)
	assert.Contains(t, string(body), `course_store_errors_total{backend="file",operation="update_course"} 1`)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.ObserveStoreOperation("file", "load", time.Millisecond, nil)
	m.ObserveDeadlineScan(time.Millisecond, nil)
	m.RecordNotification(models.BandOverdue)
	assert.Zero(t, m.Snapshot().RequestsTotal)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
