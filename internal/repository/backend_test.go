package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler/pkg/config"
)

func TestOpenFileBackend(t *testing.T) {
	cfg := config.Config{Storage: config.StorageConfig{Backend: config.BackendFile, DataDir: t.TempDir(), DataFile: testDataFile}}

	repo, closeFn, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	defer closeFn()

	assert.Equal(t, config.BackendFile, repo.Backend())
	require.NoError(t, repo.AddCourse(context.Background(), sampleCourse("CS100")))
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := config.Config{Storage: config.StorageConfig{Backend: "mongo"}}

	repo, closeFn, err := Open(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Nil(t, repo)
	assert.NoError(t, closeFn())
}

type recordedOp struct {
	backend string
	op      string
	err     error
}

type recordingObserver struct {
	ops []recordedOp
}

func (o *recordingObserver) ObserveStoreOperation(backend, operation string, _ time.Duration, err error) {
	o.ops = append(o.ops, recordedOp{backend: backend, op: operation, err: err})
}

func TestInstrumentRecordsOperations(t *testing.T) {
	ctx := context.Background()
	file, _ := newFileRepo(t)
	observer := &recordingObserver{}
	repo := Instrument(file, observer)

	course := sampleCourse("CS700")
	require.NoError(t, repo.AddCourse(ctx, course))
	_, err := repo.GetAllCourses(ctx)
	require.NoError(t, err)
	err = repo.UpdateCourse(ctx, sampleCourse("CS701"))
	require.Error(t, err)

	require.Len(t, observer.ops, 3)
	assert.Equal(t, recordedOp{backend: "file", op: "add_course"}, observer.ops[0])
	assert.Equal(t, "get_all_courses", observer.ops[1].op)
	assert.Equal(t, "update_course", observer.ops[2].op)
	assert.Error(t, observer.ops[2].err)
}

func TestInstrumentWithoutObserverReturnsRepository(t *testing.T) {
	file, _ := newFileRepo(t)
	assert.Same(t, file, Instrument(file, nil).(*FileCourseRepository))
}
