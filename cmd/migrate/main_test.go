package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/course-scheduler/internal/dto"
	"github.com/noah-isme/course-scheduler/pkg/config"
)

func migrateConfig(dir string) *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Backend: config.BackendFile, DataDir: dir, DataFile: "scheduler-data.json"},
		Database: config.DatabaseConfig{
			Host:    "127.0.0.1",
			Port:    1,
			User:    "postgres",
			Name:    "course_scheduler",
			SSLMode: "disable",
		},
	}
}

func TestRunWithoutDataFileIsNoop(t *testing.T) {
	var out bytes.Buffer
	code := run(context.Background(), migrateConfig(t.TempDir()), zap.NewNop(), options{}, strings.NewReader(""), &out)

	assert.Equal(t, exitOK, code)
	assert.Contains(t, out.String(), "nothing to migrate")
}

func TestRunReturnsFailureWhenDatabaseUnreachable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scheduler-data.json"), []byte(`{"courses":[]}`), 0o644))
	core, logs := observer.New(zap.ErrorLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var out bytes.Buffer
	code := run(ctx, migrateConfig(dir), zap.New(core), options{assumeYes: true}, strings.NewReader(""), &out)

	assert.Equal(t, exitFailed, code)
	assert.Equal(t, 1, logs.FilterMessage("failed to open database").Len())
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, confirm(strings.NewReader("Yes\n"), &out, "Proceed?"))
	assert.Equal(t, "Proceed? [y/N]: ", out.String())
	assert.False(t, confirm(strings.NewReader("n\n"), &out, "Proceed?"))
	assert.False(t, confirm(strings.NewReader(""), &out, "Proceed?"))
}

func TestPrintReportListsFailures(t *testing.T) {
	var out bytes.Buffer
	printReport(&out, &dto.MigrationReport{
		SourceCourses:     2,
		SourceAssignments: 3,
		MigratedCourses:   1,
		FailedCourses:     1,
		Failures:          []dto.MigrationFailure{{CourseID: "c-2", Code: "CS102", Error: "value too long"}},
	})

	assert.Contains(t, out.String(), "courses migrated:     1/2")
	assert.Contains(t, out.String(), "CS102 (c-2): value too long")
}
