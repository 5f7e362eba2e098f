package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler/pkg/config"
	"github.com/noah-isme/course-scheduler/pkg/database"
	"github.com/noah-isme/course-scheduler/pkg/storage"
)

// Open builds the repository selected by cfg.Backend and loads its state. The
// returned close function releases whatever the backend holds (the Postgres
// pool); it is never nil.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (CourseRepository, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	noop := func() error { return nil }

	switch cfg.Storage.Backend {
	case config.BackendFile:
		store, err := storage.NewLocalStorage(cfg.Storage.DataDir)
		if err != nil {
			return nil, noop, err
		}
		repo := NewFileCourseRepository(store, cfg.Storage.DataFile, logger.Named("file_store"))
		if err := repo.Load(ctx); err != nil {
			return nil, noop, err
		}
		return repo, noop, nil
	case config.BackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		repo, err := NewPostgresCourseRepository(ctx, db, logger.Named("postgres_store"))
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return repo, db.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
