package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler/internal/handler"
	"github.com/noah-isme/course-scheduler/internal/middleware"
	"github.com/noah-isme/course-scheduler/internal/repository"
	"github.com/noah-isme/course-scheduler/internal/service"
	"github.com/noah-isme/course-scheduler/pkg/cache"
	"github.com/noah-isme/course-scheduler/pkg/config"
	"github.com/noah-isme/course-scheduler/pkg/jobs"
	"github.com/noah-isme/course-scheduler/pkg/kafka"
	"github.com/noah-isme/course-scheduler/pkg/logger"
	corsmiddleware "github.com/noah-isme/course-scheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/course-scheduler/pkg/middleware/requestid"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("course scheduler stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	store, closeStore, err := repository.Open(ctx, *cfg, logr)
	if err != nil {
		return fmt.Errorf("open course store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logr.Warn("failed to close course store", zap.Error(err))
		}
	}()

	metrics := service.NewMetricsService(store.Backend())
	repo := repository.Instrument(store, metrics)

	courses := service.NewCourseService(repo, logr.Named("courses"))
	assignments := service.NewAssignmentService(repo, logr.Named("assignments"))
	search := service.NewSearchService(courses, assignments)
	exports := service.NewExportService(assignments, courses, logr.Named("export"), nil, nil)

	sinks, closeSinks, err := buildSinks(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer closeSinks()

	notifier := service.NewQueuedNotifier(sinks, jobs.QueueConfig{
		Workers:    cfg.Notify.Workers,
		MaxRetries: cfg.Notify.Retries,
		RetryDelay: cfg.Notify.RetryDelay,
		Logger:     logr.Named("notifications"),
	})
	notifier.Start(ctx)
	defer notifier.Stop()

	scheduler := service.NewDeadlineScheduler(assignments, notifier, metrics, logr.Named("scheduler"), service.DeadlineSchedulerConfig{
		Interval:     cfg.Scheduler.Interval,
		WindowDays:   cfg.Scheduler.WindowDays,
		UrgentHours:  cfg.Scheduler.UrgentHours,
		HeadsUpHours: cfg.Scheduler.HeadsUpHours,
	})
	if cfg.Scheduler.Enabled {
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Courses:     handler.NewCourseHandler(courses, assignments),
		Assignments: handler.NewAssignmentHandler(assignments, courses, exports),
		Search:      handler.NewSearchHandler(search),
		Metrics:     handler.NewMetricsHandler(metrics),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.Bool("scheduler", cfg.Scheduler.Enabled))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return nil
}

// buildSinks assembles the configured notification sinks.
func buildSinks(ctx context.Context, cfg *config.Config, logr *zap.Logger) (service.MultiNotifier, func(), error) {
	var (
		sinks   service.MultiNotifier
		closers []func() error
	)
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logr.Warn("failed to close notification sink", zap.Error(err))
			}
		}
	}

	if cfg.Notify.HasSink(config.SinkLog) {
		sinks = append(sinks, service.NewLogNotifier(logr.Named("deadlines")))
	}
	if cfg.Notify.HasSink(config.SinkKafka) {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("init kafka sink: %w", err)
		}
		closers = append(closers, producer.Close)
		sinks = append(sinks, service.NewKafkaNotifier(producer))
	}
	if cfg.Notify.HasSink(config.SinkRedis) {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("init redis sink: %w", err)
		}
		closers = append(closers, client.Close)
		sinks = append(sinks, service.NewRedisNotifier(client, cfg.Redis.Channel))
	}
	if len(sinks) == 0 {
		sinks = append(sinks, service.NewLogNotifier(logr.Named("deadlines")))
	}
	return sinks, closeAll, nil
}
