package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler/internal/models"
)

type deadlineReader interface {
	GetUpcomingAssignments(ctx context.Context, daysAhead int) ([]models.Assignment, error)
	GetOverdueAssignments(ctx context.Context) ([]models.Assignment, error)
	Now() time.Time
}

type scanObserver interface {
	ObserveDeadlineScan(duration time.Duration, err error)
	RecordNotification(band models.DeadlineBand)
}

// DeadlineSchedulerConfig tunes the scan cadence and urgency bands.
type DeadlineSchedulerConfig struct {
	Interval     time.Duration
	WindowDays   int
	UrgentHours  int
	HeadsUpHours int
}

// ScanResult summarises one deadline scan.
type ScanResult struct {
	Notifications []models.DeadlineNotification
	Urgent        int
	HeadsUp       int
	Overdue       int
}

// DeadlineScheduler periodically classifies assignments by urgency and emits
// notifications. Scans never overlap.
type DeadlineScheduler struct {
	assignments deadlineReader
	notifier    Notifier
	metrics     scanObserver
	logger      *zap.Logger
	cfg         DeadlineSchedulerConfig

	scanMu  sync.Mutex
	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewDeadlineScheduler constructs the scheduler. A nil notifier logs only.
func NewDeadlineScheduler(assignments deadlineReader, notifier Notifier, metrics scanObserver, logger *zap.Logger, cfg DeadlineSchedulerConfig) *DeadlineScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 3
	}
	if cfg.UrgentHours <= 0 {
		cfg.UrgentHours = 24
	}
	if cfg.HeadsUpHours <= 0 {
		cfg.HeadsUpHours = 72
	}
	return &DeadlineScheduler{
		assignments: assignments,
		notifier:    notifier,
		metrics:     metrics,
		logger:      logger,
		cfg:         cfg,
	}
}

// Start runs one scan immediately and then one per interval until Stop is
// called or ctx is done. Calling Start on a running scheduler does nothing; once
// ctx is done the scheduler counts as stopped and may be started again.
func (s *DeadlineScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(ctx, s.stop, s.done)
	s.logger.Info("deadline scheduler started", zap.Duration("interval", s.cfg.Interval))
}

// Stop prevents further scans and waits for an in-flight scan to finish.
func (s *DeadlineScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
	s.logger.Info("deadline scheduler stopped")
}

func (s *DeadlineScheduler) loop(ctx context.Context, stop chan struct{}, done chan<- struct{}) {
	defer func() {
		s.mu.Lock()
		if s.stop == stop {
			s.running = false
		}
		s.mu.Unlock()
		close(done)
	}()
	// Cancelling ctx ends the loop but never interrupts a scan.
	scanCtx := context.WithoutCancel(ctx)

	s.runScheduled(scanCtx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			s.runScheduled(scanCtx)
		}
	}
}

func (s *DeadlineScheduler) runScheduled(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Warn("deadline scan failed", zap.Error(err))
	}
}

// RunOnce performs a single scan and delivers its notifications. Delivery
// failures are logged and do not fail the scan.
func (s *DeadlineScheduler) RunOnce(ctx context.Context) (ScanResult, error) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	start := time.Now()
	now := s.assignments.Now()
	var result ScanResult
	var errs []error

	upcoming, err := s.assignments.GetUpcomingAssignments(ctx, s.cfg.WindowDays)
	if err != nil {
		errs = append(errs, fmt.Errorf("read upcoming assignments: %w", err))
	} else {
		for _, n := range s.Classify(upcoming, now) {
			if n.Band == models.BandUrgent {
				result.Urgent++
			} else {
				result.HeadsUp++
			}
			result.Notifications = append(result.Notifications, n)
		}
	}

	overdue, err := s.assignments.GetOverdueAssignments(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("read overdue assignments: %w", err))
	} else if len(overdue) > 0 {
		result.Overdue = len(overdue)
		result.Notifications = append(result.Notifications, overdueNotification(len(overdue), now))
	}

	for _, n := range result.Notifications {
		s.deliver(ctx, n)
	}

	scanErr := errors.Join(errs...)
	if s.metrics != nil {
		s.metrics.ObserveDeadlineScan(time.Since(start), scanErr)
	}
	s.logger.Info("deadline scan finished",
		zap.Int("urgent", result.Urgent),
		zap.Int("heads_up", result.HeadsUp),
		zap.Int("overdue", result.Overdue),
		zap.Duration("took", time.Since(start)),
	)
	return result, scanErr
}

// Classify assigns each assignment to the urgent or heads-up band by whole
// hours until due. Assignments beyond the heads-up band, or already due, get
// no notification.
func (s *DeadlineScheduler) Classify(assignments []models.Assignment, now time.Time) []models.DeadlineNotification {
	notifications := make([]models.DeadlineNotification, 0, len(assignments))
	for _, a := range assignments {
		if a.DueDate.IsZero() || !a.DueDate.After(now) {
			continue
		}
		hours := models.WholeHoursBetween(now, a.DueDate)
		due := a.DueDate
		n := models.DeadlineNotification{
			ID:            uuid.NewString(),
			AssignmentID:  a.ID,
			CourseID:      a.CourseID,
			DueDate:       &due,
			HoursUntilDue: hours,
			GeneratedAt:   now,
		}
		switch {
		case hours <= s.cfg.UrgentHours:
			n.Band = models.BandUrgent
			n.Title = "Assignment Due Soon!"
			n.Message = fmt.Sprintf("%s is due in %d hours", a.Title, hours)
		case hours <= s.cfg.HeadsUpHours:
			days := models.WholeDaysBetween(now, a.DueDate)
			n.Band = models.BandHeadsUp
			n.DaysUntilDue = days
			n.Title = "Upcoming Deadline"
			n.Message = fmt.Sprintf("%s is due in %d days", a.Title, days)
		default:
			continue
		}
		notifications = append(notifications, n)
	}
	return notifications
}

// NotifyNow sends an ad-hoc notification through the configured notifier.
func (s *DeadlineScheduler) NotifyNow(ctx context.Context, title, message string) error {
	n := models.DeadlineNotification{
		ID:          uuid.NewString(),
		Band:        models.BandManual,
		Title:       title,
		Message:     message,
		GeneratedAt: s.assignments.Now(),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RecordNotification(n.Band)
	}
	return nil
}

func (s *DeadlineScheduler) deliver(ctx context.Context, n models.DeadlineNotification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn("notification delivery failed",
			zap.String("band", string(n.Band)),
			zap.String("assignment_id", n.AssignmentID),
			zap.Error(err),
		)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordNotification(n.Band)
	}
}

func overdueNotification(count int, now time.Time) models.DeadlineNotification {
	return models.DeadlineNotification{
		ID:           uuid.NewString(),
		Band:         models.BandOverdue,
		Title:        "Overdue Assignments",
		Message:      fmt.Sprintf("You have %d overdue assignment(s)", count),
		OverdueCount: count,
		GeneratedAt:  now,
	}
}
