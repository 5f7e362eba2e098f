package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler/internal/models"
	"github.com/noah-isme/course-scheduler/pkg/jobs"
)

// Notifier delivers deadline notifications to some outside party.
type Notifier interface {
	Notify(ctx context.Context, notification models.DeadlineNotification) error
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(ctx context.Context, notification models.DeadlineNotification) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, notification models.DeadlineNotification) error {
	return f(ctx, notification)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the notification at info level.
func (n *LogNotifier) Notify(_ context.Context, notification models.DeadlineNotification) error {
	n.logger.Info(notification.Title,
		zap.String("band", string(notification.Band)),
		zap.String("message", notification.Message),
		zap.String("assignment_id", notification.AssignmentID),
	)
	return nil
}

type kafkaPublisher interface {
	Publish(ctx context.Context, key string, message interface{}) error
}

// KafkaNotifier publishes notifications as JSON events keyed by assignment.
type KafkaNotifier struct {
	producer kafkaPublisher
}

// NewKafkaNotifier constructs a KafkaNotifier.
func NewKafkaNotifier(producer kafkaPublisher) *KafkaNotifier {
	return &KafkaNotifier{producer: producer}
}

// Notify publishes notification to the configured topic.
func (n *KafkaNotifier) Notify(ctx context.Context, notification models.DeadlineNotification) error {
	if err := n.producer.Publish(ctx, notification.Key(), notification); err != nil {
		return fmt.Errorf("publish notification %s: %w", notification.ID, err)
	}
	return nil
}

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisNotifier publishes notifications on a Redis pub/sub channel.
type RedisNotifier struct {
	client  redisPublisher
	channel string
}

// NewRedisNotifier constructs a RedisNotifier.
func NewRedisNotifier(client redisPublisher, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

// Notify publishes the JSON encoded notification.
func (n *RedisNotifier) Notify(ctx context.Context, notification models.DeadlineNotification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish notification to %s: %w", n.channel, err)
	}
	return nil
}

// MultiNotifier fans out to every wrapped notifier and joins their errors.
type MultiNotifier []Notifier

// Notify delivers to all notifiers even when some fail.
func (m MultiNotifier) Notify(ctx context.Context, notification models.DeadlineNotification) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, notification); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// QueuedNotifier hands notifications to a worker pool so slow sinks never
// stall a deadline scan. Failed deliveries are retried by the queue.
type QueuedNotifier struct {
	queue *jobs.Queue[models.DeadlineNotification]
}

// NewQueuedNotifier wraps next behind a queue configured by cfg.
func NewQueuedNotifier(next Notifier, cfg jobs.QueueConfig) *QueuedNotifier {
	handler := func(ctx context.Context, job jobs.Job[models.DeadlineNotification]) error {
		return next.Notify(ctx, job.Payload)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	queue := jobs.NewQueue[models.DeadlineNotification]("notifications", handler, cfg).
		OnGiveUp(func(job jobs.Job[models.DeadlineNotification], err error) {
			logger.Error("notification dropped",
				zap.String("band", string(job.Payload.Band)),
				zap.String("title", job.Payload.Title),
				zap.String("assignment_id", job.Payload.AssignmentID),
				zap.Int("attempts", job.Attempt),
				zap.Error(err))
		})
	return &QueuedNotifier{queue: queue}
}

// Start launches the delivery workers.
func (n *QueuedNotifier) Start(ctx context.Context) {
	n.queue.Start(ctx)
}

// Stop halts the workers; undelivered notifications are dropped.
func (n *QueuedNotifier) Stop() {
	n.queue.Stop()
}

// Notify enqueues the notification for asynchronous delivery.
func (n *QueuedNotifier) Notify(_ context.Context, notification models.DeadlineNotification) error {
	return n.queue.Enqueue(jobs.Job[models.DeadlineNotification]{ID: notification.ID, Payload: notification})
}
