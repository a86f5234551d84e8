package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bahtsul-masail/tashih-api/pkg/jobs"
)

// NotificationEvent describes a workflow event delivered to reviewers and
// authors outside the request path.
type NotificationEvent struct {
	Type       string    `json:"type"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id"`
	ActorID    string    `json:"actor_id"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notification event types emitted by the workflow services.
const (
	NotificationDocumentSubmitted  = "document.submitted"
	NotificationRevisionRequested  = "document.revision_requested"
	NotificationDocumentApproved   = "document.approved"
	NotificationCollectionSubmit   = "collection.submitted"
	NotificationCollectionApproved = "collection.approved"
	NotificationCollectionPublish  = "collection.published"
)

// NotificationSink delivers events to their destination. The default sink
// only logs; deployments plug in mail or chat transports.
type NotificationSink interface {
	Deliver(ctx context.Context, event NotificationEvent) error
}

// NotificationSinkFunc adapts a function to the sink interface.
type NotificationSinkFunc func(ctx context.Context, event NotificationEvent) error

// Deliver implements NotificationSink.
func (f NotificationSinkFunc) Deliver(ctx context.Context, event NotificationEvent) error {
	return f(ctx, event)
}

// NotificationService dispatches workflow events through a background queue
// so state transitions never wait on delivery.
type NotificationService struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewNotificationService constructs the service and its worker queue.
func NewNotificationService(sink NotificationSink, cfg jobs.QueueConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sink == nil {
		sink = NotificationSinkFunc(func(_ context.Context, event NotificationEvent) error {
			logger.Info("notification",
				zap.String("type", event.Type),
				zap.String("resource", event.Resource),
				zap.String("resource_id", event.ResourceID))
			return nil
		})
	}
	cfg.Logger = logger
	queue := jobs.NewQueue("notifications", func(ctx context.Context, job jobs.Job) error {
		event, ok := job.Payload.(NotificationEvent)
		if !ok {
			return nil
		}
		return sink.Deliver(ctx, event)
	}, cfg)
	return &NotificationService{queue: queue, logger: logger}
}

// Start launches the delivery workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the queue and stops the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Notify enqueues the event, dropping it when the queue is saturated.
func (s *NotificationService) Notify(event NotificationEvent) {
	if s == nil || s.queue == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    event.Type,
		Payload: event,
	}); err != nil {
		s.logger.Warn("dropping notification", zap.String("type", event.Type), zap.Error(err))
	}
}
