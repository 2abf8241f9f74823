// Package worker runs background consumers of domain events.
package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/facility-service/internal/events"
	"github.com/spec-kit/facility-service/internal/service"
)

const defaultQueueSize = 256

// NotificationWorker moves webhook delivery off the request path.
type NotificationWorker struct {
	notifier *service.NotificationService
	logger   *zap.Logger
	queue    chan events.Event
	workers  int
	wg       sync.WaitGroup
}

// NewNotificationWorker creates a worker with the given concurrency.
func NewNotificationWorker(notifier *service.NotificationService, logger *zap.Logger, workers int) *NotificationWorker {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		notifier: notifier,
		logger:   logger,
		queue:    make(chan events.Event, defaultQueueSize),
		workers:  workers,
	}
}

// StartNotificationWorker subscribes to the notifier's events and starts the
// delivery goroutines. The returned worker stops when ctx is cancelled.
func StartNotificationWorker(ctx context.Context, dispatcher events.Dispatcher, notifier *service.NotificationService, logger *zap.Logger, workers int) *NotificationWorker {
	if notifier == nil || dispatcher == nil {
		return nil
	}
	w := NewNotificationWorker(notifier, logger, workers)
	for _, eventType := range notifier.EventTypes() {
		dispatcher.Subscribe(eventType, w.Enqueue)
	}
	w.Run(ctx)
	return w
}

// Enqueue hands the event to a delivery goroutine. It never blocks; a full
// queue drops the event with a warning.
func (w *NotificationWorker) Enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("subject_id", event.SubjectID))
	}
	return nil
}

// Run starts the delivery goroutines.
func (w *NotificationWorker) Run(ctx context.Context) {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case event := <-w.queue:
					if err := w.notifier.Handle(ctx, event); err != nil {
						w.logger.Warn("notification delivery failed",
							zap.String("event_type", string(event.Type)),
							zap.String("subject_id", event.SubjectID),
							zap.Error(err))
					}
				}
			}
		}()
	}
}

// Wait blocks until every delivery goroutine has exited.
func (w *NotificationWorker) Wait() {
	if w == nil {
		return
	}
	w.wg.Wait()
}
