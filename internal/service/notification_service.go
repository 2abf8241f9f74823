package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/facility-service/internal/config"
	"github.com/spec-kit/facility-service/internal/events"
)

// NotificationService forwards domain events to the configured webhook.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
	client *resty.Client
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Content-Type", "application/json")

	return &NotificationService{
		logger: logger,
		cfg:    cfg,
		client: client,
	}
}

// EventTypes lists the events forwarded to the webhook.
func (n *NotificationService) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventTaskCreated,
		events.EventTaskUpdated,
		events.EventTaskCompleted,
		events.EventTaskCritical,
		events.EventTaskDeleted,
		events.EventRosterChanged,
	}
}

// Handle logs the event and posts it to the webhook.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventTaskCritical:
		return n.handleTaskCritical(ctx, event)
	case events.EventRosterChanged:
		return n.handleRosterChanged(ctx, event)
	default:
		return n.handleTaskEvent(ctx, event)
	}
}

func (n *NotificationService) handleTaskEvent(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type), zap.String("task_id", event.SubjectID))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleTaskCritical(ctx context.Context, event events.Event) error {
	n.logger.Warn("critical task report", zap.String("task_id", event.SubjectID), zap.Any("payload", event.Payload))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleRosterChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("roster changed", zap.String("team_id", event.SubjectID), zap.Any("payload", event.Payload))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) sendWebhook(ctx context.Context, event events.Event) error {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return nil
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(event).
		Post(n.cfg.WebhookURL)
	if err != nil {
		return fmt.Errorf("webhook %s: %w", event.Type, err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook %s: unexpected status %d", event.Type, resp.StatusCode())
	}

	n.logger.Debug("webhook delivered",
		zap.String("event_type", string(event.Type)),
		zap.String("subject_id", event.SubjectID),
		zap.Int("status", resp.StatusCode()))
	return nil
}
