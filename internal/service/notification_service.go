package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/userdir/directory-service/internal/config"
	"github.com/userdir/directory-service/internal/events"
	"github.com/userdir/directory-service/internal/observability"
)

// NotificationService reacts to committed directory changes.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRecordCreated, n.handleRecordChanged)
	n.dispatcher.Subscribe(events.EventRecordUpdated, n.handleRecordChanged)
	n.dispatcher.Subscribe(events.EventRecordDeleted, n.handleRecordChanged)
}

func (n *NotificationService) handleRecordChanged(ctx context.Context, event events.Event) error {
	n.metrics.RecordMutation(string(event.Type))
	n.logger.Info("directory changed",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("email", event.Email),
	)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("email", event.Email),
		zap.String("event_type", string(event.Type)))
}
