package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/demand-queue/internal/config"
	"github.com/spec-kit/demand-queue/internal/events"
)

// NotificationService handles emitting notifications for demand events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventDemandCreated, n.handleDemandCreated)
	n.dispatcher.Subscribe(events.EventDemandClaimed, n.handleDemandClaimed)
	n.dispatcher.Subscribe(events.EventDemandCompleted, n.handleDemandCompleted)
	n.dispatcher.Subscribe(events.EventDemandDeleted, n.handleDemandDeleted)
}

func (n *NotificationService) handleDemandCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("DemandCreated", zap.String("demand_id", event.DemandID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleDemandClaimed(ctx context.Context, event events.Event) error {
	n.logger.Info("DemandClaimed", zap.String("demand_id", event.DemandID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleDemandCompleted(ctx context.Context, event events.Event) error {
	n.logger.Info("DemandCompleted", zap.String("demand_id", event.DemandID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleDemandDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("DemandDeleted", zap.String("demand_id", event.DemandID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("demand_id", event.DemandID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("demand_id", event.DemandID),
		zap.String("event_type", string(event.Type)))
}
