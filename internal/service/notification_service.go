package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/kstack-dev/content-service/internal/events"
)

// NotificationService logs content lifecycle events and surfaces them to
// downstream consumers.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventContentCreated, n.handleContentChanged)
	n.dispatcher.Subscribe(events.EventContentUpdated, n.handleContentChanged)
	n.dispatcher.Subscribe(events.EventContentDeleted, n.handleContentChanged)
	n.dispatcher.Subscribe(events.EventCodeIssued, n.handleCodeIssued)
	n.dispatcher.Subscribe(events.EventStaffSignedIn, n.handleSignedIn)
}

func (n *NotificationService) handleContentChanged(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("kind", event.Kind),
		zap.String("entity_id", event.EntityID),
		zap.String("actor", event.Actor),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleCodeIssued(ctx context.Context, event events.Event) error {
	// The code itself is never logged.
	n.logger.Info("verification code issued", zap.String("staff_id", event.Actor))
	return nil
}

func (n *NotificationService) handleSignedIn(ctx context.Context, event events.Event) error {
	n.logger.Info("staff signed in", zap.String("staff_id", event.Actor), zap.Any("payload", event.Payload))
	return nil
}
