package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/campus-helpdesk/internal/events"
	"github.com/spec-kit/campus-helpdesk/internal/notify"
)

// NotificationService bridges ticket events onto delivery channels.
// It runs entirely off the request path: the event dispatcher hands it
// events on background goroutines, and the notify dispatcher absorbs
// every delivery failure.
type NotificationService struct {
	dispatcher events.Dispatcher
	sender     *notify.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sender *notify.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		sender:     sender,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to the events worth announcing.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		n.logger.Warn("unexpected status change payload", zap.String("event_id", event.ID))
		return nil
	}

	n.logger.Info("ticket status changed",
		zap.Int64("ticket_id", event.TicketID),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)))

	n.sender.Dispatch(ctx, notify.Message{
		TicketID:    event.TicketID,
		OldStatus:   payload.OldStatus,
		NewStatus:   payload.NewStatus,
		Title:       payload.Title,
		Description: payload.Description,
		Resolver:    payload.ResolverEmail,
		Recipient:   payload.RecipientEmail,
	})
	return nil
}
