package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-helpdesk/internal/config"
)

// Dispatcher fans a message out: the first channel is the primary, the
// rest are tried in order only after the primary exhausts its retries.
// Exhausting every channel is logged and swallowed; delivery failures
// never reach the ticket mutation that triggered them.
type Dispatcher struct {
	channels []Channel
	attempts int
	backoff  time.Duration
	logger   *zap.Logger
	sleep    func(time.Duration)
}

// NewDispatcher builds channels from configuration, email first.
func NewDispatcher(cfg config.NotificationConfig, logger *zap.Logger) *Dispatcher {
	var channels []Channel
	if cfg.EmailEnabled {
		channels = append(channels, NewEmailChannel(cfg))
	}
	if cfg.WebhookEnabled && cfg.WebhookURL != "" {
		channels = append(channels, NewWebhookChannel(cfg.WebhookURL))
	}
	if cfg.SMSEnabled && cfg.SMSAPIURL != "" {
		channels = append(channels, NewSMSChannel(cfg.SMSAPIURL, cfg.SMSAPIKey))
	}
	return NewDispatcherWithChannels(channels, cfg.MaxAttempts, cfg.Backoff(), logger)
}

// NewDispatcherWithChannels wires an explicit channel list.
func NewDispatcherWithChannels(channels []Channel, attempts int, backoff time.Duration, logger *zap.Logger) *Dispatcher {
	if attempts <= 0 {
		attempts = 3
	}
	return &Dispatcher{
		channels: channels,
		attempts: attempts,
		backoff:  backoff,
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// Dispatch attempts delivery with linear backoff per channel. It runs
// to completion once started; cancellation is not supported.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) {
	deliveryID := uuid.NewString()

	for _, channel := range d.channels {
		for attempt := 1; attempt <= d.attempts; attempt++ {
			err := channel.Send(ctx, msg)
			if err == nil {
				d.logger.Info("notification delivered",
					zap.String("delivery_id", deliveryID),
					zap.String("channel", channel.Name()),
					zap.Int64("ticket_id", msg.TicketID),
					zap.Int("attempt", attempt))
				return
			}
			d.logger.Warn("notification attempt failed",
				zap.String("delivery_id", deliveryID),
				zap.String("channel", channel.Name()),
				zap.Int64("ticket_id", msg.TicketID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			if attempt < d.attempts {
				d.sleep(d.backoff * time.Duration(attempt))
			}
		}
	}

	d.logger.Error("notification undeliverable on all channels",
		zap.String("delivery_id", deliveryID),
		zap.Int64("ticket_id", msg.TicketID),
		zap.Int("channels", len(d.channels)))
}
