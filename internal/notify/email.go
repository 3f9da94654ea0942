package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/spec-kit/campus-helpdesk/internal/config"
)

// EmailChannel delivers over SMTP to the ticket creator.
type EmailChannel struct {
	cfg config.NotificationConfig
}

// NewEmailChannel constructs the channel.
func NewEmailChannel(cfg config.NotificationConfig) *EmailChannel {
	return &EmailChannel{cfg: cfg}
}

// Name implements Channel.
func (e *EmailChannel) Name() string { return "email" }

// Send implements Channel.
func (e *EmailChannel) Send(_ context.Context, msg Message) error {
	if msg.Recipient == "" {
		return fmt.Errorf("email: no recipient")
	}

	payload := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		e.cfg.EmailFrom, msg.Recipient, msg.Subject(), msg.Body()))

	addr := fmt.Sprintf("%s:%d", e.cfg.SMTPHost, e.cfg.SMTPPort)
	var auth smtp.Auth
	if e.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", e.cfg.SMTPUsername, e.cfg.SMTPPassword, e.cfg.SMTPHost)
	}
	return smtp.SendMail(addr, auth, e.cfg.EmailFrom, []string{msg.Recipient}, payload)
}
