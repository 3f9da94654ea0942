package notify

import (
	"context"
	"fmt"

	"github.com/spec-kit/campus-helpdesk/internal/domain"
)

// Message describes a ticket status transition to announce.
type Message struct {
	TicketID    int64
	OldStatus   domain.TicketStatus
	NewStatus   domain.TicketStatus
	Title       string
	Description string
	Resolver    string
	Recipient   string
}

// Subject renders the delivery headline shared by the channels.
func (m Message) Subject() string {
	return fmt.Sprintf("Ticket #%d: %s -> %s", m.TicketID, m.OldStatus, m.NewStatus)
}

// Body renders the plain-text delivery body.
func (m Message) Body() string {
	body := fmt.Sprintf("Ticket #%d (%s) moved from %s to %s.", m.TicketID, m.Title, m.OldStatus, m.NewStatus)
	if m.Resolver != "" {
		body += fmt.Sprintf("\nHandled by: %s", m.Resolver)
	}
	if m.Description != "" {
		desc := m.Description
		if len(desc) > 200 {
			desc = desc[:200]
		}
		body += fmt.Sprintf("\n\n%s", desc)
	}
	return body
}

// Channel is a single delivery capability. Implementations are selected
// by configuration and composed by the Dispatcher.
type Channel interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}
