package dto

import (
	"time"

	"github.com/spec-kit/campus-helpdesk/internal/advisor"
	"github.com/spec-kit/campus-helpdesk/internal/domain"
)

// CreateTicketRequest captures ticket creation. Only the description is
// mandatory; the advisor fills in whatever else is missing.
type CreateTicketRequest struct {
	Title       string                `json:"title,omitempty"`
	Description string                `json:"description"`
	Department  string                `json:"department_name,omitempty"`
	Priority    domain.TicketPriority `json:"priority,omitempty"`
}

// AssignSupportRequest routes a ticket to a support agent by email.
type AssignSupportRequest struct {
	SupportEmail string `json:"support_email"`
}

// AssignDepartmentRequest reroutes a ticket to another department.
type AssignDepartmentRequest struct {
	Department string `json:"department_name"`
}

// UpdateStatusRequest sets a new ticket status.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// AddCommentRequest appends a comment to a ticket.
type AddCommentRequest struct {
	Content string `json:"content"`
}

// TicketSummary is the list-view representation.
type TicketSummary struct {
	ID           int64                 `json:"id"`
	Title        string                `json:"title"`
	Status       domain.TicketStatus   `json:"status"`
	Priority     domain.TicketPriority `json:"priority"`
	CreatorID    int64                 `json:"creator_id"`
	DepartmentID int64                 `json:"department_id"`
	AssigneeID   *int64                `json:"assignee_id,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// TicketDetailResponse embeds the full description and comments.
type TicketDetailResponse struct {
	TicketSummary
	Description string            `json:"description"`
	Comments    []CommentResponse `json:"comments"`
}

// CommentResponse is the public comment representation.
type CommentResponse struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SuggestionResponse is the advisor output surfaced to clients.
type SuggestionResponse struct {
	SuggestedTitle    string                  `json:"suggested_title"`
	DepartmentOptions []string                `json:"department_options"`
	PriorityOptions   []domain.TicketPriority `json:"priority_options"`
	Explanation       string                  `json:"explanation,omitempty"`
}

// TicketSummaryFrom maps a domain ticket.
func TicketSummaryFrom(ticket *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:           ticket.ID,
		Title:        ticket.Title,
		Status:       ticket.Status,
		Priority:     ticket.Priority,
		CreatorID:    ticket.CreatorID,
		DepartmentID: ticket.DepartmentID,
		AssigneeID:   ticket.AssigneeID,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

// TicketDetailFrom maps a ticket with its comments.
func TicketDetailFrom(ticket *domain.Ticket, comments []domain.Comment) TicketDetailResponse {
	items := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, CommentResponseFrom(&comments[i]))
	}
	return TicketDetailResponse{
		TicketSummary: TicketSummaryFrom(ticket),
		Description:   ticket.Description,
		Comments:      items,
	}
}

// CommentResponseFrom maps a domain comment.
func CommentResponseFrom(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		TicketID:  comment.TicketID,
		UserID:    comment.UserID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

// SuggestionResponseFrom maps an advisor suggestion.
func SuggestionResponseFrom(s advisor.Suggestion) SuggestionResponse {
	return SuggestionResponse{
		SuggestedTitle:    s.SuggestedTitle,
		DepartmentOptions: s.DepartmentOptions,
		PriorityOptions:   s.PriorityOptions,
		Explanation:       s.Explanation,
	}
}
