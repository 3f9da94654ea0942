package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-helpdesk/internal/advisor"
	"github.com/spec-kit/campus-helpdesk/internal/auth"
	"github.com/spec-kit/campus-helpdesk/internal/domain"
	"github.com/spec-kit/campus-helpdesk/internal/events"
	"github.com/spec-kit/campus-helpdesk/internal/repository"
	apperrors "github.com/spec-kit/campus-helpdesk/pkg/util"
)

const (
	titleMaxLen       = 100
	descriptionMaxLen = 5000
	commentMaxLen     = 1000
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets     repository.TicketRepository
	comments    repository.CommentRepository
	users       repository.UserRepository
	departments repository.DepartmentRepository
	advisor     advisor.Advisor
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	CommentRepo    repository.CommentRepository
	UserRepo       repository.UserRepository
	DepartmentRepo repository.DepartmentRepository
	Advisor        advisor.Advisor
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		users:       deps.UserRepo,
		departments: deps.DepartmentRepo,
		advisor:     deps.Advisor,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
	}
}

// TicketCreateInput describes ticket creation payload. Title, department
// and priority are optional; missing values are filled by the advisor.
type TicketCreateInput struct {
	Title          string
	Description    string
	DepartmentName string
	Priority       domain.TicketPriority
}

// ListOptions are the optional listing filters.
type ListOptions struct {
	StatusFilter     string
	DepartmentFilter string
	SortByPriority   bool
}

// CreateTicket creates a ticket for the caller. Any authenticated user
// may create one. The advisor augments missing fields; its failure can
// only ever downgrade the suggestion, never the creation.
func (s *TicketService) CreateTicket(ctx context.Context, creator *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	if input.Description == "" || utf8.RuneCountInString(input.Description) > descriptionMaxLen {
		return nil, apperrors.NewValidationError("description must be 1-5000 characters", nil)
	}
	if utf8.RuneCountInString(input.Title) > titleMaxLen {
		return nil, apperrors.NewValidationError("title must be at most 100 characters", nil)
	}
	if input.Priority != "" && !domain.ValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("priority must be Low, Medium or High", map[string]any{"priority": input.Priority})
	}

	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(departments) == 0 {
		return nil, apperrors.NewValidationError("no departments configured", nil)
	}
	names := make([]string, len(departments))
	byName := make(map[string]*domain.Department, len(departments))
	for i := range departments {
		names[i] = departments[i].Name
		byName[departments[i].Name] = &departments[i]
	}

	title := input.Title
	departmentName := ""
	if _, ok := byName[input.DepartmentName]; ok {
		departmentName = input.DepartmentName
	}
	priority := input.Priority

	if title == "" || departmentName == "" || priority == "" {
		suggestion := s.advisor.Suggest(ctx, input.Title, input.Description, names)
		if title == "" {
			title = suggestion.SuggestedTitle
		}
		if departmentName == "" {
			if _, ok := byName[suggestion.TopDepartment()]; ok {
				departmentName = suggestion.TopDepartment()
			} else {
				departmentName = names[0]
			}
		}
		if priority == "" {
			priority = suggestion.TopPriority()
			if !domain.ValidPriority(priority) {
				priority = domain.TicketPriorityLow
			}
		}
	}
	title = truncateRunes(title, titleMaxLen)

	ticket := &domain.Ticket{
		Title:        title,
		Description:  input.Description,
		Status:       domain.TicketStatusOpen,
		Priority:     priority,
		CreatorID:    creator.ID,
		DepartmentID: byName[departmentName].ID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  creator.ID,
		Payload: events.TicketCreatedPayload{
			DepartmentID: ticket.DepartmentID,
			Priority:     ticket.Priority,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// GetTicket returns a ticket with its comments. Visible to the creator
// and to support, department and admin roles.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.User, ticketID int64) (*domain.Ticket, []domain.Comment, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if ticket.CreatorID != actor.ID && !actor.Role.In(domain.RoleSetStaff) {
		return nil, nil, apperrors.NewForbidden("access denied")
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return ticket, comments, nil
}

// ListMine returns tickets created by the caller, any role.
func (s *TicketService) ListMine(ctx context.Context, actor *domain.User) ([]domain.Ticket, error) {
	return s.list(ctx, repository.TicketFilter{CreatorID: &actor.ID}, ListOptions{})
}

// ListDepartment returns tickets routed to the caller's department.
// Department managers and admins only.
func (s *TicketService) ListDepartment(ctx context.Context, actor *domain.User, opts ListOptions) ([]domain.Ticket, error) {
	if err := auth.Authorize(actor, domain.RoleSetManagers); err != nil {
		return nil, err
	}
	if actor.DepartmentID == nil {
		return []domain.Ticket{}, nil
	}
	return s.list(ctx, repository.TicketFilter{DepartmentID: actor.DepartmentID}, opts)
}

// ListAssigned returns tickets assigned to the calling support agent.
func (s *TicketService) ListAssigned(ctx context.Context, actor *domain.User) ([]domain.Ticket, error) {
	if err := auth.Authorize(actor, domain.RoleSetStaff); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.TicketFilter{AssigneeID: &actor.ID}, ListOptions{})
}

// ListAll returns the unscoped view with optional status and department
// filters. Admins and department managers only.
func (s *TicketService) ListAll(ctx context.Context, actor *domain.User, opts ListOptions) ([]domain.Ticket, error) {
	if err := auth.Authorize(actor, domain.RoleSetManagers); err != nil {
		return nil, err
	}
	filter := repository.TicketFilter{}
	if opts.DepartmentFilter != "" {
		dept, err := s.departments.GetByName(ctx, opts.DepartmentFilter)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("department", map[string]any{"name": opts.DepartmentFilter})
			}
			return nil, apperrors.MapError(err)
		}
		filter.DepartmentID = &dept.ID
	}
	return s.list(ctx, filter, opts)
}

// AssignSupport routes a ticket to a support agent and forces the
// status to In Progress regardless of its prior value. The assignee's
// role must be literally "support".
func (s *TicketService) AssignSupport(ctx context.Context, actor *domain.User, ticketID int64, supportEmail string) (*domain.Ticket, error) {
	if err := auth.Authorize(actor, domain.RoleSetManagers); err != nil {
		return nil, err
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	support, err := s.users.GetSupportByEmail(ctx, supportEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("support user", map[string]any{"email": supportEmail})
		}
		return nil, apperrors.MapError(err)
	}

	ticket.AssigneeID = &support.ID
	ticket.Status = domain.TicketStatusInProgress
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketAssignedPayload{
			AssigneeID:   ticket.AssigneeID,
			DepartmentID: ticket.DepartmentID,
		},
	})
	return ticket, nil
}

// AssignDepartment reroutes a ticket to a department and forces the
// status back to Open. Admin only.
func (s *TicketService) AssignDepartment(ctx context.Context, actor *domain.User, ticketID int64, departmentName string) (*domain.Ticket, error) {
	if err := auth.Authorize(actor, domain.RoleSetAdmin); err != nil {
		return nil, err
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	dept, err := s.departments.GetByName(ctx, departmentName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"name": departmentName})
		}
		return nil, apperrors.MapError(err)
	}

	ticket.DepartmentID = dept.ID
	ticket.Status = domain.TicketStatusOpen
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketAssignedPayload{
			AssigneeID:   ticket.AssigneeID,
			DepartmentID: ticket.DepartmentID,
		},
	})
	return ticket, nil
}

// UpdateStatus sets the ticket status. The target must be one of the
// four fixed values; any of them may follow any other, and assignment
// fields are untouched. Support, department and admin roles only.
func (s *TicketService) UpdateStatus(ctx context.Context, actor *domain.User, ticketID int64, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if err := auth.Authorize(actor, domain.RoleSetStaff); err != nil {
		return nil, err
	}
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	recipient := ""
	if creator, err := s.users.GetByID(ctx, ticket.CreatorID); err == nil {
		recipient = creator.Email
	} else {
		s.logger.Warn("status change recipient lookup failed",
			zap.Int64("ticket_id", ticket.ID), zap.Error(err))
	}

	s.publishEvent(events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus:      oldStatus,
			NewStatus:      newStatus,
			Title:          ticket.Title,
			Description:    ticket.Description,
			ResolverEmail:  actor.Email,
			RecipientEmail: recipient,
		},
	})
	return ticket, nil
}

// AddComment appends a comment. Allowed for the ticket creator and for
// support, department and admin roles.
func (s *TicketService) AddComment(ctx context.Context, actor *domain.User, ticketID int64, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > commentMaxLen {
		return nil, apperrors.NewValidationError("comment must be 1-1000 characters", nil)
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.CreatorID != actor.ID && !actor.Role.In(domain.RoleSetStaff) {
		return nil, apperrors.NewForbidden("not allowed to comment on this ticket")
	}

	comment := &domain.Comment{
		TicketID: ticket.ID,
		UserID:   actor.ID,
		Content:  content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketCommentAddedPayload{
			CommentID:   comment.ID,
			BodyPreview: preview(comment.Content, 120),
		},
	})
	return comment, nil
}

// Suggest exposes the advisor to authenticated callers.
func (s *TicketService) Suggest(ctx context.Context, title, description string) (advisor.Suggestion, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return advisor.Suggestion{}, apperrors.MapError(err)
	}
	names := make([]string, len(departments))
	for i := range departments {
		names[i] = departments[i].Name
	}
	return s.advisor.Suggest(ctx, title, description, names), nil
}

func (s *TicketService) getTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) list(ctx context.Context, filter repository.TicketFilter, opts ListOptions) ([]domain.Ticket, error) {
	if opts.StatusFilter != "" {
		status := domain.TicketStatus(opts.StatusFilter)
		if !domain.ValidStatus(status) {
			return nil, apperrors.NewValidationError("invalid status filter", map[string]any{"status": opts.StatusFilter})
		}
		filter.Status = &status
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if opts.SortByPriority {
		sortByPriority(tickets)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// sortByPriority orders High before Medium before Low before anything
// else; ties keep their original order.
func sortByPriority(tickets []domain.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		return domain.PriorityRank(tickets[i].Priority) < domain.PriorityRank(tickets[j].Priority)
	})
}

func (s *TicketService) publishEvent(event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(context.Background(), event)
}

// truncateRunes cuts on a rune boundary so multibyte text is never
// split mid-sequence.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) <= max {
		return body
	}
	if max <= 3 {
		return truncateRunes(body, max)
	}
	return truncateRunes(body, max-3) + "..."
}
