package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/campus-helpdesk/internal/advisor"
	"github.com/spec-kit/campus-helpdesk/internal/domain"
	"github.com/spec-kit/campus-helpdesk/internal/events"
	"github.com/spec-kit/campus-helpdesk/internal/repository"
)

// =============================================================================
// Mock repositories
// =============================================================================

type mockUserRepository struct {
	createFunc            func(ctx context.Context, user *domain.User) error
	getByIDFunc           func(ctx context.Context, id int64) (*domain.User, error)
	getByEmailFunc        func(ctx context.Context, email string) (*domain.User, error)
	getSupportByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	updatePasswordFunc    func(ctx context.Context, id int64, hash string) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepository) GetSupportByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getSupportByEmailFunc != nil {
		return m.getSupportByEmailFunc(ctx, email)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	if m.updatePasswordFunc != nil {
		return m.updatePasswordFunc(ctx, id, hash)
	}
	return nil
}

type mockTicketRepository struct {
	createFunc func(ctx context.Context, ticket *domain.Ticket) error
	updateFunc func(ctx context.Context, ticket *domain.Ticket) error
	getFunc    func(ctx context.Context, id int64) (*domain.Ticket, error)
	listFunc   func(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error)
}

func (m *mockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, ticket)
	}
	ticket.ID = 1
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	return nil
}

func (m *mockTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, ticket)
	}
	ticket.UpdatedAt = time.Now()
	return nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockTicketRepository) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, errors.New("not implemented")
}

type mockCommentRepository struct {
	createFunc func(ctx context.Context, comment *domain.Comment) error
	listFunc   func(ctx context.Context, ticketID int64) ([]domain.Comment, error)
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, comment)
	}
	comment.ID = 1
	comment.CreatedAt = time.Now()
	return nil
}

func (m *mockCommentRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Comment, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, ticketID)
	}
	return []domain.Comment{}, nil
}

type mockDepartmentRepository struct {
	departments []domain.Department
}

func newMockDepartmentRepository() *mockDepartmentRepository {
	repo := &mockDepartmentRepository{}
	for i, name := range domain.SeedDepartments {
		repo.departments = append(repo.departments, domain.Department{ID: int64(i + 1), Name: name})
	}
	return repo
}

func (m *mockDepartmentRepository) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	for i := range m.departments {
		if m.departments[i].ID == id {
			return &m.departments[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockDepartmentRepository) GetByName(ctx context.Context, name string) (*domain.Department, error) {
	for i := range m.departments {
		if m.departments[i].Name == name {
			return &m.departments[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockDepartmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	return m.departments, nil
}

// =============================================================================
// Advisor and dispatcher stubs
// =============================================================================

type stubAdvisor struct {
	suggestFunc func(ctx context.Context, title, description string, departments []string) advisor.Suggestion
}

func (s *stubAdvisor) Suggest(ctx context.Context, title, description string, departments []string) advisor.Suggestion {
	if s.suggestFunc != nil {
		return s.suggestFunc(ctx, title, description, departments)
	}
	return advisor.Fallback(title, description, departments)
}

// capturingDispatcher records published events synchronously.
type capturingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *capturingDispatcher) byType(t events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
