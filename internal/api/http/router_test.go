package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/campus-helpdesk/internal/advisor"
	"github.com/spec-kit/campus-helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/campus-helpdesk/internal/auth"
	"github.com/spec-kit/campus-helpdesk/internal/config"
	"github.com/spec-kit/campus-helpdesk/internal/domain"
	"github.com/spec-kit/campus-helpdesk/internal/observability"
	"github.com/spec-kit/campus-helpdesk/internal/repository"
	"github.com/spec-kit/campus-helpdesk/internal/service"
)

// memUserRepo is the minimal user store the auth middleware needs.
type memUserRepo struct {
	byEmail map[string]*domain.User
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = int64(len(r.byEmail) + 1)
	r.byEmail[user.Email] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetSupportByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.byEmail[email]; ok && u.Role == domain.RoleSupport {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) UpdatePassword(_ context.Context, _ int64, _ string) error { return nil }

type memTicketRepo struct {
	last *domain.Ticket
}

func (r *memTicketRepo) Create(_ context.Context, t *domain.Ticket) error {
	t.ID = 1
	r.last = t
	return nil
}

func (r *memTicketRepo) Update(_ context.Context, _ *domain.Ticket) error { return nil }

func (r *memTicketRepo) GetByID(_ context.Context, _ int64) (*domain.Ticket, error) {
	return nil, pgx.ErrNoRows
}

func (r *memTicketRepo) ListWithFilter(_ context.Context, _ repository.TicketFilter) ([]domain.Ticket, error) {
	return []domain.Ticket{}, nil
}

type noopCommentRepo struct{}

func (noopCommentRepo) Create(_ context.Context, c *domain.Comment) error { c.ID = 1; return nil }
func (noopCommentRepo) ListByTicket(_ context.Context, _ int64) ([]domain.Comment, error) {
	return []domain.Comment{}, nil
}

type memDepartmentRepo struct{}

func (memDepartmentRepo) GetByID(_ context.Context, id int64) (*domain.Department, error) {
	return &domain.Department{ID: id, Name: domain.SeedDepartments[0]}, nil
}

func (memDepartmentRepo) GetByName(_ context.Context, name string) (*domain.Department, error) {
	for i, seeded := range domain.SeedDepartments {
		if seeded == name {
			return &domain.Department{ID: int64(i + 1), Name: name}, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (memDepartmentRepo) List(_ context.Context) ([]domain.Department, error) {
	out := make([]domain.Department, 0, len(domain.SeedDepartments))
	for i, name := range domain.SeedDepartments {
		out = append(out, domain.Department{ID: int64(i + 1), Name: name})
	}
	return out, nil
}

// ruleAdvisor serves the deterministic suggestion in tests.
type ruleAdvisor struct{}

func (ruleAdvisor) Suggest(_ context.Context, title, description string, departments []string) advisor.Suggestion {
	return advisor.Fallback(title, description, departments)
}

type testEnv struct {
	app     *fiber.App
	tokens  *auth.TokenManager
	users   *memUserRepo
	tickets *memTicketRepo
	metrics *observability.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hash, err := auth.HashPassword("sifre123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	users := &memUserRepo{byEmail: map[string]*domain.User{
		"ayse@uni.edu":   {ID: 1, Email: "ayse@uni.edu", PasswordHash: hash, Role: domain.RoleStudent},
		"destek@uni.edu": {ID: 2, Email: "destek@uni.edu", PasswordHash: hash, Role: domain.RoleSupport},
		"admin@uni.edu":  {ID: 3, Email: "admin@uni.edu", PasswordHash: hash, Role: domain.RoleAdmin},
	}}

	authService := service.NewAuthService(config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 30,
			BcryptCost:            bcrypt.MinCost,
		},
	}, service.AuthDependencies{
		UserRepo:       users,
		DepartmentRepo: memDepartmentRepo{},
	})

	tickets := &memTicketRepo{}
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     tickets,
		CommentRepo:    noopCommentRepo{},
		UserRepo:       users,
		DepartmentRepo: memDepartmentRepo{},
		Advisor:        ruleAdvisor{},
		Logger:         zap.NewNop(),
	})

	metrics := observability.NewMetrics()
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", nil, nil),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), users),
	})
	return &testEnv{
		app:     app,
		tokens:  authService.TokenManager(),
		users:   users,
		tickets: tickets,
		metrics: metrics,
	}
}

func (e *testEnv) request(t *testing.T, method, path, email string) *http.Response {
	t.Helper()
	return e.requestJSON(t, method, path, email, "")
}

func (e *testEnv) requestJSON(t *testing.T, method, path, email, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		user, err := e.users.GetByEmail(context.Background(), email)
		if err != nil {
			t.Fatalf("test user %s missing", email)
		}
		token, _, err := e.tokens.GenerateToken(user)
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func decodeErrorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body.Error.Code
}

func TestMissingTokenIsUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/v1/tickets/my", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if got := resp.Header.Get("WWW-Authenticate"); got != "Bearer" {
		t.Fatalf("WWW-Authenticate = %q, want Bearer", got)
	}
	if code := decodeErrorCode(t, resp); code != "UNAUTHENTICATED" {
		t.Fatalf("code = %q", code)
	}
}

func TestGarbageTokenIsUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets/my", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestWrongRoleIsForbidden(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		method string
		path   string
		email  string
		want   int
	}{
		{"student cannot list all", http.MethodGet, "/api/v1/tickets", "ayse@uni.edu", http.StatusForbidden},
		{"student cannot view department queue", http.MethodGet, "/api/v1/tickets/department", "ayse@uni.edu", http.StatusForbidden},
		{"student cannot change status", http.MethodPut, "/api/v1/tickets/1/status", "ayse@uni.edu", http.StatusForbidden},
		{"support cannot assign", http.MethodPut, "/api/v1/tickets/1/assign", "destek@uni.edu", http.StatusForbidden},
		{"support cannot reroute department", http.MethodPut, "/api/v1/tickets/1/assign-department", "destek@uni.edu", http.StatusForbidden},
		{"support may view assigned queue", http.MethodGet, "/api/v1/tickets/support", "destek@uni.edu", http.StatusOK},
		{"admin may list all", http.MethodGet, "/api/v1/tickets", "admin@uni.edu", http.StatusOK},
		{"any role lists own tickets", http.MethodGet, "/api/v1/tickets/my", "ayse@uni.edu", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.request(t, tc.method, tc.path, tc.email)
			if resp.StatusCode != tc.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.want)
			}
			if tc.want == http.StatusForbidden {
				if code := decodeErrorCode(t, resp); code != "FORBIDDEN" {
					t.Fatalf("code = %q", code)
				}
			}
		})
	}
}

func TestCreateTicketDocumentedFieldNames(t *testing.T) {
	env := newTestEnv(t)

	resp := env.requestJSON(t, http.MethodPost, "/api/v1/tickets", "ayse@uni.edu",
		`{"description":"projeksiyon calismiyor","department_name":"Yapi Isleri"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var body struct {
		Data struct {
			DepartmentID int64 `json:"department_id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data.DepartmentID != 2 {
		t.Fatalf("department_id = %d, want 2 (Yapi Isleri)", body.Data.DepartmentID)
	}
	if env.tickets.last == nil || env.tickets.last.DepartmentID != 2 {
		t.Fatalf("persisted ticket = %+v, want routed to Yapi Isleri", env.tickets.last)
	}
}

func TestLoginDocumentedFieldName(t *testing.T) {
	env := newTestEnv(t)

	resp := env.requestJSON(t, http.MethodPost, "/api/v1/auth/login", "",
		`{"username":"ayse@uni.edu","password":"sifre123"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	claims, err := env.tokens.ParseToken(body.Data.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Subject != "ayse@uni.edu" {
		t.Fatalf("subject = %q", claims.Subject)
	}
}

func TestFailedRequestsRecordRealStatus(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/v1/tickets/my", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if got := env.metrics.RequestCount("/api/v1/tickets/my", http.MethodGet, http.StatusUnauthorized); got != 1 {
		t.Fatalf("401 request count = %d, want 1", got)
	}
	if got := env.metrics.RequestCount("/api/v1/tickets/my", http.MethodGet, http.StatusOK); got != 0 {
		t.Fatalf("200 request count = %d, want 0 for a failed request", got)
	}
}

func TestHealthLive(t *testing.T) {
	env := newTestEnv(t)
	resp := env.request(t, http.MethodGet, "/health/live", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
