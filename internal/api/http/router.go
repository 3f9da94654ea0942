package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/campus-helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/campus-helpdesk/internal/auth"
	"github.com/spec-kit/campus-helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Role gates at the router reject the
// obviously wrong callers early; ownership checks stay in the services.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Get("/me", cfg.Users.Me)
	authProtected.Put("/password", cfg.Users.ChangePassword)
	authProtected.Put("/users/:id/password", auth.RequireRoles(domain.RoleSetAdmin), cfg.Users.ResetPassword)

	tickets := v1.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", auth.RequireRoles(domain.RoleSetManagers), cfg.Tickets.ListAll)
	tickets.Get("/my", cfg.Tickets.ListMine)
	tickets.Get("/department", auth.RequireRoles(domain.RoleSetManagers), cfg.Tickets.ListDepartment)
	tickets.Get("/support", auth.RequireRoles(domain.RoleSetStaff), cfg.Tickets.ListAssigned)
	tickets.Get("/suggest", cfg.Tickets.Suggest)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id/assign", auth.RequireRoles(domain.RoleSetManagers), cfg.Tickets.AssignSupport)
	tickets.Put("/:id/assign-department", auth.RequireRoles(domain.RoleSetAdmin), cfg.Tickets.AssignDepartment)
	tickets.Put("/:id/status", auth.RequireRoles(domain.RoleSetStaff), cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/comment", cfg.Tickets.AddComment)
}
