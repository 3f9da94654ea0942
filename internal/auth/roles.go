package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/campus-helpdesk/internal/domain"
	apperrors "github.com/spec-kit/campus-helpdesk/pkg/util"
)

// RequireRoles gates a route to the given role set. A missing principal
// yields an authentication failure, an insufficient role a forbidden
// outcome; the two are never conflated.
func RequireRoles(allowed domain.RoleSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("authentication required")
		}
		if !user.Role.In(allowed) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// Authorize is the pure role check behind RequireRoles, usable from
// services that gate per-operation rather than per-route.
func Authorize(user *domain.User, allowed domain.RoleSet) error {
	if user == nil {
		return apperrors.NewUnauthenticated("authentication required")
	}
	if !user.Role.In(allowed) {
		return apperrors.NewForbidden("insufficient role")
	}
	return nil
}
