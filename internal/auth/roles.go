package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobfinder-service/internal/domain"
	apperrors "github.com/spec-kit/jobfinder-service/pkg/util"
)

// RequireRole authorizes the authenticated principal against an allowed role
// set, case-insensitively. It composes after AuthMiddleware.Handle; an empty
// allowed set only requires authentication.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowed) == 0 {
			return c.Next()
		}
		if !principal.HasRole(allowed...) {
			return apperrors.NewInsufficientPermission("you do not have permission to perform this action")
		}
		return c.Next()
	}
}
