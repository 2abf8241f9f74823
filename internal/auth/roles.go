package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// RequireManager ensures the caller is a manager.
func RequireManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.IsManager() {
			return apperrors.NewForbidden("manager role required")
		}
		return c.Next()
	}
}

// RequireAnyRole ensures caller is authenticated (manager or employee).
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
