package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "tienda/internal/log"
)

// RequireUser guards routes that only make sense for an authenticated
// session (order history, checkout).
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := sess(c)
		if s == nil || !s.Authenticated() {
			applog.Security(c, "access.denied.login_required", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Debes iniciar sesión para continuar"})
		}
		return c.Next()
	}
}
