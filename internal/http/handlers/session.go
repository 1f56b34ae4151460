package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tienda/internal/session"
)

// SessionMiddleware pins a sid cookie on every visitor and parks the session
// object in Locals so handlers never reach for ambient state.
func SessionMiddleware(m *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			sid = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     "sid",
				Value:    sid,
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
				Secure:   false, // enable true behind TLS
			})
		}
		c.Locals("sess", m.Get(sid))
		return c.Next()
	}
}

func sess(c *fiber.Ctx) *session.Session {
	s, _ := c.Locals("sess").(*session.Session)
	return s
}

// respond wraps a JSON payload with the session's drained notifications.
func respond(c *fiber.Ctx, s *session.Session, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if s != nil {
		data["notifications"] = s.DrainNotifications()
	}
	return c.JSON(data)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
