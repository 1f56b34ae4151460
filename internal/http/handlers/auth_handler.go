package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "tienda/internal/log"
	"tienda/internal/services"
	"tienda/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	s := sess(c)
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	email, ok := validate.Email(req.Email)
	if !ok || req.Password == "" {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return badRequest(c, "invalid credentials payload")
	}

	user, err := h.Auth.Login(s, email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			applog.Security(c, "login.fail", map[string]any{"email": email})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": services.ErrBadCreds.Error()})
		}
		applog.Error(c, "login.backend", err, nil)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Servicio no disponible, intenta de nuevo"})
	}
	applog.Audit(c, "login.ok", map[string]any{"user_id": user.ID})
	return respond(c, s, fiber.Map{"user": user})
}

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	s := sess(c)
	var req registerReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	email, ok := validate.Email(req.Email)
	if !ok || len(req.Password) < 8 {
		applog.Security(c, "validation.fail", map[string]any{"field": "register"})
		return badRequest(c, "invalid registration payload")
	}

	user, err := h.Auth.Register(s, email, req.Password, req.Name)
	if err != nil {
		if services.IsValidation(err) {
			return badRequest(c, err.Error())
		}
		applog.Error(c, "register.backend", err, nil)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Servicio no disponible, intenta de nuevo"})
	}
	applog.Audit(c, "register.ok", map[string]any{"user_id": user.ID})
	return respond(c, s, fiber.Map{"user": user})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	s := sess(c)
	if err := h.Auth.Logout(s); err != nil {
		applog.Error(c, "logout", err, nil)
	}
	applog.Audit(c, "logout.ok", nil)
	return respond(c, s, fiber.Map{"ok": true})
}
