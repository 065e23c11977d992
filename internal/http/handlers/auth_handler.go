package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "swapboard/internal/log"
	"swapboard/internal/services"
	"swapboard/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

// POST /api/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "auth", err)
	}
	u, err := h.Auth.Register(in)
	if err != nil {
		return fail(c, "auth", err)
	}
	c.Status(fiber.StatusCreated)
	applog.Audit(c, "auth.register", map[string]any{"new_user_id": u.ID})
	return c.JSON(u)
}

// POST /api/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "auth", err)
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		applog.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": services.ErrBadCreds.Error()})
	}
	tok, u, err := h.Auth.Login(email, in.Password)
	if errors.Is(err, services.ErrBadCreds) {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return fail(c, "auth", err)
	}
	applog.Audit(c, "auth.login.success", map[string]any{"user": u.ID})
	return c.JSON(fiber.Map{"token": tok, "user": u})
}

// POST /api/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid, _ := c.Locals(sessionKey).(string)
	if err := h.Auth.Logout(sid); err != nil {
		return fail(c, "auth", err)
	}
	c.Status(fiber.StatusNoContent)
	applog.Audit(c, "auth.logout", nil)
	return nil
}

// GET /api/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u, err := h.Auth.Profile(currentUser(c).ID)
	if err != nil {
		return fail(c, "auth", err)
	}
	return c.JSON(u)
}
