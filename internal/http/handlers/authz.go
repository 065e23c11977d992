package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"swapboard/internal/domain"
	applog "swapboard/internal/log"
	"swapboard/internal/services"
)

const sessionKey = "sid"

// Authenticate attaches the bearer token's user to the request when a token
// is present. Requests without Authorization pass through anonymously; a
// malformed or revoked token is rejected outright.
func Authenticate(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get(fiber.HeaderAuthorization)
		if h == "" {
			return c.Next()
		}
		scheme, tok, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
			applog.Security(c, "auth.header.invalid", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization header format"})
		}
		u, sid, err := auth.Authenticate(strings.TrimSpace(tok))
		if err != nil {
			applog.Security(c, "auth.token.invalid", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		c.Locals(applog.UserKey, u)
		c.Locals(sessionKey, sid)
		return c.Next()
	}
}

// RequireUser rejects anonymous callers.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		return c.Next()
	}
}

// RequireAdmin enforces the ADMIN role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		if !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals(applog.UserKey).(*domain.User)
	return u
}
