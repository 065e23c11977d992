package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"swapboard/internal/auth"
	"swapboard/internal/domain"
	applog "swapboard/internal/log"
	"swapboard/internal/services"
)

// statusOf maps the domain taxonomy onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, services.ErrBadCreds):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrPermissionDenied):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fail logs err under the given resource and writes the JSON error body.
// Internal errors are reported with a generic message only.
func fail(c *fiber.Ctx, resource string, err error) error {
	code := statusOf(err)
	c.Status(code)

	body := fiber.Map{"error": err.Error()}
	var de *domain.Error
	if errors.As(err, &de) && len(de.Fields) > 0 {
		body["fields"] = de.Fields
	}

	switch code {
	case fiber.StatusInternalServerError:
		applog.Error(c, "server.error", err, map[string]any{"resource": resource})
		return c.JSON(fiber.Map{"error": "Something went wrong. Please try again."})
	case fiber.StatusForbidden:
		applog.Security(c, "access.denied."+resource, map[string]any{"reason": err.Error()})
	case fiber.StatusUnauthorized:
		applog.Security(c, "auth.fail", map[string]any{"resource": resource})
	case fiber.StatusBadRequest:
		applog.Security(c, "validation.fail", map[string]any{"resource": resource, "fields": body["fields"]})
	}
	return c.JSON(body)
}

// ErrorHandler is the app-wide fallback for errors returned by handlers and
// middleware.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		c.Status(fe.Code)
		if fe.Code >= fiber.StatusInternalServerError {
			applog.Error(c, "server.error", err, nil)
			return c.JSON(fiber.Map{"error": "Something went wrong. Please try again."})
		}
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return fail(c, "server", err)
}

func badBody(c *fiber.Ctx, resource string, err error) error {
	applog.Security(c, "validation.fail", map[string]any{"resource": resource, "body": err.Error()})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
}
