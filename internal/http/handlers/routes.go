package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "swapboard/internal/log"
)

// Routes mounts the JSON API under /api.
func Routes(app *fiber.App, d *Deps) {
	api := app.Group("/api", Authenticate(d.AuthSvc))

	// Auth (login throttled)
	api.Post("/register", d.AuthHandler.Register)
	api.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, please try again later"})
		},
	}), d.AuthHandler.Login)
	api.Post("/logout", RequireUser(), d.AuthHandler.Logout)
	api.Get("/me", RequireUser(), d.AuthHandler.Me)

	// Ads
	api.Get("/ads", d.AdHandler.List)
	api.Post("/ads", RequireUser(), d.AdHandler.Create)
	api.Get("/ads/:id", d.AdHandler.Detail)
	api.Patch("/ads/:id", RequireUser(), d.AdHandler.Patch)
	api.Put("/ads/:id", RequireUser(), d.AdHandler.Put)
	api.Delete("/ads/:id", RequireUser(), d.AdHandler.Delete)

	// Proposals
	api.Post("/proposals", RequireUser(), d.ProposalHandler.Create)
	api.Get("/proposals/list", RequireUser(), d.ProposalHandler.List)
	api.Patch("/proposals/:id", RequireUser(), d.ProposalHandler.Update)
	api.Put("/proposals/:id", RequireUser(), d.ProposalHandler.Update)

	// Admin
	admin := api.Group("/admin", RequireAdmin())
	admin.Get("/ads", d.AdminHandler.BrowseAds)
	admin.Get("/proposals", d.AdminHandler.BrowseProposals)
}
