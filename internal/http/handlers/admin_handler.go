package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "swapboard/internal/log"
	"swapboard/internal/services"
	"swapboard/internal/validate"
)

// AdminHandler serves the read-only administrative browse.
type AdminHandler struct {
	Ads       *services.AdService
	Proposals *services.ProposalService
}

// GET /api/admin/ads?search=&category=&condition=
func (h *AdminHandler) BrowseAds(c *fiber.Ctx) error {
	f, err := adFilter(c)
	if err != nil {
		return fail(c, "admin", err)
	}
	ads, err := h.Ads.List(f)
	if err != nil {
		return fail(c, "admin", err)
	}
	applog.Info(c, "admin.ads.list", map[string]any{"count": len(ads)})
	return c.JSON(fiber.Map{"count": len(ads), "results": ads})
}

// GET /api/admin/proposals?status=&search=
func (h *AdminHandler) BrowseProposals(c *fiber.Ctx) error {
	q := services.ProposalQuery{
		AdSender:   c.Query("ad_sender"),
		AdReceiver: c.Query("ad_receiver"),
		Status:     c.Query("status"),
	}
	if raw := c.Query("search"); strings.TrimSpace(raw) != "" {
		q.Search, _ = validate.Q(raw)
	}
	ps, err := h.Proposals.ListAll(q)
	if err != nil {
		return fail(c, "admin", err)
	}
	applog.Info(c, "admin.proposals.list", map[string]any{"count": len(ps)})
	return c.JSON(fiber.Map{"count": len(ps), "results": ps})
}
