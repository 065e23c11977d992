package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "swapboard/internal/log"
	"swapboard/internal/services"
	"swapboard/internal/validate"
)

type ProposalHandler struct {
	Proposals *services.ProposalService
}

// POST /api/proposals
func (h *ProposalHandler) Create(c *fiber.Ctx) error {
	var in services.ProposalInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "proposal", err)
	}
	p, err := h.Proposals.Create(currentUser(c), in)
	if err != nil {
		return fail(c, "proposal", err)
	}
	c.Status(fiber.StatusCreated)
	applog.Audit(c, "proposal.create", map[string]any{
		"proposal_id": p.ID,
		"ad_sender":   p.AdSender,
		"ad_receiver": p.AdReceiver,
	})
	return c.JSON(p)
}

// GET /api/proposals/list?ad_sender=&ad_receiver=&status=
func (h *ProposalHandler) List(c *fiber.Ctx) error {
	q := services.ProposalQuery{
		AdSender:   c.Query("ad_sender"),
		AdReceiver: c.Query("ad_receiver"),
		Status:     c.Query("status"),
	}
	ps, err := h.Proposals.ListVisible(currentUser(c), q)
	if err != nil {
		return fail(c, "proposal", err)
	}
	return c.JSON(fiber.Map{"count": len(ps), "results": ps})
}

// PATCH|PUT /api/proposals/:id
func (h *ProposalHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "proposal not found"})
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "proposal", err)
	}
	p, err := h.Proposals.UpdateStatus(currentUser(c), id, in.Status)
	if err != nil {
		return fail(c, "proposal", err)
	}
	applog.Audit(c, "proposal.status", map[string]any{"proposal_id": p.ID, "status": p.Status})
	return c.JSON(p)
}
