package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"swapboard/internal/domain"
	applog "swapboard/internal/log"
	"swapboard/internal/services"
	"swapboard/internal/validate"
)

type AdHandler struct {
	Ads *services.AdService
}

// GET /api/ads?search=&category=&condition=
func (h *AdHandler) List(c *fiber.Ctx) error {
	f, err := adFilter(c)
	if err != nil {
		return fail(c, "ad", err)
	}
	ads, err := h.Ads.List(f)
	if err != nil {
		return fail(c, "ad", err)
	}
	return c.JSON(fiber.Map{"count": len(ads), "results": ads})
}

// adFilter reads the listing query shared by the public and admin browse.
func adFilter(c *fiber.Ctx) (domain.AdFilter, error) {
	var f domain.AdFilter
	if raw := c.Query("search"); strings.TrimSpace(raw) != "" {
		f.Search, _ = validate.Q(raw)
	}
	f.Category = strings.TrimSpace(c.Query("category"))
	if raw := strings.TrimSpace(c.Query("condition")); raw != "" {
		if _, ok := domain.ParseCondition(domain.Fold(raw)); !ok {
			return f, &domain.Error{
				Kind:   domain.ErrValidation,
				Msg:    "invalid filter",
				Fields: map[string]string{"condition": "must be one of: new used broken"},
			}
		}
		f.Condition = raw
	}
	return f, nil
}

// POST /api/ads
func (h *AdHandler) Create(c *fiber.Ctx) error {
	var in services.AdInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "ad", err)
	}
	ad, err := h.Ads.Create(currentUser(c), in)
	if err != nil {
		return fail(c, "ad", err)
	}
	c.Status(fiber.StatusCreated)
	applog.Audit(c, "ad.create", map[string]any{"ad_id": ad.ID})
	return c.JSON(ad)
}

// GET /api/ads/:id
func (h *AdHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "ad not found"})
	}
	ad, err := h.Ads.Get(id)
	if err != nil {
		return fail(c, "ad", err)
	}
	return c.JSON(ad)
}

// PATCH /api/ads/:id
func (h *AdHandler) Patch(c *fiber.Ctx) error { return h.update(c, false) }

// PUT /api/ads/:id
func (h *AdHandler) Put(c *fiber.Ctx) error { return h.update(c, true) }

func (h *AdHandler) update(c *fiber.Ctx, replace bool) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "ad not found"})
	}
	var patch services.AdPatch
	if err := c.BodyParser(&patch); err != nil {
		return badBody(c, "ad", err)
	}
	ad, err := h.Ads.Update(currentUser(c), id, patch, replace)
	if err != nil {
		return fail(c, "ad", err)
	}
	applog.Audit(c, "ad.update", map[string]any{"ad_id": ad.ID, "replace": replace})
	return c.JSON(ad)
}

// DELETE /api/ads/:id
func (h *AdHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "ad not found"})
	}
	if err := h.Ads.Delete(currentUser(c), id); err != nil {
		return fail(c, "ad", err)
	}
	c.Status(fiber.StatusNoContent)
	applog.Audit(c, "ad.delete", map[string]any{"ad_id": id})
	return nil
}
