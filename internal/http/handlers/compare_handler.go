package handlers

import (
	"errors"

	"mathiphone/internal/compare"
	applog "mathiphone/internal/log"
	"mathiphone/internal/services"
	"mathiphone/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CompareHandler struct {
	Compare *services.CompareService
	Rates   *services.RateService
}

var noticeCodes = map[string]error{
	"full":      compare.ErrFull,
	"duplicate": compare.ErrDuplicate,
}

// GET /compare
func (h *CompareHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	items, err := h.Compare.Products(sid)
	if err != nil {
		applog.Error(c, "compare.list.fail", err, nil)
		return notFound(c, fiber.StatusInternalServerError, "No pudimos cargar la comparación")
	}
	notice := ""
	if e, ok := noticeCodes[c.Query("notice")]; ok {
		notice = compare.Notice(e)
	}
	return render(c, "compare", fiber.Map{
		"Items":  items,
		"Max":    compare.MaxItems,
		"Notice": notice,
		"Rates":  currentRates(c, h.Rates),
	})
}

// POST /compare
func (h *CompareHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	pid, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	added, err := h.Compare.Add(sid, pid)
	switch {
	case errors.Is(err, compare.ErrFull):
		return c.Redirect("/compare?notice=full")
	case errors.Is(err, compare.ErrDuplicate):
		return c.Redirect("/compare?notice=duplicate")
	case errors.Is(err, services.ErrNotFound):
		return notFound(c, fiber.StatusNotFound, "Este producto ya no está disponible")
	case err != nil:
		applog.Error(c, "compare.add.fail", err, map[string]any{"product": pid})
		return c.Status(fiber.StatusInternalServerError).SendString("No pudimos agregar el producto")
	}
	applog.Info(c, "compare.add", map[string]any{"product": pid, "added": added})
	return c.Redirect(back(c, "/compare"))
}

// POST /compare/remove
func (h *CompareHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	pid, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	if err := h.Compare.Remove(sid, pid); err != nil {
		applog.Error(c, "compare.remove.fail", err, map[string]any{"product": pid})
		return c.Status(fiber.StatusInternalServerError).SendString("No pudimos quitar el producto")
	}
	return c.Redirect("/compare")
}

// POST /compare/clear
func (h *CompareHandler) Clear(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Compare.Clear(sid); err != nil {
		applog.Error(c, "compare.clear.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("No pudimos limpiar la comparación")
	}
	return c.Redirect("/compare")
}
