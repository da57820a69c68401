package handlers

import (
	"errors"

	"mathiphone/internal/currency"
	"mathiphone/internal/log"
	"mathiphone/internal/services"
	"mathiphone/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Rates   *services.RateService
}

type conversion struct {
	Currency currency.Currency
	Amount   string
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, fiber.StatusNotFound, "Este producto ya no está disponible")
	}
	p, err := h.Catalog.GetProduct(id)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c, fiber.StatusNotFound, "Este producto ya no está disponible")
	}
	if err != nil {
		return err
	}
	code, ok := validate.Currency(c.Query("currency"))
	if !ok {
		code = currency.ARS
	}
	rates := currentRates(c, h.Rates)
	convs := make([]conversion, 0, len(currency.Currencies))
	for _, cur := range currency.Currencies {
		convs = append(convs, conversion{Currency: cur, Amount: currency.Format(currency.Convert(p.PriceARS, rates, cur.Code), cur.Code)})
	}
	return render(c, "product", fiber.Map{
		"P":           p,
		"Rates":       rates,
		"Currency":    code,
		"Currencies":  currency.Currencies,
		"Conversions": convs,
	})
}
