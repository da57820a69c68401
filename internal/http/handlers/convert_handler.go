package handlers

import (
	"math"
	"strconv"
	"strings"

	"mathiphone/internal/currency"
	"mathiphone/internal/log"
	"mathiphone/internal/services"
	"mathiphone/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// RefreshSeconds is how often the converter page reloads its rates.
const RefreshSeconds = 300

type ConvertHandler struct {
	Rates *services.RateService
}

type conversionResult struct {
	PriceARS  float64 `json:"price_ars"`
	Currency  string  `json:"currency"`
	Amount    float64 `json:"amount"`
	Formatted string  `json:"formatted"`
	RatesAt   string  `json:"rates_timestamp,omitempty"`
}

func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil && f >= 0 && !math.IsInf(f, 0)
}

func (h *ConvertHandler) convert(c *fiber.Ctx) (conversionResult, bool) {
	price, okP := parsePrice(c.Query("price"))
	code, okC := validate.Currency(c.Query("currency"))
	if !okP || !okC {
		log.Security(c, "validation.fail", map[string]any{"field": "convert", "price": c.Query("price"), "currency": c.Query("currency")})
		return conversionResult{}, false
	}
	rates := currentRates(c, h.Rates)
	amount := currency.Convert(price, rates, code)
	res := conversionResult{PriceARS: price, Currency: code, Amount: amount, Formatted: currency.Format(amount, code)}
	if rates != nil {
		res.RatesAt = rates.UpdatedAt
	}
	return res, true
}

// GET /convert renders the converter fragment.
func (h *ConvertHandler) Page(c *fiber.Ctx) error {
	res, ok := h.convert(c)
	if !ok {
		c.Status(fiber.StatusBadRequest)
		return render(c, "convert", fiber.Map{"Err": "Precio o moneda inválidos", "Currencies": currency.Currencies})
	}
	return render(c, "convert", fiber.Map{
		"R":          res,
		"Currencies": currency.Currencies,
		"Refresh":    RefreshSeconds,
	})
}

// GET /api/v1/convert
func (h *ConvertHandler) JSON(c *fiber.Ctx) error {
	res, ok := h.convert(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid price or currency"})
	}
	return c.JSON(res)
}
