package handlers

import (
	"mathiphone/internal/catalog"
	"mathiphone/internal/currency"
	"mathiphone/internal/domain"
	"mathiphone/internal/log"
	"mathiphone/internal/services"
	"mathiphone/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
	Rates   *services.RateService
	Compare *services.CompareService
}

// currentRates returns the stored table, or nil (every conversion shows 0) when it cannot be read.
func currentRates(c *fiber.Ctx, rs *services.RateService) *domain.ExchangeRates {
	r, err := rs.Current()
	if err != nil {
		log.Error(c, "rates.load.fail", err, nil)
		return nil
	}
	return &r
}

// filterState reads and validates the filter form. On failure it names the bad field.
func filterState(c *fiber.Ctx) (catalog.FilterState, string) {
	st := catalog.DefaultFilterState()
	var ok bool
	if st.Category, ok = validate.Category(c.Query("category")); !ok {
		return catalog.DefaultFilterState(), "category"
	}
	if st.Model, ok = validate.Facet(c.Query("model"), func(m string) bool { return catalog.ValidModel(st.Category, m) }); !ok {
		return catalog.DefaultFilterState(), "model"
	}
	if st.Type, ok = validate.Facet(c.Query("type"), func(t string) bool { return catalog.ValidType(st.Category, t) }); !ok {
		return catalog.DefaultFilterState(), "type"
	}
	if st.Condition, ok = validate.Condition(c.Query("condition")); !ok {
		return catalog.DefaultFilterState(), "condition"
	}
	if st.Battery, ok = validate.Battery(c.Query("battery")); !ok {
		return catalog.DefaultFilterState(), "battery"
	}
	if st.Query, ok = validate.Q(c.Query("q")); !ok {
		return catalog.DefaultFilterState(), "q"
	}
	return st, ""
}

func (h *CatalogHandler) page(c *fiber.Ctx, st catalog.FilterState, products []domain.Product, extra fiber.Map) fiber.Map {
	code, ok := validate.Currency(c.Query("currency"))
	if !ok {
		code = currency.ARS
	}
	inCompare := map[string]bool{}
	if sid := c.Cookies("sid"); sid != "" {
		if ps, err := h.Compare.Products(sid); err == nil {
			for _, p := range ps {
				inCompare[p.ID] = true
			}
		}
	}
	data := fiber.Map{
		"F":          st,
		"Products":   products,
		"Count":      len(products),
		"Categories": domain.Categories,
		"Conditions": domain.Conditions,
		"Buckets":    catalog.BatteryBuckets,
		"Models":     catalog.Models(st.Category),
		"Types":      catalog.Types(st.Category),
		"Currency":   code,
		"Currencies": currency.Currencies,
		"Rates":      currentRates(c, h.Rates),
		"InCompare":  inCompare,
		"CompareLen": len(inCompare),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// GET / and GET /search
func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	st, bad := filterState(c)
	if bad != "" {
		log.Security(c, "validation.fail", map[string]any{"field": bad, "value": c.Query(bad)})
		c.Status(fiber.StatusBadRequest)
		return render(c, "home", h.page(c, st, []domain.Product{}, fiber.Map{
			"Err": "Filtro inválido: revisá los valores elegidos",
		}))
	}
	products, err := h.Catalog.Browse(st)
	if err != nil {
		log.Error(c, "catalog.list.fail", err, nil)
		return render(c, "home", h.page(c, st, []domain.Product{}, fiber.Map{
			"Err": "No pudimos cargar los productos. Intentá de nuevo.",
		}))
	}
	return render(c, "home", h.page(c, st, products, nil))
}
