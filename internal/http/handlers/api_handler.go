package handlers

import (
	"errors"

	"mathiphone/internal/catalog"
	"mathiphone/internal/domain"
	applog "mathiphone/internal/log"
	"mathiphone/internal/pricing"
	"mathiphone/internal/services"
	"mathiphone/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// APIHandler serves /api/v1.
type APIHandler struct {
	Catalog  *services.CatalogService
	Products *services.AdminProductService
	Rates    *services.RateService
}

func jsonErr(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// GET /api/v1/products
func (h *APIHandler) ListProducts(c *fiber.Ctx) error {
	q := catalog.ParseQuery(c.Queries())
	if _, ok := validate.Q(q.Query); !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "search", "api": true})
		return jsonErr(c, fiber.StatusBadRequest, "invalid search text")
	}
	products, err := h.Catalog.Search(q)
	if err != nil {
		applog.Error(c, "api.products.list.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "could not load products")
	}
	return c.JSON(products)
}

// GET /api/v1/products/:id
func (h *APIHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonErr(c, fiber.StatusNotFound, "product not found")
	}
	p, err := h.Catalog.GetProduct(id)
	if errors.Is(err, services.ErrNotFound) {
		return jsonErr(c, fiber.StatusNotFound, "product not found")
	}
	if err != nil {
		applog.Error(c, "api.products.get.fail", err, map[string]any{"product": id})
		return jsonErr(c, fiber.StatusInternalServerError, "could not load product")
	}
	return c.JSON(p)
}

func (h *APIHandler) saveErr(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidProduct):
		applog.Security(c, "validation.fail", map[string]any{"field": "product", "api": true, "reason": userMessage(err)})
		return jsonErr(c, fiber.StatusBadRequest, userMessage(err))
	case errors.Is(err, services.ErrNotFound):
		return jsonErr(c, fiber.StatusNotFound, "product not found")
	}
	applog.Error(c, action, err, nil)
	return jsonErr(c, fiber.StatusInternalServerError, "could not save product")
}

// POST /api/v1/products
func (h *APIHandler) CreateProduct(c *fiber.Ctx) error {
	var p domain.Product
	if err := c.BodyParser(&p); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	p.ID = ""
	if err := h.Products.Create(&p); err != nil {
		return h.saveErr(c, "api.products.create.fail", err)
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product": p.ID, "category": p.Category, "api": true})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/v1/products/:id
func (h *APIHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonErr(c, fiber.StatusNotFound, "product not found")
	}
	var p domain.Product
	if err := c.BodyParser(&p); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	p.ID = id
	if err := h.Products.Update(&p); err != nil {
		return h.saveErr(c, "api.products.update.fail", err)
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product": id, "category": p.Category, "api": true})
	saved, err := h.Catalog.GetProduct(id)
	if err != nil {
		return c.JSON(p)
	}
	return c.JSON(saved)
}

// DELETE /api/v1/products/:id
func (h *APIHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonErr(c, fiber.StatusNotFound, "product not found")
	}
	if err := h.Products.Delete(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return jsonErr(c, fiber.StatusNotFound, "product not found")
		}
		applog.Error(c, "api.products.delete.fail", err, map[string]any{"product": id})
		return jsonErr(c, fiber.StatusInternalServerError, "could not delete product")
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product": id, "api": true})
	return c.JSON(fiber.Map{"message": "Product " + id + " deleted successfully"})
}

// GET /api/v1/exchange-rates
func (h *APIHandler) GetRates(c *fiber.Ctx) error {
	r, err := h.Rates.Current()
	if err != nil {
		applog.Error(c, "api.rates.get.fail", err, nil)
		return c.JSON(domain.DefaultRates())
	}
	return c.JSON(r)
}

// PUT /api/v1/exchange-rates
func (h *APIHandler) PutRates(c *fiber.Ctx) error {
	var in domain.ExchangeRates
	if err := c.BodyParser(&in); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "invalid JSON body")
	}
	saved, err := h.Rates.Update(in)
	if errors.Is(err, services.ErrInvalidRates) {
		return jsonErr(c, fiber.StatusBadRequest, "all rates must be greater than zero")
	}
	if err != nil {
		applog.Error(c, "api.rates.save.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "could not save rates")
	}
	applog.Audit(c, "admin.rates.update", map[string]any{"ars": saved.ARS, "usdt": saved.USDT, "btc": saved.BTC, "eth": saved.ETH, "api": true})
	return c.JSON(saved)
}

// GET /api/v1/price/autofill?field=price_usd&value=1000[&price_ars=..&price_usd=..]
func (h *APIHandler) AutoFill(c *fiber.Ctx) error {
	field := c.Query("field")
	if field != pricing.FieldARS && field != pricing.FieldUSD {
		return jsonErr(c, fiber.StatusBadRequest, "field must be price_ars or price_usd")
	}
	rate := 0.0
	if r, err := h.Rates.Current(); err == nil {
		rate = r.ARS
	} else {
		applog.Error(c, "rates.load.fail", err, nil)
	}
	cur := pricing.Pair{ARS: c.Query(pricing.FieldARS), USD: c.Query(pricing.FieldUSD)}
	return c.JSON(pricing.AutoFill(cur, field, c.Query("value"), rate))
}
