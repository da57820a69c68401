package handlers

import (
	"errors"
	"strings"

	"mathiphone/internal/catalog"
	"mathiphone/internal/domain"
	applog "mathiphone/internal/log"
	"mathiphone/internal/pricing"
	"mathiphone/internal/services"
	"mathiphone/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Catalog  *services.CatalogService
	Products *services.AdminProductService
	Rates    *services.RateService
}

type categoryCount struct {
	Category string
	Count    int
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	all, err := h.Catalog.ListCategory("")
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
	}
	counts := make([]categoryCount, 0, len(domain.Categories))
	for _, cat := range domain.Categories {
		n := 0
		for _, p := range all {
			if p.Category == cat {
				n++
			}
		}
		counts = append(counts, categoryCount{Category: cat, Count: n})
	}
	return render(c, "admin_dashboard", fiber.Map{
		"Counts": counts,
		"Total":  len(all),
		"Rates":  currentRates(c, h.Rates),
	})
}

func adminCategory(c *fiber.Ctx) (string, bool) {
	cat := strings.ToLower(c.Params("category"))
	if !catalog.ValidCategory(cat) {
		applog.Security(c, "validation.fail", map[string]any{"field": "category", "value": cat})
		return "", false
	}
	return cat, true
}

// GET /admin/products/:category
func (h *AdminHandler) ProductsPage(c *fiber.Ctx) error {
	cat, ok := adminCategory(c)
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Categoría desconocida")
	}
	products, err := h.Catalog.ListCategory(cat)
	data := fiber.Map{"Category": cat, "Products": products, "Saved": c.Query("saved")}
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, map[string]any{"category": cat})
		data["Products"] = []domain.Product{}
		data["Err"] = "No pudimos cargar los productos."
	}
	return render(c, "admin_products", data)
}

func (h *AdminHandler) formPage(c *fiber.Ctx, ed *services.Editor, msg string) error {
	action := "/admin/products/" + ed.Category
	if ed.Form.ID != "" {
		action += "/" + ed.Form.ID
	}
	return render(c, "admin_product_form", fiber.Map{
		"Category":      ed.Category,
		"State":         ed.State.String(),
		"F":             ed.Form,
		"Err":           msg,
		"Action":        action,
		"Models":        catalog.Models(ed.Category),
		"Types":         catalog.Types(ed.Category),
		"Conditions":    domain.Conditions,
		"TracksBattery": catalog.TracksBattery(ed.Category),
	})
}

// GET /admin/products/:category/new
func (h *AdminHandler) NewForm(c *fiber.Ctx) error {
	cat, ok := adminCategory(c)
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Categoría desconocida")
	}
	ed := services.NewEditor(cat)
	ed.Open(nil)
	return h.formPage(c, ed, "")
}

func (h *AdminHandler) load(c *fiber.Ctx, cat string) (*domain.Product, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return nil, services.ErrNotFound
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return nil, err
	}
	if p.Category != cat {
		return nil, services.ErrNotFound
	}
	return &p, nil
}

// GET /admin/products/:category/:id/edit
func (h *AdminHandler) EditForm(c *fiber.Ctx) error {
	cat, ok := adminCategory(c)
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Categoría desconocida")
	}
	p, err := h.load(c, cat)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c, fiber.StatusNotFound, "Producto no encontrado")
	}
	if err != nil {
		return err
	}
	ed := services.NewEditor(cat)
	ed.Open(p)
	return h.formPage(c, ed, "")
}

func formFromRequest(c *fiber.Ctx) services.ProductForm {
	return services.ProductForm{
		Name:           c.FormValue("name"),
		Model:          c.FormValue("model"),
		Type:           c.FormValue("type"),
		Storage:        c.FormValue("storage"),
		Color:          c.FormValue("color"),
		Condition:      c.FormValue("condition"),
		BatteryHealth:  c.FormValue("battery_health"),
		PriceARS:       c.FormValue("price_ars"),
		PriceUSD:       c.FormValue("price_usd"),
		ScreenSize:     c.FormValue("screen_size"),
		Chip:           c.FormValue("chip"),
		Camera:         c.FormValue("camera"),
		Features:       c.FormValue("features"),
		Available:      c.FormValue("available") != "",
		WarrantyMonths: c.FormValue("warranty_months"),
		Description:    c.FormValue("description"),
		ImageURL:       c.FormValue("image_url"),
	}
}

// userMessage drops the sentinel suffix from a validation error.
func userMessage(err error) string {
	return strings.TrimSuffix(err.Error(), ": "+services.ErrInvalidProduct.Error())
}

func (h *AdminHandler) submit(c *fiber.Ctx, cat string, existing *domain.Product) error {
	ed := services.NewEditor(cat)
	ed.Open(existing)
	f := formFromRequest(c)
	f.ID = ed.Form.ID
	ed.Form = f

	var saved domain.Product
	err := ed.Submit(func(f services.ProductForm) error {
		var err error
		saved, err = h.Products.SaveForm(cat, f)
		return err
	})
	switch {
	case errors.Is(err, services.ErrInvalidProduct):
		applog.Security(c, "validation.fail", map[string]any{"field": "product", "category": cat, "reason": userMessage(err)})
		c.Status(fiber.StatusBadRequest)
		return h.formPage(c, ed, userMessage(err))
	case errors.Is(err, services.ErrNotFound):
		return notFound(c, fiber.StatusNotFound, "Producto no encontrado")
	case err != nil:
		applog.Error(c, "admin.products.save.fail", err, map[string]any{"category": cat, "product": f.ID})
		c.Status(fiber.StatusInternalServerError)
		return h.formPage(c, ed, "No pudimos guardar el producto. Intentá de nuevo.")
	}

	action := "admin.products.update"
	if existing == nil {
		action = "admin.products.create"
	}
	applog.Audit(c, action, map[string]any{
		"product": saved.ID, "category": cat, "price_ars": saved.PriceARS, "price_usd": saved.PriceUSD,
	})
	return c.Redirect("/admin/products/" + cat + "?saved=" + saved.ID)
}

// POST /admin/products/:category
func (h *AdminHandler) Create(c *fiber.Ctx) error {
	cat, ok := adminCategory(c)
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Categoría desconocida")
	}
	return h.submit(c, cat, nil)
}

// POST /admin/products/:category/:id
func (h *AdminHandler) Update(c *fiber.Ctx) error {
	cat, ok := adminCategory(c)
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Categoría desconocida")
	}
	p, err := h.load(c, cat)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c, fiber.StatusNotFound, "Producto no encontrado")
	}
	if err != nil {
		return err
	}
	return h.submit(c, cat, p)
}

// POST /admin/products/:category/:id/delete
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	cat, ok := adminCategory(c)
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Categoría desconocida")
	}
	p, err := h.load(c, cat)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c, fiber.StatusNotFound, "Producto no encontrado")
	}
	if err != nil {
		return err
	}
	if err := h.Products.Delete(p.ID); err != nil {
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product": p.ID})
		return c.Status(fiber.StatusBadRequest).SendString("could not delete product")
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product": p.ID, "category": cat})
	return c.Redirect("/admin/products/" + cat)
}

// GET /admin/rates
func (h *AdminHandler) RatesPage(c *fiber.Ctx) error {
	return render(c, "admin_rates", fiber.Map{"Rates": currentRates(c, h.Rates)})
}

// parseRate is 0 for anything that is not a finite positive rate, which Update rejects.
func parseRate(s string) float64 {
	f, _ := pricing.ParseRate(s)
	return f
}

// POST /admin/rates
func (h *AdminHandler) UpdateRates(c *fiber.Ctx) error {
	in := domain.ExchangeRates{
		ARS:  parseRate(c.FormValue("ars")),
		USDT: parseRate(c.FormValue("usdt")),
		BTC:  parseRate(c.FormValue("btc")),
		ETH:  parseRate(c.FormValue("eth")),
	}
	saved, err := h.Rates.Update(in)
	if errors.Is(err, services.ErrInvalidRates) {
		applog.Security(c, "validation.fail", map[string]any{"field": "rates"})
		c.Status(fiber.StatusBadRequest)
		return render(c, "admin_rates", fiber.Map{"Rates": &in, "Err": "Todas las tasas deben ser mayores a cero"})
	}
	if err != nil {
		applog.Error(c, "admin.rates.save.fail", err, nil)
		c.Status(fiber.StatusInternalServerError)
		return render(c, "admin_rates", fiber.Map{"Rates": &in, "Err": "No pudimos guardar las tasas"})
	}
	applog.Audit(c, "admin.rates.update", map[string]any{"ars": saved.ARS, "usdt": saved.USDT, "btc": saved.BTC, "eth": saved.ETH})
	return c.Redirect("/admin/rates")
}
