package handlers

import (
	"strings"
	"time"

	applog "mathiphone/internal/log"
	"mathiphone/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

const CSRFHeader = "X-CSRF-Token"

func isAPI(c *fiber.Ctx) bool { return strings.HasPrefix(c.Path(), "/api/") }

// CSRF checks the "csrf" form field on pages and the X-CSRF-Token header on /api.
func CSRF(secure bool) fiber.Handler {
	fromForm := csrf.CsrfFromForm("csrf")
	fromHeader := csrf.CsrfFromHeader(CSRFHeader)
	return csrf.New(csrf.Config{
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   secure,
		ContextKey:     "csrf",
		Extractor: func(c *fiber.Ctx) (string, error) {
			if isAPI(c) {
				return fromHeader(c)
			}
			return fromForm(c)
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"err": err.Error()})
			if isAPI(c) {
				return jsonErr(c, fiber.StatusForbidden, "security check failed")
			}
			return notFound(c, fiber.StatusForbidden, "Falló el control de seguridad. Recargá la página e intentá de nuevo.")
		},
	})
}

// CSRFLocals exposes the middleware's token to templates.
func CSRFLocals(c *fiber.Ctx) error {
	if tok, ok := c.Locals("csrf").(string); ok && tok != "" {
		c.Locals("CSRFToken", tok)
	}
	return c.Next()
}

// CurrentUser attaches the logged-in user, if any, for templates and logs.
func CurrentUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := auth.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	}
}

// ErrorHandler logs and shows a friendly message without internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
	}
	applog.Error(c, "server.error", err, map[string]any{"code": code})
	msg := "Algo salió mal. Intentá de nuevo."
	if code == fiber.StatusNotFound {
		msg = "Página no encontrada"
	}
	if isAPI(c) {
		return jsonErr(c, code, msg)
	}
	if rerr := notFound(c, code, msg); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

// Routes mounts every page and API route on app.
func (d *Deps) Routes(app *fiber.App) {
	searchLimiter := limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.search.hit", nil)
			return notFound(c, fiber.StatusTooManyRequests, "Demasiadas búsquedas. Esperá un momento.")
		},
	})

	// Public pages
	app.Get("/", d.CatalogHandler.Home)
	app.Get("/search", searchLimiter, d.CatalogHandler.Home)
	app.Get("/product", func(c *fiber.Ctx) error {
		return notFound(c, fiber.StatusNotFound, "Este producto ya no está disponible")
	})
	app.Get("/product/:id", d.ProductHandler.Detail)
	app.Get("/convert", d.ConvertHandler.Page)

	app.Get("/compare", d.CompareHandler.View)
	app.Post("/compare", d.CompareHandler.Add)
	app.Post("/compare/remove", d.CompareHandler.Remove)
	app.Post("/compare/clear", d.CompareHandler.Clear)

	app.Post("/prefs/theme", d.PrefsHandler.Theme)
	app.Post("/prefs/snow", d.PrefsHandler.Snow)

	// Auth routes (login throttled)
	app.Get("/login", d.AuthHandler.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			c.Status(fiber.StatusTooManyRequests)
			return render(c, "login", fiber.Map{"Err": "Demasiados intentos. Probá más tarde."})
		},
	}), d.AuthHandler.Login)
	app.Post("/logout", d.AuthHandler.Logout)

	// Admin
	admin := app.Group("/admin", RequireAdmin(d.Auth))
	admin.Get("/", d.AdminHandler.Dashboard)
	admin.Get("/rates", d.AdminHandler.RatesPage)
	admin.Post("/rates", d.AdminHandler.UpdateRates)
	admin.Get("/products/:category", d.AdminHandler.ProductsPage)
	admin.Get("/products/:category/new", d.AdminHandler.NewForm)
	admin.Post("/products/:category", d.AdminHandler.Create)
	admin.Get("/products/:category/:id/edit", d.AdminHandler.EditForm)
	admin.Post("/products/:category/:id", d.AdminHandler.Update)
	admin.Post("/products/:category/:id/delete", d.AdminHandler.Delete)

	// API
	api := app.Group("/api/v1", limiter.New(limiter.Config{
		Max:        60,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|api"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.api.hit", nil)
			return jsonErr(c, fiber.StatusTooManyRequests, "rate limit exceeded, retry soon")
		},
	}))
	api.Get("/products", d.APIHandler.ListProducts)
	api.Get("/products/:id", d.APIHandler.GetProduct)
	api.Get("/exchange-rates", d.APIHandler.GetRates)
	api.Get("/convert", d.ConvertHandler.JSON)
	api.Get("/price/autofill", d.APIHandler.AutoFill)

	apiAdmin := RequireAdminAPI(d.Auth)
	api.Post("/products", apiAdmin, d.APIHandler.CreateProduct)
	api.Put("/products/:id", apiAdmin, d.APIHandler.UpdateProduct)
	api.Delete("/products/:id", apiAdmin, d.APIHandler.DeleteProduct)
	api.Put("/exchange-rates", apiAdmin, d.APIHandler.PutRates)

	// Health
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
}
