package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
)

const (
	themeCookie = "theme"
	snowCookie  = "snow"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Inject user if present
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	if _, ok := data["CSRFToken"]; !ok {
		tok, _ := c.Locals("CSRFToken").(string)
		if tok == "" {
			tok = c.Cookies("csrf_")
		}
		data["CSRFToken"] = tok
	}
	data["Theme"] = theme(c)
	data["Snow"] = c.Cookies(snowCookie) == "on"
	return c.Render(tmpl, data)
}

// notFound renders the shared message page with status.
func notFound(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).Render("notfound", fiber.Map{"Message": msg, "Theme": theme(c)})
}

func theme(c *fiber.Ctx) string {
	if c.Cookies(themeCookie) == "dark" {
		return "dark"
	}
	return "light"
}

// back is the Referer's path when it points at this site, else fallback.
func back(c *fiber.Ctx, fallback string) string {
	ref := c.Get(fiber.HeaderReferer)
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != c.Hostname()) || u.Path == "" || u.Path[0] != '/' {
		return fallback
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
