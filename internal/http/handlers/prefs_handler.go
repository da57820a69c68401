package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type PrefsHandler struct{}

func setPref(c *fiber.Ctx, name, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   c.Secure(),
		Expires:  time.Now().AddDate(1, 0, 0),
	})
}

// POST /prefs/theme: value=light|dark, anything else toggles.
func (h *PrefsHandler) Theme(c *fiber.Ctx) error {
	v := c.FormValue("value")
	if v != "light" && v != "dark" {
		v = "dark"
		if theme(c) == "dark" {
			v = "light"
		}
	}
	setPref(c, themeCookie, v)
	return c.Redirect(back(c, "/"))
}

// POST /prefs/snow toggles the seasonal snow effect.
func (h *PrefsHandler) Snow(c *fiber.Ctx) error {
	v := "on"
	if c.Cookies(snowCookie) == "on" {
		v = "off"
	}
	setPref(c, snowCookie, v)
	return c.Redirect(back(c, "/"))
}
