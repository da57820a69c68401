package handlers

import (
	"mathiphone/internal/domain"
	applog "mathiphone/internal/log"
	"mathiphone/internal/services"

	"github.com/gofiber/fiber/v2"
)

func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil || u.Role != domain.RoleAdmin {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": sid})
			return notFound(c, fiber.StatusForbidden, "Acceso denegado")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireAdminAPI is RequireAdmin for JSON clients: 401 without a session, 403 for non-admins.
func RequireAdminAPI(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		if u.Role != domain.RoleAdmin {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": sid, "api": true})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin only"})
		}
		c.Locals("user", u)
		return c.Next()
	}
}
