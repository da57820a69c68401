package handlers

import (
	"time"

	"mathiphone/internal/domain"
	"mathiphone/internal/log"
	"mathiphone/internal/services"
	"mathiphone/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth    *services.AuthService
	Compare *services.CompareService
}

// ensureSID returns the session id, issuing a new sid cookie when missing.
func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		setSID(c, sid)
	}
	return sid
}

func setSID(c *fiber.Ctx, sid string) {
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   c.Secure(),
	})
}

func loginFailed(c *fiber.Ctx) error {
	c.Status(fiber.StatusUnauthorized)
	return render(c, "login", fiber.Map{"Err": "Email o contraseña inválidos"})
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_format"})
		return loginFailed(c)
	}
	if !validate.Password(pass) {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_password_format"})
		return loginFailed(c)
	}

	// a successful login always gets a fresh session id
	sid := uuid.NewString()
	u, err := h.Auth.Login(sid, email, pass)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return loginFailed(c)
	}
	if old := c.Cookies("sid"); old != "" {
		if err := h.Compare.Move(old, sid); err != nil {
			log.Error(c, "compare.move.fail", err, nil)
		}
		_ = h.Auth.Logout(old)
	}
	setSID(c, sid)

	c.Locals("user", u)
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	if u.Role == domain.RoleAdmin {
		return c.Redirect("/admin")
	}
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   c.Secure(),
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}
