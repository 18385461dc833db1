package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	applog "signcraft/internal/log"
	"signcraft/internal/services"
)

const SessionCookie = "admin_session"

// AdminGate protects /admin. API calls get a 401, page-style paths redirect
// to the login page; a valid session asking for the login page goes straight
// to the dashboard. The cookie is the sole authority.
func AdminGate(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		token := c.Cookies(SessionCookie)
		var valid bool
		if token != "" {
			if _, err := auth.Verify(token); err == nil {
				valid = true
			}
		}

		if path == "/admin/login" || path == "/admin" {
			if valid && c.Method() == fiber.MethodGet {
				return c.Redirect("/admin/dashboard")
			}
			return c.Next()
		}

		if !valid {
			applog.Security(c, "access.denied.admin", nil)
			if strings.HasPrefix(path, "/admin/api") {
				return fail(c, fiber.StatusUnauthorized, "invalid credentials")
			}
			return c.Redirect("/admin/login")
		}
		return c.Next()
	}
}

// SetSessionCookie issues the http-only session cookie; Secure is flipped on
// in production.
func SetSessionCookie(c *fiber.Ctx, token string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(services.SessionTTL / time.Second),
	})
}

func ClearSessionCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   secure,
		Expires:  time.Now().Add(-time.Hour),
	})
}
