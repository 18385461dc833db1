package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "signcraft/internal/log"
	"signcraft/internal/services"
)

type AuthHandler struct {
	Auth   *services.AuthService
	Secure bool
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /admin/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "missing credentials")
	}
	if req.Username == "" || req.Password == "" {
		return fail(c, fiber.StatusBadRequest, "missing credentials")
	}

	token, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		// Same answer for unknown user and bad password.
		applog.Security(c, "auth.login.fail", map[string]any{"username": req.Username})
		return fail(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	SetSessionCookie(c, token, h.Secure)
	applog.Audit(c, "auth.login.success", map[string]any{"username": req.Username})
	return ok(c)
}

// POST /admin/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	ClearSessionCookie(c, h.Secure)
	applog.Audit(c, "auth.logout", nil)
	return ok(c)
}
