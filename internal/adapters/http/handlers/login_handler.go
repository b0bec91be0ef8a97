package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"trustbuild-shell/internal/core/domain"
	"trustbuild-shell/internal/core/services"
)

// LoginHandler serves the login screen and drives the login/logout flows
type LoginHandler struct {
	api     *services.APIService
	monitor *services.NetworkMonitor
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(api *services.APIService, monitor *services.NetworkMonitor) *LoginHandler {
	return &LoginHandler{
		api:     api,
		monitor: monitor,
	}
}

// LoginRequest represents login form or JSON body
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Show renders the login screen with any pending notice
func (h *LoginHandler) Show(c *fiber.Ctx) error {
	return renderPage(c, fiber.StatusOK, loginTemplate, loginView{
		Notice:  notices[c.Query("notice")],
		Offline: !h.monitor.Snapshot().IsOnline(),
	})
}

// Submit handles login credentials
func (h *LoginHandler) Submit(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return renderPage(c, fiber.StatusBadRequest, loginTemplate, loginView{
			Error:   "Invalid request body",
			Offline: !h.monitor.Snapshot().IsOnline(),
		})
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return renderPage(c, fiber.StatusBadRequest, loginTemplate, loginView{
			Error:   "Email and password are required",
			Offline: !h.monitor.Snapshot().IsOnline(),
		})
	}

	input := services.LoginInput{Email: req.Email, Password: req.Password}
	if _, err := h.api.Login(c.Context(), input); err != nil {
		status := fiber.StatusUnauthorized
		if errors.Is(err, domain.ErrContractorsOnly) {
			status = fiber.StatusForbidden
		}
		return renderPage(c, status, loginTemplate, loginView{
			Error:   services.ErrorMessage(err),
			Offline: !h.monitor.Snapshot().IsOnline(),
		})
	}

	return c.Redirect("/dashboard", fiber.StatusFound)
}

// Logout signs the user out: best-effort remote call, guaranteed local clear
func (h *LoginHandler) Logout(c *fiber.Ctx) error {
	h.api.Logout(c.Context())
	return c.Redirect("/?notice=logged_out", fiber.StatusFound)
}
