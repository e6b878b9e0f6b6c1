package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/niftrix/referral-admin/internal/api/dto"
	"github.com/niftrix/referral-admin/internal/auth"
	"github.com/niftrix/referral-admin/internal/config"
	"github.com/niftrix/referral-admin/internal/service"
	apperrors "github.com/niftrix/referral-admin/pkg/util/errorutil"
)

// AuthHandler exposes admin login, logout and profile endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	cookie config.AuthConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookie config.AuthConfig) *AuthHandler {
	return &AuthHandler{auth: authService, cookie: cookie}
}

// Login handles POST /admin-api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}

	admin, session, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(h.sessionCookie(session.Token, session.ExpiresAt))
	return c.JSON(dto.LoginResponse{
		Success:   true,
		Message:   "Login successful",
		FirstName: admin.FirstName,
	})
}

// Logout handles POST /admin-api/auth/logout. The cookie is cleared even
// when revocation fails.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(h.cookie.CookieName)
	c.Cookie(h.sessionCookie("", time.Unix(0, 0)))
	if err := h.auth.Logout(c.UserContext(), token); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

// Profile handles GET /admin-api/get-profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	admin, err := h.auth.Profile(c.UserContext(), principal.AdminID)
	if err != nil {
		return err
	}
	return c.JSON(dto.AdminProfileResponse{FirstName: admin.FirstName})
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     h.cookie.CookieName,
		Value:    value,
		Path:     "/",
		Domain:   h.cookie.CookieDomain,
		Expires:  expires,
		Secure:   h.cookie.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
