package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"puppaka/internal/auth"
	apperrors "puppaka/internal/errors"
	"puppaka/internal/middleware"
	"puppaka/internal/service"
	"puppaka/internal/view"
)

// AuthHandler handles the admin login and logout pages.
type AuthHandler struct {
	authService   service.AuthService
	secureCookies bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookies: secureCookies}
}

// LoginForm shows the login page, or sends an already authenticated admin to the dashboard.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	if cookie, err := c.Cookie(auth.CookieName); err == nil && cookie.Value != "" {
		if _, err := h.authService.Authenticate(c.Request().Context(), cookie.Value); err == nil {
			return c.Redirect(http.StatusFound, "/admin")
		}
	}
	return render(c, http.StatusOK, "admin/login", newPage(c, "Login", ""))
}

// Login checks the submitted credentials and opens a session.
func (h *AuthHandler) Login(c echo.Context) error {
	username := c.FormValue("username")
	session, err := h.authService.Login(c.Request().Context(), username, c.FormValue("password"))
	if errors.Is(err, apperrors.ErrInvalidCredentials) {
		page := newPage(c, "Login", username)
		page.Flash = &view.Flash{Kind: "error", Text: "Invalid credentials"}
		return render(c, http.StatusUnauthorized, "admin/login", page)
	}
	if err != nil {
		return err
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	middleware.SetSessionCookie(c, session.Token, maxAge, h.secureCookies)
	return c.Redirect(http.StatusSeeOther, "/admin")
}

// Logout destroys the current session.
func (h *AuthHandler) Logout(c echo.Context) error {
	if claims := middleware.CurrentClaims(c); claims != nil {
		if err := h.authService.Logout(c.Request().Context(), claims.SessionID()); err != nil {
			return err
		}
	}
	middleware.ClearSessionCookie(c, h.secureCookies)
	return c.Redirect(http.StatusFound, middleware.LoginPath)
}
