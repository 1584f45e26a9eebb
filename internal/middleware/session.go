package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"puppaka/internal/auth"
	"puppaka/internal/model"
)

const (
	tokenKey = "session_token"
	userKey  = "session_user"

	// LoginPath is where unauthenticated admin requests are sent.
	LoginPath = "/admin/login"
)

// SessionResumer looks up the live session behind validated claims.
type SessionResumer interface {
	Resume(ctx context.Context, claims *auth.Claims) (*auth.SessionUser, error)
}

// SessionGate admits only requests carrying a valid session cookie that names a live
// admin session. Everything else is redirected to the login page.
func SessionGate(tokens *auth.TokenService, sessions SessionResumer, secureCookies bool) echo.MiddlewareFunc {
	validate := echojwt.WithConfig(echojwt.Config{
		SigningKey:  tokens.SigningKey(),
		TokenLookup: "cookie:" + auth.CookieName,
		ContextKey:  tokenKey,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return redirectToLogin(c, secureCookies)
		},
	})

	resume := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get(tokenKey).(*jwt.Token)
			if !ok {
				return redirectToLogin(c, secureCookies)
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return redirectToLogin(c, secureCookies)
			}

			user, err := sessions.Resume(c.Request().Context(), claims)
			if errors.Is(err, auth.ErrNoSession) {
				return redirectToLogin(c, secureCookies)
			}
			if err != nil {
				return err
			}
			if user.Role != model.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin role required")
			}

			c.Set(userKey, user)
			return next(c)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return validate(resume(next))
	}
}

// CurrentUser returns the session user set by SessionGate, or nil.
func CurrentUser(c echo.Context) *auth.SessionUser {
	user, _ := c.Get(userKey).(*auth.SessionUser)
	return user
}

// CurrentClaims returns the claims of the validated session token, or nil.
func CurrentClaims(c echo.Context) *auth.Claims {
	token, ok := c.Get(tokenKey).(*jwt.Token)
	if !ok {
		return nil
	}
	claims, _ := token.Claims.(*auth.Claims)
	return claims
}

// SetSessionCookie stores a session token in the client.
func SetSessionCookie(c echo.Context, token string, maxAge int, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie from the client.
func ClearSessionCookie(c echo.Context, secure bool) {
	SetSessionCookie(c, "", -1, secure)
}

func redirectToLogin(c echo.Context, secure bool) error {
	if _, err := c.Cookie(auth.CookieName); err == nil {
		ClearSessionCookie(c, secure)
	}
	return c.Redirect(http.StatusFound, LoginPath)
}
