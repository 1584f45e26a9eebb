package middleware

import (
	"fmt"
	"sync/atomic"

	"github.com/labstack/echo/v4"

	apperrors "puppaka/internal/errors"
)

// Readiness holds requests back until bootstrap has finished.
type Readiness struct {
	ready atomic.Bool
	skip  map[string]bool
}

// NewReadiness creates a gate that lets the given paths through at all times.
func NewReadiness(alwaysOpen ...string) *Readiness {
	skip := make(map[string]bool, len(alwaysOpen))
	for _, p := range alwaysOpen {
		skip[p] = true
	}
	return &Readiness{skip: skip}
}

// MarkReady opens the gate.
func (r *Readiness) MarkReady() {
	r.ready.Store(true)
}

// Ready reports whether bootstrap has finished.
func (r *Readiness) Ready() bool {
	return r.ready.Load()
}

// Middleware answers 503 for every non-skipped request until MarkReady is called.
func (r *Readiness) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r.ready.Load() || r.skip[c.Request().URL.Path] {
				return next(c)
			}
			c.Response().Header().Set("Retry-After", "1")
			return fmt.Errorf("starting up: %w", apperrors.ErrStorageUnavailable)
		}
	}
}
