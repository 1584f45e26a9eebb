package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "puppaka/internal/errors"
)

// ErrorHandler renders failures as the JSON envelope under /api and as the HTML error
// page everywhere else. Server-side failures are logged with the request id.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, message, code := classify(err)
	req := c.Request()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(req.Context(), "request failed",
			"error", err,
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)
	}

	var renderErr error
	switch {
	case req.Method == http.MethodHead:
		renderErr = c.NoContent(status)
	case isAPI(req.URL.Path):
		renderErr = c.JSON(status, apperrors.NewHTTPError(status, message, code).ToErrorResponse())
	default:
		renderErr = render(c, status, "error", newPage(c, http.StatusText(status), errorView{Status: status, Message: message}))
	}
	if renderErr != nil {
		slog.ErrorContext(req.Context(), "render error response", "error", renderErr)
		_ = c.String(status, message)
	}
}

func classify(err error) (int, string, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			message = m
		} else if he.Message != nil {
			message = fmt.Sprint(he.Message)
		}
		return he.Code, message, ""
	}
	mapped := apperrors.MapErrorToHTTP(err)
	return mapped.StatusCode, mapped.Message, mapped.Code
}
