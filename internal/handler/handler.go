package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	apperrors "puppaka/internal/errors"
	"puppaka/internal/middleware"
	"puppaka/internal/view"
)

// Response is the envelope of every JSON API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// errorView is the data of the HTML error page.
type errorView struct {
	Status  int
	Message string
}

// newPage fills the fields every template needs.
func newPage(c echo.Context, title string, data any) view.Page {
	csrf, _ := c.Get(echomw.DefaultCSRFConfig.ContextKey).(string)
	return view.Page{
		Title: title,
		Path:  c.Request().URL.Path,
		User:  middleware.CurrentUser(c),
		CSRF:  csrf,
		Data:  data,
	}
}

func render(c echo.Context, status int, name string, page view.Page) error {
	return c.Render(status, name, page)
}

// formErrors extracts the field messages a form is shown again with. Only validation
// errors and slug conflicts qualify.
func formErrors(err error) (map[string]string, int, bool) {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Fields, http.StatusBadRequest, true
	case errors.Is(err, apperrors.ErrConflict):
		return map[string]string{"slug": "is already taken"}, http.StatusConflict, true
	default:
		return nil, 0, false
	}
}

func paramID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return uint(id), nil
}

func isAPI(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}
