package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"puppaka/internal/service"
)

// APIHandler serves the read-only JSON API.
type APIHandler struct {
	content service.ContentService
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(content service.ContentService) *APIHandler {
	return &APIHandler{content: content}
}

// ListPosts godoc
// @Summary List published posts
// @Description Newest first, at most 100.
// @Tags posts
// @Produce json
// @Param limit query int false "Maximum number of posts (1-100)"
// @Success 200 {object} Response{data=[]model.Post}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /posts [get]
func (h *APIHandler) ListPosts(c echo.Context) error {
	limit, err := bindList(c)
	if err != nil {
		return err
	}
	posts, err := h.content.Posts(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Response{Success: true, Data: posts})
}

// GetPost godoc
// @Summary Get a published post by slug
// @Tags posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} Response{data=model.Post}
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{slug} [get]
func (h *APIHandler) GetPost(c echo.Context) error {
	page, err := h.content.Post(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Response{Success: true, Data: page.Post})
}

// ListProjects godoc
// @Summary List published projects
// @Description Newest first, at most 100.
// @Tags projects
// @Produce json
// @Param limit query int false "Maximum number of projects (1-100)"
// @Success 200 {object} Response{data=[]model.Project}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /projects [get]
func (h *APIHandler) ListProjects(c echo.Context) error {
	limit, err := bindList(c)
	if err != nil {
		return err
	}
	projects, err := h.content.Projects(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Response{Success: true, Data: projects})
}

// GetProject godoc
// @Summary Get a published project by slug
// @Tags projects
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} Response{data=model.Project}
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{slug} [get]
func (h *APIHandler) GetProject(c echo.Context) error {
	project, err := h.content.Project(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Response{Success: true, Data: project})
}

// ListQuery are the query parameters of the list endpoints.
type ListQuery struct {
	Limit int `query:"limit" validate:"min=0"`
}

func bindList(c echo.Context) (int, error) {
	var q ListQuery
	if err := c.Bind(&q); err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "limit must not be negative")
	}
	return q.Limit, nil
}
