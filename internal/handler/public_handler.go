package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"puppaka/internal/service"
	"puppaka/internal/view"
)

// PublicHandler serves the public pages.
type PublicHandler struct {
	content  service.ContentService
	contacts service.ContactService
}

// NewPublicHandler creates a new public page handler.
func NewPublicHandler(content service.ContentService, contacts service.ContactService) *PublicHandler {
	return &PublicHandler{content: content, contacts: contacts}
}

func (h *PublicHandler) Home(c echo.Context) error {
	home, err := h.content.Home(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "index", newPage(c, "", home))
}

func (h *PublicHandler) Blog(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	blog, err := h.content.Blog(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "blog", newPage(c, "Blog", blog))
}

func (h *PublicHandler) Post(c echo.Context) error {
	post, err := h.content.Post(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "post", newPage(c, post.Post.Title, post))
}

func (h *PublicHandler) Portfolio(c echo.Context) error {
	projects, err := h.content.Projects(c.Request().Context(), service.MaxListLimit)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "portfolio", newPage(c, "Portfolio", projects))
}

func (h *PublicHandler) Project(c echo.Context) error {
	project, err := h.content.Project(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "project", newPage(c, project.Title, project))
}

func (h *PublicHandler) About(c echo.Context) error {
	return render(c, http.StatusOK, "about", newPage(c, "About", nil))
}

func (h *PublicHandler) ContactForm(c echo.Context) error {
	page := newPage(c, "Contact", service.ContactInput{})
	if c.QueryParam("sent") == "1" {
		page.Flash = &view.Flash{Kind: "success", Text: "Thanks for your message. I will get back to you soon."}
	}
	return render(c, http.StatusOK, "contact", page)
}

// SubmitContact stores a contact submission and redirects back to the form.
func (h *PublicHandler) SubmitContact(c echo.Context) error {
	in := service.ContactInput{
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Subject: c.FormValue("subject"),
		Message: c.FormValue("message"),
	}

	if _, err := h.contacts.Submit(c.Request().Context(), in); err != nil {
		fields, status, ok := formErrors(err)
		if !ok {
			return err
		}
		page := newPage(c, "Contact", in)
		page.Errors = fields
		page.Flash = &view.Flash{Kind: "error", Text: "Please correct the highlighted fields."}
		return render(c, status, "contact", page)
	}
	return c.Redirect(http.StatusSeeOther, "/contact?sent=1")
}
