package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"puppaka/internal/middleware"
	"puppaka/internal/model"
	"puppaka/internal/service"
	"puppaka/internal/view"
)

// AdminHandler serves the authenticated admin pages.
type AdminHandler struct {
	admin       service.AdminService
	authService service.AuthService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(admin service.AdminService, authService service.AuthService) *AdminHandler {
	return &AdminHandler{admin: admin, authService: authService}
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	stats, err := h.admin.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "admin/dashboard", newPage(c, "Dashboard", stats))
}

func (h *AdminHandler) Posts(c echo.Context) error {
	posts, err := h.admin.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "admin/posts", newPage(c, "Posts", posts))
}

func (h *AdminHandler) NewPost(c echo.Context) error {
	return render(c, http.StatusOK, "admin/post_form", newPage(c, "New post", model.NewPost()))
}

func (h *AdminHandler) EditPost(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	post, err := h.admin.GetPost(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "admin/post_form", newPage(c, "Edit post", post))
}

// CreatePost handles the new post form.
func (h *AdminHandler) CreatePost(c echo.Context) error {
	return h.savePost(c, 0)
}

// UpdatePost handles the edit post form.
func (h *AdminHandler) UpdatePost(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	return h.savePost(c, id)
}

func (h *AdminHandler) savePost(c echo.Context, id uint) error {
	in := service.PostInput{
		Title:     c.FormValue("title"),
		Slug:      c.FormValue("slug"),
		Content:   c.FormValue("content"),
		Excerpt:   c.FormValue("excerpt"),
		Category:  c.FormValue("category"),
		Tags:      c.FormValue("tags"),
		Published: checked(c, "published"),
		Image:     formFile(c, "featured_image"),
	}

	if _, err := h.admin.SavePost(c.Request().Context(), id, in); err != nil {
		fields, status, ok := formErrors(err)
		if !ok {
			return err
		}
		redisplay := &model.Post{
			ID: id, Title: in.Title, Slug: in.Slug, Content: in.Content, Excerpt: in.Excerpt,
			Category: in.Category, Tags: in.Tags, Published: in.Published,
		}
		if id != 0 {
			if stored, err := h.admin.GetPost(c.Request().Context(), id); err == nil {
				redisplay.FeaturedImage = stored.FeaturedImage
			}
		}
		return renderForm(c, status, "admin/post_form", formTitle(id, "post"), redisplay, fields)
	}
	return c.Redirect(http.StatusSeeOther, "/admin/posts")
}

func (h *AdminHandler) DeletePost(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.admin.DeletePost(c.Request().Context(), id); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/posts")
}

func (h *AdminHandler) Projects(c echo.Context) error {
	projects, err := h.admin.ListProjects(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "admin/projects", newPage(c, "Projects", projects))
}

func (h *AdminHandler) NewProject(c echo.Context) error {
	return render(c, http.StatusOK, "admin/project_form", newPage(c, "New project", model.NewProject()))
}

func (h *AdminHandler) EditProject(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	project, err := h.admin.GetProject(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "admin/project_form", newPage(c, "Edit project", project))
}

// CreateProject handles the new project form.
func (h *AdminHandler) CreateProject(c echo.Context) error {
	return h.saveProject(c, 0)
}

// UpdateProject handles the edit project form.
func (h *AdminHandler) UpdateProject(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	return h.saveProject(c, id)
}

func (h *AdminHandler) saveProject(c echo.Context, id uint) error {
	in := service.ProjectInput{
		Title:        c.FormValue("title"),
		Slug:         c.FormValue("slug"),
		Description:  c.FormValue("description"),
		Content:      c.FormValue("content"),
		Category:     c.FormValue("category"),
		Technologies: c.FormValue("technologies"),
		Link:         c.FormValue("link"),
		GitHub:       c.FormValue("github"),
		Published:    checked(c, "published"),
		Image:        formFile(c, "featured_image"),
		Gallery:      formFiles(c, "images"),
	}

	if _, err := h.admin.SaveProject(c.Request().Context(), id, in); err != nil {
		fields, status, ok := formErrors(err)
		if !ok {
			return err
		}
		redisplay := &model.Project{
			ID: id, Title: in.Title, Slug: in.Slug, Description: in.Description, Content: in.Content,
			Category: in.Category, Technologies: in.Technologies, Link: in.Link, GitHub: in.GitHub,
			Published: in.Published,
		}
		if id != 0 {
			if stored, err := h.admin.GetProject(c.Request().Context(), id); err == nil {
				redisplay.FeaturedImage = stored.FeaturedImage
				redisplay.Images = stored.Images
			}
		}
		return renderForm(c, status, "admin/project_form", formTitle(id, "project"), redisplay, fields)
	}
	return c.Redirect(http.StatusSeeOther, "/admin/projects")
}

func (h *AdminHandler) DeleteProject(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.admin.DeleteProject(c.Request().Context(), id); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/projects")
}

func (h *AdminHandler) Contacts(c echo.Context) error {
	contacts, err := h.admin.ListContacts(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "admin/contacts", newPage(c, "Messages", contacts))
}

func (h *AdminHandler) MarkContactRead(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.admin.MarkContactRead(c.Request().Context(), id); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/contacts")
}

func (h *AdminHandler) DeleteContact(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.admin.DeleteContact(c.Request().Context(), id); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/contacts")
}

func (h *AdminHandler) Settings(c echo.Context) error {
	return render(c, http.StatusOK, "admin/settings", newPage(c, "Settings", nil))
}

// ChangePassword updates the password of the signed-in admin.
func (h *AdminHandler) ChangePassword(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Redirect(http.StatusFound, middleware.LoginPath)
	}

	err := h.authService.ChangePassword(c.Request().Context(), user.ID, c.FormValue("current_password"), c.FormValue("new_password"))
	page := newPage(c, "Settings", nil)
	if err != nil {
		fields, status, ok := formErrors(err)
		if !ok {
			return err
		}
		page.Errors = fields
		page.Flash = &view.Flash{Kind: "error", Text: "Password was not changed."}
		return render(c, status, "admin/settings", page)
	}
	page.Flash = &view.Flash{Kind: "success", Text: "Password updated successfully."}
	return render(c, http.StatusOK, "admin/settings", page)
}

func renderForm(c echo.Context, status int, name, title string, data any, fields map[string]string) error {
	page := newPage(c, title, data)
	page.Errors = fields
	page.Flash = &view.Flash{Kind: "error", Text: "Nothing was saved. Please correct the highlighted fields."}
	return render(c, status, name, page)
}

func formTitle(id uint, kind string) string {
	if id == 0 {
		return "New " + kind
	}
	return "Edit " + kind
}

func checked(c echo.Context, name string) bool {
	return c.FormValue(name) != ""
}

func formFile(c echo.Context, name string) *multipart.FileHeader {
	fh, err := c.FormFile(name)
	if err != nil {
		return nil
	}
	return fh
}

func formFiles(c echo.Context, name string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	return form.File[name]
}
