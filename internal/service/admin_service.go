package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	apperrors "puppaka/internal/errors"
	"puppaka/internal/metrics"
	"puppaka/internal/model"
	"puppaka/internal/repository"
	"puppaka/internal/upload"
)

// AdminContactLimit caps the contact review listing.
const AdminContactLimit = 100

// PostInput is an authoring submission for a post.
type PostInput struct {
	Title     string
	Slug      string
	Content   string
	Excerpt   string
	Category  string
	Tags      string
	Published bool
	Image     *multipart.FileHeader
}

// ProjectInput is an authoring submission for a project.
type ProjectInput struct {
	Title        string
	Slug         string
	Description  string
	Content      string
	Category     string
	Technologies string
	Link         string
	GitHub       string
	Published    bool
	Image        *multipart.FileHeader
	Gallery      []*multipart.FileHeader
}

// DashboardStats are the counters on the admin landing page.
type DashboardStats struct {
	PublishedPosts int64
	Projects       int64
	Contacts       int64
	UnreadContacts int64
}

// AdminService is the authenticated authoring surface.
type AdminService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)

	ListPosts(ctx context.Context) ([]model.Post, error)
	GetPost(ctx context.Context, id uint) (*model.Post, error)
	SavePost(ctx context.Context, id uint, in PostInput) (*model.Post, error)
	DeletePost(ctx context.Context, id uint) error

	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, id uint) (*model.Project, error)
	SaveProject(ctx context.Context, id uint, in ProjectInput) (*model.Project, error)
	DeleteProject(ctx context.Context, id uint) error

	ListContacts(ctx context.Context) ([]model.Contact, error)
	MarkContactRead(ctx context.Context, id uint) error
	DeleteContact(ctx context.Context, id uint) error
}

type adminService struct {
	posts    repository.PostRepository
	projects repository.ProjectRepository
	contacts repository.ContactRepository
	images   upload.ImageStore
	metrics  metrics.Recorder
}

// NewAdminService builds the admin authoring service.
func NewAdminService(
	posts repository.PostRepository,
	projects repository.ProjectRepository,
	contacts repository.ContactRepository,
	images upload.ImageStore,
	rec metrics.Recorder,
) AdminService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &adminService{
		posts:    posts,
		projects: projects,
		contacts: contacts,
		images:   images,
		metrics:  rec,
	}
}

func (s *adminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var (
		stats DashboardStats
		err   error
	)
	if stats.PublishedPosts, err = s.posts.CountPublished(ctx); err != nil {
		return nil, err
	}
	if stats.Projects, err = s.projects.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Contacts, err = s.contacts.Count(ctx); err != nil {
		return nil, err
	}
	if stats.UnreadContacts, err = s.contacts.CountUnread(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *adminService) ListPosts(ctx context.Context) ([]model.Post, error) {
	return s.posts.ListAll(ctx)
}

func (s *adminService) GetPost(ctx context.Context, id uint) (*model.Post, error) {
	return s.posts.FindByID(ctx, id)
}

// SavePost creates (id == 0) or updates a post. Without a new image an update keeps
// the stored featured image.
func (s *adminService) SavePost(ctx context.Context, id uint, in PostInput) (*model.Post, error) {
	post := model.NewPost()
	if id != 0 {
		existing, err := s.posts.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		post = existing
	}

	post.Title = strings.TrimSpace(in.Title)
	post.Slug = normalizeSlug(in.Slug)
	post.Content = in.Content
	post.Excerpt = strings.TrimSpace(in.Excerpt)
	post.Category = strings.TrimSpace(in.Category)
	post.Tags = strings.Join(model.SplitList(in.Tags), ",")
	post.Published = in.Published

	if err := post.Validate(); err != nil {
		return nil, err
	}

	var stored []string
	previous := post.FeaturedImage
	if in.Image != nil {
		path, err := s.saveImage("featured_image", in.Image)
		if err != nil {
			return nil, err
		}
		stored = append(stored, path)
		post.FeaturedImage = path
	}

	if err := s.posts.Upsert(ctx, post); err != nil {
		s.discard(ctx, stored)
		return nil, err
	}
	if len(stored) > 0 && previous != "" {
		s.discard(ctx, []string{previous})
	}

	s.metrics.ContentWrite("post", writeOp(id))
	return post, nil
}

func (s *adminService) DeletePost(ctx context.Context, id uint) error {
	post, err := s.posts.FindByID(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	s.discard(ctx, []string{post.FeaturedImage})
	s.metrics.ContentWrite("post", "delete")
	return nil
}

func (s *adminService) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.projects.ListAll(ctx)
}

func (s *adminService) GetProject(ctx context.Context, id uint) (*model.Project, error) {
	return s.projects.FindByID(ctx, id)
}

// SaveProject creates (id == 0) or updates a project. Gallery uploads are appended to
// the stored images; without a new featured image an update keeps the stored one.
func (s *adminService) SaveProject(ctx context.Context, id uint, in ProjectInput) (*model.Project, error) {
	project := model.NewProject()
	if id != 0 {
		existing, err := s.projects.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		project = existing
	}

	project.Title = strings.TrimSpace(in.Title)
	project.Slug = normalizeSlug(in.Slug)
	project.Description = strings.TrimSpace(in.Description)
	project.Content = in.Content
	project.Category = strings.TrimSpace(in.Category)
	project.Technologies = strings.Join(model.SplitList(in.Technologies), ",")
	project.Link = strings.TrimSpace(in.Link)
	project.GitHub = strings.TrimSpace(in.GitHub)
	project.Published = in.Published

	if err := project.Validate(); err != nil {
		return nil, err
	}

	var stored []string
	previous := project.FeaturedImage
	if in.Image != nil {
		path, err := s.saveImage("featured_image", in.Image)
		if err != nil {
			return nil, err
		}
		stored = append(stored, path)
		project.FeaturedImage = path
	}
	for _, fh := range in.Gallery {
		path, err := s.saveImage("images", fh)
		if err != nil {
			s.discard(ctx, stored)
			return nil, err
		}
		stored = append(stored, path)
		project.Images = append(project.Images, path)
	}

	if err := s.projects.Upsert(ctx, project); err != nil {
		s.discard(ctx, stored)
		return nil, err
	}
	if in.Image != nil && previous != "" {
		s.discard(ctx, []string{previous})
	}

	s.metrics.ContentWrite("project", writeOp(id))
	return project, nil
}

func (s *adminService) DeleteProject(ctx context.Context, id uint) error {
	project, err := s.projects.FindByID(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	s.discard(ctx, append([]string{project.FeaturedImage}, project.Images...))
	s.metrics.ContentWrite("project", "delete")
	return nil
}

func (s *adminService) ListContacts(ctx context.Context) ([]model.Contact, error) {
	return s.contacts.List(ctx, AdminContactLimit)
}

func (s *adminService) MarkContactRead(ctx context.Context, id uint) error {
	_, err := s.contacts.MarkRead(ctx, id)
	return err
}

func (s *adminService) DeleteContact(ctx context.Context, id uint) error {
	_, err := s.contacts.Delete(ctx, id)
	return err
}

func (s *adminService) saveImage(field string, fh *multipart.FileHeader) (string, error) {
	path, err := s.images.Save(fh)
	switch {
	case errors.Is(err, upload.ErrUnsupportedType):
		return "", apperrors.NewValidationError(field, "must be a jpeg, png, gif or webp image")
	case errors.Is(err, upload.ErrTooLarge):
		return "", apperrors.NewValidationError(field, "is too large")
	case err != nil:
		return "", fmt.Errorf("store %s: %w", field, err)
	}
	return path, nil
}

// discard removes stored images on a best-effort basis.
func (s *adminService) discard(ctx context.Context, paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := s.images.Remove(p); err != nil {
			slog.WarnContext(ctx, "remove image", "path", p, "error", err)
		}
	}
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

func writeOp(id uint) string {
	if id == 0 {
		return "create"
	}
	return "update"
}
