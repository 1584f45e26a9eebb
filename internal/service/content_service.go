package service

import (
	"context"
	"fmt"

	apperrors "puppaka/internal/errors"
	"puppaka/internal/model"
	"puppaka/internal/repository"
)

const (
	// BlogPageSize is the number of posts per blog listing page.
	BlogPageSize = 10
	// HomeLimit caps the recent posts and projects on the landing page.
	HomeLimit = 6
	// RelatedLimit caps the related posts shown under a post.
	RelatedLimit = 3
	// MaxListLimit caps public listings, including the JSON API.
	MaxListLimit = 100
)

// HomePage is the content of the landing page.
type HomePage struct {
	Posts    []model.Post
	Projects []model.Project
}

// BlogPage is one page of the blog listing.
type BlogPage struct {
	Posts      []model.Post
	Page       int
	TotalPages int
	Total      int64
}

// HasPrev reports whether a previous page exists.
func (p *BlogPage) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p *BlogPage) HasNext() bool { return p.Page < p.TotalPages }

// PostPage is a post together with its related posts.
type PostPage struct {
	Post    *model.Post
	Related []model.Post
}

// ContentService is the read-only view of published content.
type ContentService interface {
	Home(ctx context.Context) (*HomePage, error)
	Blog(ctx context.Context, page int) (*BlogPage, error)
	Post(ctx context.Context, slug string) (*PostPage, error)
	Posts(ctx context.Context, limit int) ([]model.Post, error)
	Projects(ctx context.Context, limit int) ([]model.Project, error)
	Project(ctx context.Context, slug string) (*model.Project, error)
}

type contentService struct {
	posts    repository.PostRepository
	projects repository.ProjectRepository
}

// NewContentService builds the public content service.
func NewContentService(posts repository.PostRepository, projects repository.ProjectRepository) ContentService {
	return &contentService{posts: posts, projects: projects}
}

func (s *contentService) Home(ctx context.Context) (*HomePage, error) {
	posts, err := s.posts.List(ctx, HomeLimit, 0)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.List(ctx, HomeLimit, 0)
	if err != nil {
		return nil, err
	}
	return &HomePage{Posts: posts, Projects: projects}, nil
}

// Blog returns the given 1-based page. Pages below 1 are treated as page 1.
func (s *contentService) Blog(ctx context.Context, page int) (*BlogPage, error) {
	if page < 1 {
		page = 1
	}
	total, err := s.posts.CountPublished(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.List(ctx, BlogPageSize, (page-1)*BlogPageSize)
	if err != nil {
		return nil, err
	}
	return &BlogPage{
		Posts:      posts,
		Page:       page,
		TotalPages: int((total + BlogPageSize - 1) / BlogPageSize),
		Total:      total,
	}, nil
}

// Post returns a published post by slug. Drafts are reported as not found.
func (s *contentService) Post(ctx context.Context, slug string) (*PostPage, error) {
	post, err := s.posts.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !post.Published {
		return nil, fmt.Errorf("post %q: %w", slug, apperrors.ErrNotFound)
	}
	related, err := s.posts.Related(ctx, post.ID, RelatedLimit)
	if err != nil {
		return nil, err
	}
	return &PostPage{Post: post, Related: related}, nil
}

func (s *contentService) Posts(ctx context.Context, limit int) ([]model.Post, error) {
	return s.posts.List(ctx, clampLimit(limit), 0)
}

func (s *contentService) Projects(ctx context.Context, limit int) ([]model.Project, error) {
	return s.projects.List(ctx, clampLimit(limit), 0)
}

// Project returns a published project by slug. Drafts are reported as not found.
func (s *contentService) Project(ctx context.Context, slug string) (*model.Project, error) {
	project, err := s.projects.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !project.Published {
		return nil, fmt.Errorf("project %q: %w", slug, apperrors.ErrNotFound)
	}
	return project, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
