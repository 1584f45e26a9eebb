package service

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"puppaka/internal/auth"
	"puppaka/internal/db"
	"puppaka/internal/model"
	"puppaka/internal/repository"
)

// BootstrapOptions configures the first-run administrator and example content.
type BootstrapOptions struct {
	AdminUsername string
	AdminPassword string
	AdminEmail    string
	SeedExamples  bool
}

// BootstrapResult reports what a bootstrap run inserted.
type BootstrapResult struct {
	AdminCreated    bool
	PostsCreated    int
	ProjectsCreated int
}

// Bootstrapper ensures the schema, the default administrator and optional example
// content exist. Running it again changes nothing.
type Bootstrapper struct {
	db       *gorm.DB
	users    repository.UserRepository
	posts    repository.PostRepository
	projects repository.ProjectRepository
	opts     BootstrapOptions
}

// NewBootstrapper creates a Bootstrapper over the given database.
func NewBootstrapper(gormDB *gorm.DB, opts BootstrapOptions) *Bootstrapper {
	return &Bootstrapper{
		db:       gormDB,
		users:    repository.NewUserRepository(gormDB),
		posts:    repository.NewPostRepository(gormDB),
		projects: repository.NewProjectRepository(gormDB),
		opts:     opts,
	}
}

// Run migrates the schema and inserts missing seed rows.
func (b *Bootstrapper) Run(ctx context.Context) (*BootstrapResult, error) {
	if err := db.Migrate(ctx, b.db); err != nil {
		return nil, err
	}

	var result BootstrapResult

	count, err := b.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if count == 0 {
		hash, err := auth.HashPassword(b.opts.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		created, err := b.users.CreateIfAbsent(ctx, &model.User{
			Username: b.opts.AdminUsername,
			Password: hash,
			Email:    b.opts.AdminEmail,
			Role:     model.RoleAdmin,
		})
		if err != nil {
			return nil, fmt.Errorf("create admin: %w", err)
		}
		result.AdminCreated = created
		if created {
			slog.InfoContext(ctx, "default administrator created", "username", b.opts.AdminUsername)
		}
	}

	if b.opts.SeedExamples {
		for _, post := range examplePosts() {
			created, err := b.posts.CreateIfAbsent(ctx, post)
			if err != nil {
				return nil, fmt.Errorf("seed post %q: %w", post.Slug, err)
			}
			if created {
				result.PostsCreated++
			}
		}
		for _, project := range exampleProjects() {
			created, err := b.projects.CreateIfAbsent(ctx, project)
			if err != nil {
				return nil, fmt.Errorf("seed project %q: %w", project.Slug, err)
			}
			if created {
				result.ProjectsCreated++
			}
		}
	}

	slog.InfoContext(ctx, "bootstrap complete",
		"admin_created", result.AdminCreated,
		"posts_created", result.PostsCreated,
		"projects_created", result.ProjectsCreated,
	)
	return &result, nil
}

func examplePosts() []*model.Post {
	gettingStarted := model.NewPost()
	gettingStarted.Title = "Getting started with PUPPAKA"
	gettingStarted.Slug = "getting-started"
	gettingStarted.Content = "Welcome! This is the first post on the PUPPAKA site.\n\n" +
		"PUPPAKA is a personal site for a blog and a portfolio."
	gettingStarted.Excerpt = "Welcome to PUPPAKA, a modern personal site."
	gettingStarted.Category = "Tutorial"
	gettingStarted.Tags = "getting-started,tutorial"

	darkTech := model.NewPost()
	darkTech.Title = "Dark tech design"
	darkTech.Slug = "dark-tech-design"
	darkTech.Content = "PUPPAKA uses a dark tech look with neon highlights and gradients."
	darkTech.Excerpt = "The ideas behind the dark tech look."
	darkTech.Category = "Design"
	darkTech.Tags = "design,dark,tech"

	return []*model.Post{gettingStarted, darkTech}
}

func exampleProjects() []*model.Project {
	site := model.NewProject()
	site.Title = "PUPPAKA website"
	site.Slug = "puppaka-website"
	site.Description = "A dynamic personal website project."
	site.Content = "A blog and portfolio platform with an admin panel."
	site.Category = "Web development"
	site.Technologies = "Go,Echo,GORM,SQLite"

	return []*model.Project{site}
}
