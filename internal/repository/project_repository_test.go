package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "puppaka/internal/errors"
	"puppaka/internal/model"
)

func sampleProject(slug string) *model.Project {
	p := model.NewProject()
	p.Title = "Project " + slug
	p.Slug = slug
	p.Description = "A project"
	p.Technologies = "Go,Echo,SQLite"
	p.Link = "https://example.com/" + slug
	p.GitHub = "https://github.com/example/" + slug
	p.Images = []string{"/uploads/a.png", "/uploads/b.png"}
	return p
}

func TestProjectRepository_CRUD(t *testing.T) {
	repo := NewProjectRepository(newTestDB(t))
	ctx := context.Background()

	in := sampleProject("portfolio-site")
	require.NoError(t, repo.Upsert(ctx, in))

	got, err := repo.FindBySlug(ctx, "portfolio-site")
	require.NoError(t, err)
	assert.Equal(t, in.Description, got.Description)
	assert.Equal(t, []string{"/uploads/a.png", "/uploads/b.png"}, []string(got.Images))
	assert.Equal(t, in.GitHub, got.GitHub)

	got.Description = "Updated"
	got.Images = append(got.Images, "/uploads/c.png")
	require.NoError(t, repo.Upsert(ctx, got))

	again, err := repo.FindByID(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", again.Description)
	assert.Len(t, again.Images, 3)

	assert.ErrorIs(t, repo.Upsert(ctx, sampleProject("portfolio-site")), apperrors.ErrConflict)

	n, err := repo.Delete(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = repo.FindBySlug(ctx, "portfolio-site")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProjectRepository_ListAndCounts(t *testing.T) {
	repo := NewProjectRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, sampleProject("one")))
	require.NoError(t, repo.Upsert(ctx, sampleProject("two")))
	draft := sampleProject("draft")
	draft.Published = false
	require.NoError(t, repo.Upsert(ctx, draft))

	published, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, "two", published[0].Slug)

	n, err := repo.CountPublished(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProjectRepository_RequiresDescription(t *testing.T) {
	repo := NewProjectRepository(newTestDB(t))

	p := sampleProject("no-desc")
	p.Description = ""
	assert.True(t, apperrors.IsValidation(repo.Upsert(context.Background(), p)))
}
