package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "puppaka/internal/errors"
	"puppaka/internal/model"
)

func TestContentService_Blog(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		total      int64
		wantOffset int
		wantPage   int
		wantPages  int
	}{
		{name: "first page", page: 1, total: 25, wantOffset: 0, wantPage: 1, wantPages: 3},
		{name: "third page", page: 3, total: 25, wantOffset: 20, wantPage: 3, wantPages: 3},
		{name: "page below one", page: -4, total: 10, wantOffset: 0, wantPage: 1, wantPages: 1},
		{name: "empty blog", page: 1, total: 0, wantOffset: 0, wantPage: 1, wantPages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := new(MockPostRepository)
			svc := NewContentService(posts, new(MockProjectRepository))
			ctx := context.Background()

			posts.On("CountPublished", ctx).Return(tt.total, nil)
			posts.On("List", ctx, BlogPageSize, tt.wantOffset).Return([]model.Post{}, nil)

			page, err := svc.Blog(ctx, tt.page)

			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantPages, page.TotalPages)
			posts.AssertExpectations(t)
		})
	}
}

func TestContentService_Post(t *testing.T) {
	ctx := context.Background()

	t.Run("published with related", func(t *testing.T) {
		posts := new(MockPostRepository)
		svc := NewContentService(posts, new(MockProjectRepository))
		post := &model.Post{ID: 7, Slug: "hello", Published: true}
		related := []model.Post{{ID: 6}, {ID: 5}}

		posts.On("FindBySlug", ctx, "hello").Return(post, nil)
		posts.On("Related", ctx, uint(7), RelatedLimit).Return(related, nil)

		page, err := svc.Post(ctx, "hello")

		require.NoError(t, err)
		assert.Equal(t, post, page.Post)
		assert.Equal(t, related, page.Related)
	})

	t.Run("draft is not found", func(t *testing.T) {
		posts := new(MockPostRepository)
		svc := NewContentService(posts, new(MockProjectRepository))
		posts.On("FindBySlug", ctx, "draft").Return(&model.Post{ID: 3, Slug: "draft"}, nil)

		_, err := svc.Post(ctx, "draft")

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		posts.AssertNotCalled(t, "Related", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown slug", func(t *testing.T) {
		posts := new(MockPostRepository)
		svc := NewContentService(posts, new(MockProjectRepository))
		posts.On("FindBySlug", ctx, "nope").Return(nil, fmt.Errorf("find post: %w", apperrors.ErrNotFound))

		_, err := svc.Post(ctx, "nope")

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestContentService_Project_DraftIsNotFound(t *testing.T) {
	projects := new(MockProjectRepository)
	svc := NewContentService(new(MockPostRepository), projects)
	ctx := context.Background()

	projects.On("FindBySlug", ctx, "secret").Return(&model.Project{Slug: "secret"}, nil)

	_, err := svc.Project(ctx, "secret")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestContentService_ListsAreCapped(t *testing.T) {
	posts := new(MockPostRepository)
	projects := new(MockProjectRepository)
	svc := NewContentService(posts, projects)
	ctx := context.Background()

	posts.On("List", ctx, MaxListLimit, 0).Return([]model.Post{}, nil)
	projects.On("List", ctx, MaxListLimit, 0).Return([]model.Project{}, nil)
	projects.On("List", ctx, 5, 0).Return([]model.Project{}, nil)

	_, err := svc.Posts(ctx, 10000)
	require.NoError(t, err)
	_, err = svc.Projects(ctx, 0)
	require.NoError(t, err)
	_, err = svc.Projects(ctx, 5)
	require.NoError(t, err)

	posts.AssertExpectations(t)
	projects.AssertExpectations(t)
}

func TestContentService_Home(t *testing.T) {
	posts := new(MockPostRepository)
	projects := new(MockProjectRepository)
	svc := NewContentService(posts, projects)
	ctx := context.Background()

	posts.On("List", ctx, HomeLimit, 0).Return([]model.Post{{ID: 1}}, nil)
	projects.On("List", ctx, HomeLimit, 0).Return([]model.Project{{ID: 2}}, nil)

	home, err := svc.Home(ctx)

	require.NoError(t, err)
	assert.Len(t, home.Posts, 1)
	assert.Len(t, home.Projects, 1)
}
