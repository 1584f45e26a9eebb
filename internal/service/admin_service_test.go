package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	apperrors "puppaka/internal/errors"
	"puppaka/internal/metrics"
	"puppaka/internal/model"
	"puppaka/internal/upload"
)

type adminFixture struct {
	posts    *MockPostRepository
	projects *MockProjectRepository
	contacts *MockContactRepository
	images   *MockImageStore
	svc      AdminService
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		posts:    new(MockPostRepository),
		projects: new(MockProjectRepository),
		contacts: new(MockContactRepository),
		images:   new(MockImageStore),
	}
	f.svc = NewAdminService(f.posts, f.projects, f.contacts, f.images, metrics.Nop{})
	return f
}

func TestAdminService_SavePost_ValidationStoresNothing(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	_, err := f.svc.SavePost(ctx, 0, PostInput{
		Title: "  ",
		Slug:  "hello",
		Image: &multipart.FileHeader{Filename: "a.png"},
	})

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "content")
	f.images.AssertNotCalled(t, "Save", mock.Anything)
	f.posts.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAdminService_SavePost_CreateNormalizesInput(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	fh := &multipart.FileHeader{Filename: "cover.png"}

	f.images.On("Save", fh).Return("/uploads/cover.png", nil)
	f.posts.On("Upsert", ctx, mock.AnythingOfType("*model.Post")).Return(nil)

	post, err := f.svc.SavePost(ctx, 0, PostInput{
		Title:     " Hello ",
		Slug:      " Hello-World ",
		Content:   "body",
		Tags:      "go, web,,",
		Published: true,
		Image:     fh,
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, "go,web", post.Tags)
	assert.Equal(t, "/uploads/cover.png", post.FeaturedImage)
	assert.True(t, post.Published)
}

func TestAdminService_SavePost_UpdateKeepsImage(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	stored := &model.Post{ID: 4, Title: "Old", Slug: "old", Content: "x", FeaturedImage: "/uploads/keep.png", Published: true}

	f.posts.On("FindByID", ctx, uint(4)).Return(stored, nil)
	f.posts.On("Upsert", ctx, stored).Return(nil)

	post, err := f.svc.SavePost(ctx, 4, PostInput{Title: "New", Slug: "old", Content: "y"})

	require.NoError(t, err)
	assert.Equal(t, "/uploads/keep.png", post.FeaturedImage)
	assert.False(t, post.Published)
	f.images.AssertNotCalled(t, "Save", mock.Anything)
	f.images.AssertNotCalled(t, "Remove", mock.Anything)
}

func TestAdminService_SavePost_ReplacedImageIsRemoved(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	fh := &multipart.FileHeader{Filename: "new.png"}
	stored := &model.Post{ID: 4, Title: "Old", Slug: "old", Content: "x", FeaturedImage: "/uploads/old.png"}

	f.posts.On("FindByID", ctx, uint(4)).Return(stored, nil)
	f.images.On("Save", fh).Return("/uploads/new.png", nil)
	f.posts.On("Upsert", ctx, stored).Return(nil)
	f.images.On("Remove", "/uploads/old.png").Return(nil)

	post, err := f.svc.SavePost(ctx, 4, PostInput{Title: "Old", Slug: "old", Content: "x", Image: fh})

	require.NoError(t, err)
	assert.Equal(t, "/uploads/new.png", post.FeaturedImage)
	f.images.AssertExpectations(t)
}

func TestAdminService_SavePost_ConflictRemovesUpload(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	fh := &multipart.FileHeader{Filename: "cover.png"}

	f.images.On("Save", fh).Return("/uploads/cover.png", nil)
	f.posts.On("Upsert", ctx, mock.Anything).Return(fmt.Errorf("create post: %w", apperrors.ErrConflict))
	f.images.On("Remove", "/uploads/cover.png").Return(nil)

	_, err := f.svc.SavePost(ctx, 0, PostInput{Title: "T", Slug: "taken", Content: "c", Image: fh})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	f.images.AssertExpectations(t)
}

func TestAdminService_SavePost_RejectedUpload(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	fh := &multipart.FileHeader{Filename: "evil.php"}

	f.images.On("Save", fh).Return("", upload.ErrUnsupportedType)

	_, err := f.svc.SavePost(ctx, 0, PostInput{Title: "T", Slug: "t", Content: "c", Image: fh})

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "featured_image")
	f.posts.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAdminService_SavePost_UnknownID(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	f.posts.On("FindByID", ctx, uint(99)).Return(nil, apperrors.ErrNotFound)

	_, err := f.svc.SavePost(ctx, 99, PostInput{Title: "T", Slug: "t", Content: "c"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAdminService_SaveProject_AppendsGallery(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	g1 := &multipart.FileHeader{Filename: "1.png"}
	g2 := &multipart.FileHeader{Filename: "2.png"}
	stored := &model.Project{
		ID: 2, Title: "Site", Slug: "site", Description: "d",
		FeaturedImage: "/uploads/cover.png",
		Images:        datatypes.JSONSlice[string]{"/uploads/0.png"},
	}

	f.projects.On("FindByID", ctx, uint(2)).Return(stored, nil)
	f.images.On("Save", g1).Return("/uploads/1.png", nil)
	f.images.On("Save", g2).Return("/uploads/2.png", nil)
	f.projects.On("Upsert", ctx, stored).Return(nil)

	project, err := f.svc.SaveProject(ctx, 2, ProjectInput{
		Title: "Site", Slug: "site", Description: "d", Published: true,
		Link:    "https://example.com",
		Gallery: []*multipart.FileHeader{g1, g2},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/0.png", "/uploads/1.png", "/uploads/2.png"}, []string(project.Images))
	assert.Equal(t, "/uploads/cover.png", project.FeaturedImage)
	f.images.AssertNotCalled(t, "Remove", mock.Anything)
}

func TestAdminService_SaveProject_GalleryFailureCleansUp(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()
	cover := &multipart.FileHeader{Filename: "cover.png"}
	bad := &multipart.FileHeader{Filename: "huge.png"}

	f.images.On("Save", cover).Return("/uploads/cover.png", nil)
	f.images.On("Save", bad).Return("", upload.ErrTooLarge)
	f.images.On("Remove", "/uploads/cover.png").Return(nil)

	_, err := f.svc.SaveProject(ctx, 0, ProjectInput{
		Title: "Site", Slug: "site", Description: "d",
		Image:   cover,
		Gallery: []*multipart.FileHeader{bad},
	})

	assert.True(t, apperrors.IsValidation(err))
	f.images.AssertExpectations(t)
	f.projects.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAdminService_DeletePost(t *testing.T) {
	ctx := context.Background()

	t.Run("removes row and image", func(t *testing.T) {
		f := newAdminFixture()
		f.posts.On("FindByID", ctx, uint(3)).Return(&model.Post{ID: 3, FeaturedImage: "/uploads/x.png"}, nil)
		f.posts.On("Delete", ctx, uint(3)).Return(int64(1), nil)
		f.images.On("Remove", "/uploads/x.png").Return(nil)

		require.NoError(t, f.svc.DeletePost(ctx, 3))
		f.posts.AssertExpectations(t)
		f.images.AssertExpectations(t)
	})

	t.Run("absent id is not an error", func(t *testing.T) {
		f := newAdminFixture()
		f.posts.On("FindByID", ctx, uint(3)).Return(nil, apperrors.ErrNotFound)

		assert.NoError(t, f.svc.DeletePost(ctx, 3))
		f.posts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestAdminService_Dashboard(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	f.posts.On("CountPublished", ctx).Return(int64(4), nil)
	f.projects.On("Count", ctx).Return(int64(2), nil)
	f.contacts.On("Count", ctx).Return(int64(9), nil)
	f.contacts.On("CountUnread", ctx).Return(int64(3), nil)

	stats, err := f.svc.Dashboard(ctx)

	require.NoError(t, err)
	assert.Equal(t, &DashboardStats{PublishedPosts: 4, Projects: 2, Contacts: 9, UnreadContacts: 3}, stats)
}

func TestAdminService_Contacts(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	f.contacts.On("List", ctx, AdminContactLimit).Return([]model.Contact{{ID: 2}, {ID: 1}}, nil)
	f.contacts.On("MarkRead", ctx, uint(2)).Return(int64(0), nil)
	f.contacts.On("Delete", ctx, uint(1)).Return(int64(0), errors.New("boom"))

	list, err := f.svc.ListContacts(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	assert.NoError(t, f.svc.MarkContactRead(ctx, 2))
	assert.EqualError(t, f.svc.DeleteContact(ctx, 1), "boom")
}
