package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"puppaka/internal/config"
	"puppaka/internal/db"
	apperrors "puppaka/internal/errors"
	"puppaka/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.Open(db.Options{Backend: config.BackendMemory})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background(), gormDB))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}

func samplePost(slug string) *model.Post {
	p := model.NewPost()
	p.Title = "Title " + slug
	p.Slug = slug
	p.Content = "# Heading\n\nBody of " + slug
	p.Excerpt = "excerpt"
	p.Category = "notes"
	p.Tags = "go,web"
	return p
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, "op"))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound, "op"), apperrors.ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey, "op"), apperrors.ErrConflict)
	assert.ErrorIs(t, translate(fmt.Errorf("UNIQUE constraint failed: posts.slug"), "op"), apperrors.ErrConflict)
	assert.ErrorIs(t, translate(fmt.Errorf("sql: database is closed"), "op"), apperrors.ErrStorageUnavailable)

	verr := apperrors.NewValidationError("title", "is required")
	assert.Same(t, verr, translate(verr, "op"))
}
