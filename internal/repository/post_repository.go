package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"puppaka/internal/model"
)

// PostRepository defines post persistence operations.
type PostRepository interface {
	List(ctx context.Context, limit, offset int) ([]model.Post, error)
	ListAll(ctx context.Context) ([]model.Post, error)
	CountPublished(ctx context.Context) (int64, error)
	FindBySlug(ctx context.Context, slug string) (*model.Post, error)
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	Upsert(ctx context.Context, post *model.Post) error
	CreateIfAbsent(ctx context.Context, post *model.Post) (bool, error)
	Delete(ctx context.Context, id uint) (int64, error)
	Related(ctx context.Context, excludeID uint, limit int) ([]model.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository builds a GORM-backed post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// List returns published posts, newest first.
func (r *postRepository) List(ctx context.Context, limit, offset int) ([]model.Post, error) {
	if err := checkPage(limit, offset); err != nil {
		return nil, err
	}
	posts := []model.Post{}
	if limit == 0 {
		return posts, nil
	}
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order(newestFirst).
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, translate(err, "list posts")
	}
	return posts, nil
}

// ListAll returns every post including drafts, newest first.
func (r *postRepository) ListAll(ctx context.Context) ([]model.Post, error) {
	posts := []model.Post{}
	if err := r.db.WithContext(ctx).Order(newestFirst).Find(&posts).Error; err != nil {
		return nil, translate(err, "list all posts")
	}
	return posts, nil
}

func (r *postRepository) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Where("published = ?", true).Count(&count).Error; err != nil {
		return 0, translate(err, "count posts")
	}
	return count, nil
}

// FindBySlug returns the post regardless of its published flag.
func (r *postRepository) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, translate(err, "find post by slug")
	}
	return &post, nil
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err, "find post by id")
	}
	return &post, nil
}

// Upsert inserts the post when ID is zero, otherwise replaces every column of the
// existing row in one statement. ID and timestamps are written back into post.
func (r *postRepository) Upsert(ctx context.Context, post *model.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	if post.ID == 0 {
		return translate(r.db.WithContext(ctx).Create(post).Error, "create post")
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Post
		if err := tx.Select("id", "created_at").First(&existing, post.ID).Error; err != nil {
			return err
		}
		post.CreatedAt = existing.CreatedAt
		post.UpdatedAt = time.Now()
		return tx.Model(post).Select("*").Omit("id", "created_at").Updates(post).Error
	})
	return translate(err, "update post")
}

// CreateIfAbsent inserts the post unless its slug is already taken.
func (r *postRepository) CreateIfAbsent(ctx context.Context, post *model.Post) (bool, error) {
	if err := post.Validate(); err != nil {
		return false, err
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(post)
	if res.Error != nil {
		return false, translate(res.Error, "create post if absent")
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the post and reports how many rows went away (0 or 1).
func (r *postRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Post{}, id)
	if res.Error != nil {
		return 0, translate(res.Error, "delete post")
	}
	return res.RowsAffected, nil
}

// Related returns the most recent published posts other than excludeID.
func (r *postRepository) Related(ctx context.Context, excludeID uint, limit int) ([]model.Post, error) {
	if err := checkPage(limit, 0); err != nil {
		return nil, err
	}
	posts := []model.Post{}
	if limit == 0 {
		return posts, nil
	}
	err := r.db.WithContext(ctx).
		Where("id <> ? AND published = ?", excludeID, true).
		Order(newestFirst).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, translate(err, "related posts")
	}
	return posts, nil
}
