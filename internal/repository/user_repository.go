package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"puppaka/internal/model"
)

// UserRepository defines administrator account persistence.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
	CreateIfAbsent(ctx context.Context, user *model.User) (bool, error)
	Count(ctx context.Context) (int64, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err, "find user")
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "find user by id")
	}
	return &user, nil
}

// CreateIfAbsent inserts the user unless the username is already taken.
func (r *userRepository) CreateIfAbsent(ctx context.Context, user *model.User) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}).
		Create(user)
	if res.Error != nil {
		return false, translate(res.Error, "create user")
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, translate(err, "count users")
	}
	return count, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return translate(res.Error, "update password")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "update password")
	}
	return nil
}
