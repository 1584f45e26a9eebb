package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"puppaka/internal/model"
)

// ProjectRepository defines project persistence operations.
type ProjectRepository interface {
	List(ctx context.Context, limit, offset int) ([]model.Project, error)
	ListAll(ctx context.Context) ([]model.Project, error)
	CountPublished(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
	FindBySlug(ctx context.Context, slug string) (*model.Project, error)
	FindByID(ctx context.Context, id uint) (*model.Project, error)
	Upsert(ctx context.Context, project *model.Project) error
	CreateIfAbsent(ctx context.Context, project *model.Project) (bool, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository builds a GORM-backed project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) List(ctx context.Context, limit, offset int) ([]model.Project, error) {
	if err := checkPage(limit, offset); err != nil {
		return nil, err
	}
	projects := []model.Project{}
	if limit == 0 {
		return projects, nil
	}
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order(newestFirst).
		Limit(limit).Offset(offset).
		Find(&projects).Error
	if err != nil {
		return nil, translate(err, "list projects")
	}
	return projects, nil
}

func (r *projectRepository) ListAll(ctx context.Context) ([]model.Project, error) {
	projects := []model.Project{}
	if err := r.db.WithContext(ctx).Order(newestFirst).Find(&projects).Error; err != nil {
		return nil, translate(err, "list all projects")
	}
	return projects, nil
}

func (r *projectRepository) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Project{}).Where("published = ?", true).Count(&count).Error; err != nil {
		return 0, translate(err, "count projects")
	}
	return count, nil
}

func (r *projectRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Project{}).Count(&count).Error; err != nil {
		return 0, translate(err, "count all projects")
	}
	return count, nil
}

func (r *projectRepository) FindBySlug(ctx context.Context, slug string) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&project).Error; err != nil {
		return nil, translate(err, "find project by slug")
	}
	return &project, nil
}

func (r *projectRepository) FindByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, translate(err, "find project by id")
	}
	return &project, nil
}

func (r *projectRepository) Upsert(ctx context.Context, project *model.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}
	if project.ID == 0 {
		return translate(r.db.WithContext(ctx).Create(project).Error, "create project")
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Project
		if err := tx.Select("id", "created_at").First(&existing, project.ID).Error; err != nil {
			return err
		}
		project.CreatedAt = existing.CreatedAt
		project.UpdatedAt = time.Now()
		return tx.Model(project).Select("*").Omit("id", "created_at").Updates(project).Error
	})
	return translate(err, "update project")
}

func (r *projectRepository) CreateIfAbsent(ctx context.Context, project *model.Project) (bool, error) {
	if err := project.Validate(); err != nil {
		return false, err
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(project)
	if res.Error != nil {
		return false, translate(res.Error, "create project if absent")
	}
	return res.RowsAffected > 0, nil
}

func (r *projectRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Project{}, id)
	if res.Error != nil {
		return 0, translate(res.Error, "delete project")
	}
	return res.RowsAffected, nil
}
