package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"puppaka/internal/model"
)

// ContactRepository defines contact persistence operations. Contacts are append-only
// apart from the read flag.
type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) (uint, error)
	List(ctx context.Context, limit int) ([]model.Contact, error)
	MarkRead(ctx context.Context, id uint) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository builds a GORM-backed contact repository.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

// Create always inserts; the read flag starts cleared whatever the caller set.
func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) (uint, error) {
	if err := contact.Validate(); err != nil {
		return 0, err
	}
	contact.ID = 0
	contact.Read = false
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		return 0, translate(err, "create contact")
	}
	return contact.ID, nil
}

func (r *contactRepository) List(ctx context.Context, limit int) ([]model.Contact, error) {
	if err := checkPage(limit, 0); err != nil {
		return nil, err
	}
	contacts := []model.Contact{}
	if limit == 0 {
		return contacts, nil
	}
	if err := r.db.WithContext(ctx).Order(newestFirst).Limit(limit).Find(&contacts).Error; err != nil {
		return nil, translate(err, "list contacts")
	}
	return contacts, nil
}

func (r *contactRepository) MarkRead(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Contact{}).Where("id = ?", id).Update("read", true)
	if res.Error != nil {
		return 0, translate(res.Error, "mark contact read")
	}
	return res.RowsAffected, nil
}

func (r *contactRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Contact{}, id)
	if res.Error != nil {
		return 0, translate(res.Error, "delete contact")
	}
	return res.RowsAffected, nil
}

func (r *contactRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Contact{}).Count(&count).Error; err != nil {
		return 0, translate(err, "count contacts")
	}
	return count, nil
}

func (r *contactRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Contact{}).
		Where(clause.Eq{Column: clause.Column{Name: "read"}, Value: false}).
		Count(&count).Error
	if err != nil {
		return 0, translate(err, "count unread contacts")
	}
	return count, nil
}
