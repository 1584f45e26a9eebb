package model

import (
	"time"

	"gorm.io/datatypes"
)

// Project is a portfolio entry.
type Project struct {
	ID            uint                       `json:"id" gorm:"primaryKey"`
	Title         string                     `json:"title" gorm:"size:255;not null" validate:"required,max=255"`
	Slug          string                     `json:"slug" gorm:"size:191;uniqueIndex;not null" validate:"required,max=191,slug"`
	Description   string                     `json:"description" gorm:"type:text;not null" validate:"required"`
	Content       string                     `json:"content,omitempty" gorm:"type:text"`
	FeaturedImage string                     `json:"featured_image,omitempty" gorm:"size:512"`
	Images        datatypes.JSONSlice[string] `json:"images,omitempty"`
	Category      string                     `json:"category,omitempty" gorm:"size:100;index"`
	Technologies  string                     `json:"technologies,omitempty" gorm:"size:512"` // comma-separated
	Link          string                     `json:"link,omitempty" gorm:"size:512" validate:"omitempty,url"`
	GitHub        string                     `json:"github,omitempty" gorm:"column:github;size:512" validate:"omitempty,url"`
	Published     bool                       `json:"published" gorm:"not null;index"`
	CreatedAt     time.Time                  `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// NewProject returns a Project with the defaults applied to fresh content.
func NewProject() *Project {
	return &Project{Published: true}
}

// Validate checks required fields, URLs and the slug format.
func (p *Project) Validate() error {
	return validateStruct(p)
}

// TechnologyList splits Technologies into trimmed, non-empty labels.
func (p *Project) TechnologyList() []string {
	return SplitList(p.Technologies)
}
