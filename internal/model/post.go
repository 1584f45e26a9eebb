package model

import "time"

// Post is a blog article. Content is markdown.
type Post struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Title         string    `json:"title" gorm:"size:255;not null" validate:"required,max=255"`
	Slug          string    `json:"slug" gorm:"size:191;uniqueIndex;not null" validate:"required,max=191,slug"`
	Content       string    `json:"content" gorm:"type:text;not null" validate:"required"`
	Excerpt       string    `json:"excerpt,omitempty" gorm:"type:text"`
	FeaturedImage string    `json:"featured_image,omitempty" gorm:"size:512"`
	Category      string    `json:"category,omitempty" gorm:"size:100;index"`
	Tags          string    `json:"tags,omitempty" gorm:"size:512"` // comma-separated
	Published     bool      `json:"published" gorm:"not null;index"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewPost returns a Post with the defaults applied to fresh content.
func NewPost() *Post {
	return &Post{Published: true}
}

// Validate checks required fields and the slug format.
func (p *Post) Validate() error {
	return validateStruct(p)
}

// TagList splits Tags into trimmed, non-empty labels.
func (p *Post) TagList() []string {
	return SplitList(p.Tags)
}
