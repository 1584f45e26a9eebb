package model

import "time"

// Contact is a message submitted through the public contact form.
// Only Read ever changes after insert.
type Contact struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null" validate:"required,max=255"`
	Email     string    `json:"email" gorm:"size:255;not null" validate:"required,email,max=255"`
	Subject   string    `json:"subject,omitempty" gorm:"size:255" validate:"max=255"`
	Message   string    `json:"message" gorm:"type:text;not null" validate:"required,max=10000"`
	Read      bool      `json:"read" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// Validate checks the submission before it is stored.
func (c *Contact) Validate() error {
	return validateStruct(c)
}
