package model

import "time"

// RoleAdmin is the role given to accounts created by bootstrap.
const RoleAdmin = "admin"

// User represents an administrator account.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"size:191;uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"column:password;size:255;not null"` // bcrypt hash, never plaintext
	Email     string    `json:"email,omitempty" gorm:"size:255"`
	Role      string    `json:"role" gorm:"size:50;default:'admin'"`
	CreatedAt time.Time `json:"created_at"`
}
