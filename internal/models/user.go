package models

import "gorm.io/gorm"

// User represents an account that can sign in to the admin interface.
type User struct {
	gorm.Model
	Login        string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:50;not null;default:'user';index"`
}

// IsAdmin reports whether the user may manage taxonomies.
func (u User) IsAdmin() bool {
	return u.Role == "admin"
}
