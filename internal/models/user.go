// Package models defines domain models for the study streak motivator.
package models

import (
	"time"
)

// DefaultUserID is the single hardcoded student profile the application
// tracks. There is no authentication layer; requests that do not name a
// user operate on this one.
const DefaultUserID uint = 1

// User represents a student profile.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null;size:80" json:"username"`
	Email     string    `gorm:"size:120" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model.
func (User) TableName() string {
	return "users"
}
