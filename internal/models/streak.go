package models

import (
	"time"
)

// Streak is the persisted summary of a user's current consecutive-day run.
// At most one active streak exists per user; the row is recomputed from the
// session history on every relevant event and deactivated when the run
// breaks.
type Streak struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	StartDate   time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate     *time.Time `gorm:"type:date" json:"end_date"` // nil while active
	CurrentDays int        `gorm:"not null;default:1" json:"current_days"`
	IsActive    bool       `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Streak model.
func (Streak) TableName() string {
	return "streaks"
}
