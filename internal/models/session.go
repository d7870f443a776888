package models

import (
	"time"
)

// StudySession tracks a single study period for one user on one calendar
// date. A session only counts toward streaks and badges once Completed is
// true; incomplete sessions may be deleted via cancellation.
type StudySession struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	User            User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Subject         string    `gorm:"not null;size:50" json:"subject"`
	DurationMinutes int       `gorm:"not null;default:0" json:"duration_minutes"`
	SessionDate     time.Time `gorm:"type:date;not null;index" json:"session_date"`
	StartTime       time.Time `gorm:"not null" json:"start_time"`
	Completed       bool      `gorm:"not null;default:false;index" json:"completed"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for StudySession model.
func (StudySession) TableName() string {
	return "study_sessions"
}

// DateOnly normalizes a timestamp to its calendar date at midnight UTC.
// All session_date values are stored and queried through this helper so
// that date equality behaves identically on PostgreSQL and SQLite.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
