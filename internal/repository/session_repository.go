package repository

import (
	"fmt"
	"time"

	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/models"
)

// DayTotal is the aggregate completed study time for one calendar date.
type DayTotal struct {
	Date         time.Time `json:"date"`
	TotalMinutes int       `json:"total_minutes"`
}

// SubjectStat is the aggregate completed study time for one subject.
type SubjectStat struct {
	Subject      string `json:"subject"`
	SessionCount int    `json:"session_count"`
	TotalMinutes int    `json:"total_minutes"`
}

// SessionRepository handles study session database operations.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new study session.
func (r *SessionRepository) Create(session *models.StudySession) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create study session: %w", err)
	}
	return nil
}

// GetByID retrieves a study session by its ID.
func (r *SessionRepository) GetByID(id uint) (*models.StudySession, error) {
	var session models.StudySession
	if err := r.db.First(&session, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get study session %d: %w", id, err)
	}
	return &session, nil
}

// Save persists changes to an existing study session.
func (r *SessionRepository) Save(session *models.StudySession) error {
	if err := r.db.Save(session).Error; err != nil {
		return fmt.Errorf("failed to save study session: %w", err)
	}
	return nil
}

// Delete removes a study session by its ID.
func (r *SessionRepository) Delete(id uint) error {
	if err := r.db.Delete(&models.StudySession{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete study session %d: %w", id, err)
	}
	return nil
}

// CountCompleted returns the number of completed sessions for a user.
func (r *SessionRepository) CountCompleted(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.StudySession{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count completed sessions: %w", err)
	}
	return count, nil
}

// TotalMinutes returns the sum of completed session minutes for a user.
func (r *SessionRepository) TotalMinutes(userID uint) (int, error) {
	var total int
	err := r.db.Model(&models.StudySession{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Select("COALESCE(SUM(duration_minutes), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum study minutes: %w", err)
	}
	return total, nil
}

// SubjectMinutes returns the sum of completed session minutes for one subject.
func (r *SessionRepository) SubjectMinutes(userID uint, subject string) (int, error) {
	var total int
	err := r.db.Model(&models.StudySession{}).
		Where("user_id = ? AND subject = ? AND completed = ?", userID, subject, true).
		Select("COALESCE(SUM(duration_minutes), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum subject minutes for %q: %w", subject, err)
	}
	return total, nil
}

// MinutesOnDate returns the sum of completed session minutes on one calendar
// date. The date is normalized through models.DateOnly before comparison.
func (r *SessionRepository) MinutesOnDate(userID uint, date time.Time) (int, error) {
	var total int
	err := r.db.Model(&models.StudySession{}).
		Where("user_id = ? AND session_date = ? AND completed = ?", userID, models.DateOnly(date), true).
		Select("COALESCE(SUM(duration_minutes), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum minutes on date: %w", err)
	}
	return total, nil
}

// DailyTotals returns per-date completed minute totals, ordered by date
// ascending. This is the single scan the streak calculator works from.
func (r *SessionRepository) DailyTotals(userID uint) ([]DayTotal, error) {
	var totals []DayTotal
	err := r.db.Model(&models.StudySession{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Select("session_date AS date, SUM(duration_minutes) AS total_minutes").
		Group("session_date").
		Order("session_date ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily totals: %w", err)
	}
	return totals, nil
}

// CompletedSessions returns all completed sessions for a user, ordered by
// session date ascending.
func (r *SessionRepository) CompletedSessions(userID uint) ([]models.StudySession, error) {
	var sessions []models.StudySession
	err := r.db.
		Where("user_id = ? AND completed = ?", userID, true).
		Order("session_date ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list completed sessions: %w", err)
	}
	return sessions, nil
}

// CompletedInRange returns completed sessions whose date falls within the
// inclusive [start, end] range.
func (r *SessionRepository) CompletedInRange(userID uint, start, end time.Time) ([]models.StudySession, error) {
	var sessions []models.StudySession
	err := r.db.
		Where("user_id = ? AND completed = ? AND session_date >= ? AND session_date <= ?",
			userID, true, models.DateOnly(start), models.DateOnly(end)).
		Order("session_date ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions in range: %w", err)
	}
	return sessions, nil
}

// LongestSessionMinutes returns the duration of the user's longest completed
// session, or zero when none exist.
func (r *SessionRepository) LongestSessionMinutes(userID uint) (int, error) {
	var longest int
	err := r.db.Model(&models.StudySession{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Select("COALESCE(MAX(duration_minutes), 0)").
		Scan(&longest).Error
	if err != nil {
		return 0, fmt.Errorf("failed to find longest session: %w", err)
	}
	return longest, nil
}

// SubjectStats returns per-subject completed totals for the trailing number
// of days (all time when days <= 0), ordered by total minutes descending.
func (r *SessionRepository) SubjectStats(userID uint, days int) ([]SubjectStat, error) {
	query := r.db.Model(&models.StudySession{}).
		Where("user_id = ? AND completed = ?", userID, true)

	if days > 0 {
		cutoff := models.DateOnly(time.Now().UTC()).AddDate(0, 0, -(days - 1))
		query = query.Where("session_date >= ?", cutoff)
	}

	var stats []SubjectStat
	err := query.
		Select("subject, COUNT(*) AS session_count, SUM(duration_minutes) AS total_minutes").
		Group("subject").
		Order("total_minutes DESC").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate subject stats: %w", err)
	}
	return stats, nil
}

// RecentSessions returns a user's most recent sessions, completed or not.
func (r *SessionRepository) RecentSessions(userID uint, limit int) ([]models.StudySession, error) {
	var sessions []models.StudySession
	query := r.db.
		Where("user_id = ?", userID).
		Order("start_time DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent sessions: %w", err)
	}
	return sessions, nil
}
