package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/models"
)

// StreakRepository handles streak database operations.
type StreakRepository struct {
	db *DB
}

// NewStreakRepository creates a new streak repository.
func NewStreakRepository(db *DB) *StreakRepository {
	return &StreakRepository{db: db}
}

// GetActive retrieves the user's active streak, or nil when none exists.
func (r *StreakRepository) GetActive(userID uint) (*models.Streak, error) {
	var streak models.Streak
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).First(&streak).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active streak: %w", err)
	}
	return &streak, nil
}

// Create creates a new streak record.
func (r *StreakRepository) Create(streak *models.Streak) error {
	if err := r.db.Create(streak).Error; err != nil {
		return fmt.Errorf("failed to create streak: %w", err)
	}
	return nil
}

// Save persists changes to an existing streak record.
func (r *StreakRepository) Save(streak *models.Streak) error {
	if err := r.db.Save(streak).Error; err != nil {
		return fmt.Errorf("failed to save streak: %w", err)
	}
	return nil
}

// History returns a user's streaks, most recent first.
func (r *StreakRepository) History(userID uint, limit int) ([]models.Streak, error) {
	var streaks []models.Streak
	query := r.db.
		Where("user_id = ?", userID).
		Order("start_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&streaks).Error; err != nil {
		return nil, fmt.Errorf("failed to list streak history: %w", err)
	}
	return streaks, nil
}
