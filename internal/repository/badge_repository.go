package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/models"
)

// BadgeRepository handles badge-related database operations.
type BadgeRepository struct {
	db *DB
}

// NewBadgeRepository creates a new badge repository.
func NewBadgeRepository(db *DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// Create creates a new badge in the catalog.
func (r *BadgeRepository) Create(badge *models.Badge) error {
	if err := r.db.Create(badge).Error; err != nil {
		return fmt.Errorf("failed to create badge: %w", err)
	}
	return nil
}

// GetByID retrieves a badge by its ID.
func (r *BadgeRepository) GetByID(id uint) (*models.Badge, error) {
	var badge models.Badge
	if err := r.db.First(&badge, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get badge %d: %w", id, err)
	}
	return &badge, nil
}

// GetByName retrieves a badge by its name, or nil when it does not exist.
func (r *BadgeRepository) GetByName(name string) (*models.Badge, error) {
	var badge models.Badge
	err := r.db.Where("name = ?", name).First(&badge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get badge %q: %w", name, err)
	}
	return &badge, nil
}

// GetAll retrieves the full badge catalog.
func (r *BadgeRepository) GetAll() ([]models.Badge, error) {
	var badges []models.Badge
	err := r.db.Order("created_at ASC, id ASC").Find(&badges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	return badges, nil
}

// GetActive retrieves all active catalog badges.
func (r *BadgeRepository) GetActive() ([]models.Badge, error) {
	var badges []models.Badge
	err := r.db.Where("is_active = ?", true).Order("id ASC").Find(&badges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active badges: %w", err)
	}
	return badges, nil
}

// GetEarnedBadgeIDs returns the set of badge IDs a user has earned.
func (r *BadgeRepository) GetEarnedBadgeIDs(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.db.Model(&models.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list earned badge ids: %w", err)
	}
	earned := make(map[uint]bool, len(ids))
	for _, id := range ids {
		earned[id] = true
	}
	return earned, nil
}

// HasUserEarnedBadge checks if a user has earned a specific badge.
func (r *BadgeRepository) HasUserEarnedBadge(userID, badgeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check earned badge: %w", err)
	}
	return count > 0, nil
}

// AwardBadges records all of the given badges as earned by a user within a
// single transaction. Already-earned badges are skipped, making the call
// idempotent; any failure rolls back the entire pass.
func (r *BadgeRepository) AwardBadges(userID uint, badgeIDs []uint) error {
	if len(badgeIDs) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, badgeID := range badgeIDs {
			var count int64
			if err := tx.Model(&models.UserBadge{}).
				Where("user_id = ? AND badge_id = ?", userID, badgeID).
				Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check earned badge: %w", err)
			}
			if count > 0 {
				continue
			}
			userBadge := &models.UserBadge{
				UserID:   userID,
				BadgeID:  badgeID,
				EarnedAt: time.Now(),
			}
			if err := tx.Create(userBadge).Error; err != nil {
				return fmt.Errorf("failed to award badge %d: %w", badgeID, err)
			}
		}
		return nil
	})
}

// GetUserBadges retrieves all badges earned by a user with badge details
// preloaded, most recently earned first.
func (r *BadgeRepository) GetUserBadges(userID uint) ([]models.UserBadge, error) {
	var userBadges []models.UserBadge
	err := r.db.
		Where("user_id = ?", userID).
		Preload("Badge").
		Order("earned_at DESC").
		Find(&userBadges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user badges: %w", err)
	}
	return userBadges, nil
}

// GetUserBadgeCount returns the total number of badges a user has earned.
func (r *BadgeRepository) GetUserBadgeCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserBadge{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count user badges: %w", err)
	}
	return count, nil
}
