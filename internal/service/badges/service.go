// Package badges evaluates declarative badge criteria against user activity
// and awards newly satisfied badges exactly once.
package badges

import (
	"context"
	"fmt"
	"time"

	prommetrics "github.com/brian-miller-r/Henry-congressional-app-challenge/internal/metrics"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/models"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/repository"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/pkg/logger"
)

// Trigger events for badge evaluation passes.
const (
	TriggerSessionComplete = "session_complete"
	TriggerStreakUpdate    = "streak_update"
	TriggerScheduled       = "scheduled"
)

// BadgeRepository interface for badge catalog and award operations.
type BadgeRepository interface {
	GetAll() ([]models.Badge, error)
	GetActive() ([]models.Badge, error)
	GetEarnedBadgeIDs(userID uint) (map[uint]bool, error)
	AwardBadges(userID uint, badgeIDs []uint) error
	GetUserBadges(userID uint) ([]models.UserBadge, error)
}

// SessionRepository interface for the session aggregates criteria need.
type SessionRepository interface {
	CountCompleted(userID uint) (int64, error)
	TotalMinutes(userID uint) (int, error)
	SubjectMinutes(userID uint, subject string) (int, error)
	CompletedSessions(userID uint) ([]models.StudySession, error)
	CompletedInRange(userID uint, start, end time.Time) ([]models.StudySession, error)
	LongestSessionMinutes(userID uint) (int, error)
}

// StreakRepository interface for reading the persisted streak record.
type StreakRepository interface {
	GetActive(userID uint) (*models.Streak, error)
}

// UserRepository interface for user operations.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	List() ([]models.User, error)
}

// Progress describes how far a user is toward earning one badge.
type Progress struct {
	BadgeID         uint    `json:"badge_id"`
	BadgeName       string  `json:"badge_name"`
	Description     string  `json:"description"`
	Current         int     `json:"current"`
	Required        int     `json:"required"`
	ProgressPercent float64 `json:"progress_percent"`
	IsEarned        bool    `json:"is_earned"`
}

// Service handles badge evaluation and awarding.
type Service struct {
	badgeRepo   BadgeRepository
	sessionRepo SessionRepository
	streakRepo  StreakRepository
	userRepo    UserRepository
	log         *logger.Logger
	loc         *time.Location
	now         func() time.Time
}

// NewService creates a new badge service.
func NewService(
	badgeRepo *repository.BadgeRepository,
	sessionRepo *repository.SessionRepository,
	streakRepo *repository.StreakRepository,
	userRepo *repository.UserRepository,
	log *logger.Logger,
	loc *time.Location,
) *Service {
	return NewServiceWithInterfaces(badgeRepo, sessionRepo, streakRepo, userRepo, log, loc)
}

// NewServiceWithInterfaces creates a new badge service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(
	badgeRepo BadgeRepository,
	sessionRepo SessionRepository,
	streakRepo StreakRepository,
	userRepo UserRepository,
	log *logger.Logger,
	loc *time.Location,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		badgeRepo:   badgeRepo,
		sessionRepo: sessionRepo,
		streakRepo:  streakRepo,
		userRepo:    userRepo,
		log:         log,
		loc:         loc,
		now:         time.Now,
	}
}

// today returns the current calendar date in the configured timezone.
func (s *Service) today() time.Time {
	return models.DateOnly(s.now().In(s.loc))
}

// CheckAndAwardBadges evaluates every active badge the user has not yet
// earned and awards the satisfied ones. Completionist criteria are
// re-evaluated after the main pass with the pending awards visible, so a
// meta-badge can unlock in the same pass as its last prerequisite. All
// awards are written in a single transaction; on failure nothing is
// awarded. The call is idempotent per (user, badge).
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) CheckAndAwardBadges(ctx context.Context, userID uint, trigger string) ([]models.Badge, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		// Unknown user: nothing happened, not an error.
		return []models.Badge{}, nil
	}

	catalog, err := s.badgeRepo.GetActive()
	if err != nil {
		return nil, fmt.Errorf("failed to get badge catalog: %w", err)
	}
	earned, err := s.badgeRepo.GetEarnedBadgeIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get earned badges: %w", err)
	}

	var newlyEarned []models.Badge

	// Main pass: everything except completionist criteria.
	var metaPending []int
	for i := range catalog {
		badge := &catalog[i]
		if earned[badge.ID] {
			continue
		}

		criteria, err := ParseCriteria(badge)
		if err != nil {
			s.log.Warn().
				Err(err).
				Str("badge", badge.Name).
				Msg("Unrecognized badge criteria, treating as unsatisfied")
			continue
		}
		if _, ok := criteria.(CompletionistCriteria); ok {
			metaPending = append(metaPending, i)
			continue
		}

		ok, err := s.satisfied(criteria, userID, catalog, earned)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate badge %q: %w", badge.Name, err)
		}
		if ok {
			newlyEarned = append(newlyEarned, *badge)
			earned[badge.ID] = true
		}
	}

	// Meta pass: completionist criteria see the awards pending above.
	for _, i := range metaPending {
		badge := &catalog[i]
		criteria, err := ParseCriteria(badge)
		if err != nil {
			continue
		}
		ok, err := s.satisfied(criteria, userID, catalog, earned)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate badge %q: %w", badge.Name, err)
		}
		if ok {
			newlyEarned = append(newlyEarned, *badge)
			earned[badge.ID] = true
		}
	}

	if len(newlyEarned) == 0 {
		return []models.Badge{}, nil
	}

	badgeIDs := make([]uint, len(newlyEarned))
	for i, badge := range newlyEarned {
		badgeIDs[i] = badge.ID
	}
	if err := s.badgeRepo.AwardBadges(userID, badgeIDs); err != nil {
		// The transaction rolled back: report zero new badges.
		s.log.Error().
			Err(err).
			Uint("user_id", userID).
			Str("trigger", trigger).
			Msg("Award pass failed, rolled back")
		return nil, fmt.Errorf("failed to award badges: %w", err)
	}

	for _, badge := range newlyEarned {
		prommetrics.RecordBadgeAwarded(badge.Name, badge.Tier)
		s.log.Info().
			Uint("user_id", userID).
			Str("badge", badge.Name).
			Str("tier", badge.Tier).
			Str("trigger", trigger).
			Msg("Badge awarded")
	}

	return newlyEarned, nil
}

// EvaluateAllUsers runs an award pass for every user. Typically invoked by
// the nightly scheduler. Returns the number of badges awarded.
func (s *Service) EvaluateAllUsers(ctx context.Context) (int, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	awarded := 0
	for _, user := range users {
		newBadges, err := s.CheckAndAwardBadges(ctx, user.ID, TriggerScheduled)
		if err != nil {
			s.log.Error().
				Err(err).
				Uint("user_id", user.ID).
				Msg("Failed to evaluate badges for user")
			continue
		}
		awarded += len(newBadges)
	}
	return awarded, nil
}

// GetBadgeProgress reports progress toward every active, non-secret badge
// the user has not yet earned.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetBadgeProgress(ctx context.Context, userID uint) ([]Progress, error) {
	catalog, err := s.badgeRepo.GetActive()
	if err != nil {
		return nil, fmt.Errorf("failed to get badge catalog: %w", err)
	}
	earned, err := s.badgeRepo.GetEarnedBadgeIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get earned badges: %w", err)
	}

	progress := make([]Progress, 0, len(catalog))
	for i := range catalog {
		badge := &catalog[i]
		if badge.IsSecret || earned[badge.ID] {
			continue
		}
		entry, err := s.badgeProgress(userID, badge, false)
		if err != nil {
			return nil, err
		}
		progress = append(progress, *entry)
	}
	return progress, nil
}

// badgeProgress computes one badge's progress entry. Earned badges report
// 100 percent unconditionally; unearned ones use the same numerator the
// award check would, capped at 100.
func (s *Service) badgeProgress(userID uint, badge *models.Badge, isEarned bool) (*Progress, error) {
	entry := &Progress{
		BadgeID:     badge.ID,
		BadgeName:   badge.Name,
		Description: badge.Description,
		Required:    badge.CriteriaValue,
		IsEarned:    isEarned,
	}
	if isEarned {
		entry.ProgressPercent = 100
		return entry, nil
	}

	criteria, err := ParseCriteria(badge)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("badge", badge.Name).
			Msg("Unrecognized badge criteria, reporting zero progress")
		return entry, nil
	}

	current, err := s.progressValue(criteria, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute progress for badge %q: %w", badge.Name, err)
	}
	entry.Current = current

	if entry.Required > 0 {
		percent := float64(current) / float64(entry.Required) * 100
		if percent > 100 {
			percent = 100
		}
		entry.ProgressPercent = percent
	}
	return entry, nil
}

// GetUserBadges retrieves all badges earned by a user.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetUserBadges(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	return s.badgeRepo.GetUserBadges(userID)
}

// GetBadgeCatalog retrieves the full badge catalog.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) GetBadgeCatalog(ctx context.Context) ([]models.Badge, error) {
	return s.badgeRepo.GetAll()
}
