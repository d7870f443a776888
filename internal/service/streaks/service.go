// Package streaks derives current and longest study streaks from a user's
// completed session history and maintains the persisted streak record.
package streaks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	prommetrics "github.com/brian-miller-r/Henry-congressional-app-challenge/internal/metrics"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/models"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/repository"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/pkg/logger"
)

// Streak status classifications.
const (
	StatusNoStreak           = "no_streak"
	StatusBrokenToday        = "broken_today"
	StatusActiveStudiedToday = "active_studied_today"
	StatusAtRisk             = "at_risk"
)

// SessionRepository interface for the session aggregates the calculator needs.
type SessionRepository interface {
	DailyTotals(userID uint) ([]repository.DayTotal, error)
	MinutesOnDate(userID uint, date time.Time) (int, error)
}

// StreakRepository interface for streak record operations.
type StreakRepository interface {
	GetActive(userID uint) (*models.Streak, error)
	Create(streak *models.Streak) error
	Save(streak *models.Streak) error
}

// Cache interface for the optional streak-status cache.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// StreakUpdate is the result of recomputing and persisting a user's streak.
type StreakUpdate struct {
	CurrentStreak   int    `json:"current_streak"`
	LongestStreak   int    `json:"longest_streak"`
	StreakBroken    bool   `json:"streak_broken"`
	NewRecord       bool   `json:"new_record"`
	StreakStartDate string `json:"streak_start_date,omitempty"`
}

// StreakStatus is the full streak picture for a user.
type StreakStatus struct {
	CurrentStreak      int    `json:"current_streak"`
	LongestStreak      int    `json:"longest_streak"`
	StreakStartDate    string `json:"streak_start_date,omitempty"`
	LongestStreakStart string `json:"longest_streak_start,omitempty"`
	LongestStreakEnd   string `json:"longest_streak_end,omitempty"`
	Status             string `json:"status"`
	Message            string `json:"message"`
	HasStudiedToday    bool   `json:"has_studied_today"`
	TodayStudyMinutes  int    `json:"today_study_minutes"`
	IsNewRecord        bool   `json:"is_new_record"`
}

// CalendarDay is one date's activity summary for calendar rendering.
type CalendarDay struct {
	HasActivity  bool `json:"has_activity"`
	TotalMinutes int  `json:"total_minutes"`
	IsToday      bool `json:"is_today"`
}

// Service derives streaks from session history. It is stateless apart from
// its configuration; every computation re-reads the session history.
type Service struct {
	sessionRepo     SessionRepository
	streakRepo      StreakRepository
	cache           Cache // nil disables caching
	log             *logger.Logger
	loc             *time.Location
	minStudyMinutes int
	cacheTTL        time.Duration
	now             func() time.Time
}

// NewService creates a new streak service with concrete repository types.
func NewService(
	sessionRepo *repository.SessionRepository,
	streakRepo *repository.StreakRepository,
	cache Cache,
	log *logger.Logger,
	loc *time.Location,
	minStudyMinutes int,
	cacheTTL time.Duration,
) *Service {
	return newService(sessionRepo, streakRepo, cache, log, loc, minStudyMinutes, cacheTTL)
}

// NewServiceWithInterfaces creates a new streak service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(
	sessionRepo SessionRepository,
	streakRepo StreakRepository,
	cache Cache,
	log *logger.Logger,
	loc *time.Location,
	minStudyMinutes int,
	cacheTTL time.Duration,
) *Service {
	return newService(sessionRepo, streakRepo, cache, log, loc, minStudyMinutes, cacheTTL)
}

func newService(
	sessionRepo SessionRepository,
	streakRepo StreakRepository,
	cache Cache,
	log *logger.Logger,
	loc *time.Location,
	minStudyMinutes int,
	cacheTTL time.Duration,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		sessionRepo:     sessionRepo,
		streakRepo:      streakRepo,
		cache:           cache,
		log:             log,
		loc:             loc,
		minStudyMinutes: minStudyMinutes,
		cacheTTL:        cacheTTL,
		now:             time.Now,
	}
}

func statusCacheKey(userID uint) string {
	return fmt.Sprintf("streak:status:%d", userID)
}

// UpdateStreak recomputes the user's streak from the session history and
// persists the active streak record: created when missing, updated in
// place while the run continues, and deactivated with an end date of
// yesterday when the run breaks.
func (s *Service) UpdateStreak(ctx context.Context, userID uint) (*StreakUpdate, error) {
	currentDays, streakStart, err := s.CurrentStreak(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate current streak: %w", err)
	}
	longestDays, _, _, err := s.LongestStreak(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate longest streak: %w", err)
	}

	active, err := s.streakRepo.GetActive(userID)
	if err != nil {
		return nil, err
	}

	if currentDays == 0 {
		streakBroken := active != nil
		if active != nil {
			endDate := s.Today().AddDate(0, 0, -1)
			active.IsActive = false
			active.EndDate = &endDate
			if err := s.streakRepo.Save(active); err != nil {
				return nil, err
			}
			s.log.Info().
				Uint("user_id", userID).
				Int("days", active.CurrentDays).
				Msg("Streak broken")
		}
		s.invalidateStatus(ctx, userID)
		prommetrics.SetCurrentStreak(userID, 0)

		return &StreakUpdate{
			CurrentStreak: 0,
			LongestStreak: longestDays,
			StreakBroken:  streakBroken,
			NewRecord:     false,
		}, nil
	}

	if active != nil {
		active.CurrentDays = currentDays
		active.StartDate = streakStart
		if err := s.streakRepo.Save(active); err != nil {
			return nil, err
		}
	} else {
		active = &models.Streak{
			UserID:      userID,
			StartDate:   streakStart,
			CurrentDays: currentDays,
			IsActive:    true,
		}
		if err := s.streakRepo.Create(active); err != nil {
			return nil, err
		}
	}

	s.invalidateStatus(ctx, userID)
	prommetrics.SetCurrentStreak(userID, currentDays)

	if longestDays < currentDays {
		longestDays = currentDays
	}

	return &StreakUpdate{
		CurrentStreak:   currentDays,
		LongestStreak:   longestDays,
		StreakBroken:    false,
		NewRecord:       currentDays == longestDays,
		StreakStartDate: dateKey(streakStart),
	}, nil
}

// StreakStatus classifies the user's streak state and returns the full
// streak picture with a user-facing message. Results are cached briefly
// when a cache is configured.
func (s *Service) StreakStatus(ctx context.Context, userID uint) (*StreakStatus, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, statusCacheKey(userID)); err == nil && raw != "" {
			var cached StreakStatus
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	today := s.Today()
	hasStudiedToday, todayMinutes, err := s.HasValidStudyDay(userID, today)
	if err != nil {
		return nil, err
	}
	hasStudiedYesterday, _, err := s.HasValidStudyDay(userID, today.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}

	currentDays, streakStart, err := s.CurrentStreak(userID)
	if err != nil {
		return nil, err
	}
	longestDays, longestStart, longestEnd, err := s.LongestStreak(userID)
	if err != nil {
		return nil, err
	}

	var status, message string
	switch {
	case currentDays == 0 && hasStudiedYesterday:
		status = StatusBrokenToday
		message = "Your streak was broken! Study today to start a new one."
	case currentDays == 0:
		status = StatusNoStreak
		message = "No active streak. Start studying to begin your streak!"
	case hasStudiedToday:
		status = StatusActiveStudiedToday
		message = fmt.Sprintf("Great job! You're on a %d-day streak!", currentDays)
	default:
		status = StatusAtRisk
		message = fmt.Sprintf("You're on a %d-day streak. Study today to keep it going!", currentDays)
	}

	result := &StreakStatus{
		CurrentStreak:     currentDays,
		LongestStreak:     longestDays,
		Status:            status,
		Message:           message,
		HasStudiedToday:   hasStudiedToday,
		TodayStudyMinutes: todayMinutes,
		IsNewRecord:       currentDays > 0 && currentDays == longestDays,
	}
	if currentDays > 0 {
		result.StreakStartDate = dateKey(streakStart)
	}
	if longestDays > 0 {
		result.LongestStreakStart = dateKey(longestStart)
		result.LongestStreakEnd = dateKey(longestEnd)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, statusCacheKey(userID), string(raw), s.cacheTTL); err != nil {
				s.log.Warn().Err(err).Uint("user_id", userID).Msg("Failed to cache streak status")
			}
		}
	}

	return result, nil
}

// CalendarData returns per-date activity for one month, keyed by ISO date.
func (s *Service) CalendarData(ctx context.Context, userID uint, year int, month time.Month) (map[string]CalendarDay, error) {
	_ = ctx

	totals, err := s.sessionRepo.DailyTotals(userID)
	if err != nil {
		return nil, err
	}
	minutesByDate := make(map[string]int, len(totals))
	for _, dt := range totals {
		minutesByDate[dateKey(dt.Date)] = dt.TotalMinutes
	}

	today := s.Today()
	if year == 0 {
		year = today.Year()
	}
	if month == 0 {
		month = today.Month()
	}

	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstDay.AddDate(0, 1, -1)

	calendar := make(map[string]CalendarDay)
	for d := firstDay; !d.After(lastDay); d = d.AddDate(0, 0, 1) {
		total := minutesByDate[dateKey(d)]
		calendar[dateKey(d)] = CalendarDay{
			HasActivity:  total >= s.minStudyMinutes,
			TotalMinutes: total,
			IsToday:      d.Equal(today),
		}
	}

	return calendar, nil
}

// invalidateStatus drops the cached streak status after a recompute.
func (s *Service) invalidateStatus(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statusCacheKey(userID)); err != nil {
		s.log.Warn().Err(err).Uint("user_id", userID).Msg("Failed to invalidate streak status cache")
	}
}
