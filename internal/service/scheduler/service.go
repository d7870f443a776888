// Package scheduler runs the nightly maintenance job that re-evaluates
// streaks and badges for every user, catching streak breaks that happen
// without any session activity.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/config"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/models"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/service/streaks"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/pkg/logger"
)

// StreakService interface for the nightly streak recompute.
type StreakService interface {
	UpdateStreak(ctx context.Context, userID uint) (*streaks.StreakUpdate, error)
}

// BadgeService interface for the nightly badge pass.
type BadgeService interface {
	EvaluateAllUsers(ctx context.Context) (int, error)
}

// UserRepository interface for user listing.
type UserRepository interface {
	List() ([]models.User, error)
}

// Service runs scheduled maintenance jobs.
type Service struct {
	cfg       *config.SchedulerConfig
	streakSvc StreakService
	badgeSvc  BadgeService
	userRepo  UserRepository
	log       *logger.Logger
	cron      *cron.Cron
}

// NewService creates a new scheduler service.
func NewService(
	cfg *config.SchedulerConfig,
	streakSvc StreakService,
	badgeSvc BadgeService,
	userRepo UserRepository,
	log *logger.Logger,
) (*Service, error) {
	loc, err := cfg.GetLocation()
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone: %w", err)
	}
	return &Service{
		cfg:       cfg,
		streakSvc: streakSvc,
		badgeSvc:  badgeSvc,
		userRepo:  userRepo,
		log:       log,
		cron:      cron.New(cron.WithLocation(loc)),
	}, nil
}

// Start registers the nightly job and starts the cron loop. No-op when the
// scheduler is disabled.
func (s *Service) Start() error {
	if !s.cfg.Enabled {
		s.log.Info().Msg("Scheduler disabled")
		return nil
	}

	expr, err := buildCronExpression(s.cfg.Time)
	if err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(expr, s.runNightly); err != nil {
		return fmt.Errorf("failed to schedule nightly job: %w", err)
	}

	s.cron.Start()
	s.log.Info().
		Str("time", s.cfg.Time).
		Str("timezone", s.cfg.Timezone).
		Msg("Scheduler started")
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// runNightly recomputes every user's streak, then runs a badge pass. Streaks
// go first so streak badges see the freshly persisted record.
func (s *Service) runNightly() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	s.log.Info().Msg("Nightly maintenance started")

	users, err := s.userRepo.List()
	if err != nil {
		s.log.Error().Err(err).Msg("Nightly maintenance failed to list users")
		return
	}

	updated := 0
	for _, user := range users {
		if _, err := s.streakSvc.UpdateStreak(ctx, user.ID); err != nil {
			s.log.Error().
				Err(err).
				Uint("user_id", user.ID).
				Msg("Nightly streak update failed")
			continue
		}
		updated++
	}

	awarded, err := s.badgeSvc.EvaluateAllUsers(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Nightly badge pass failed")
	}

	s.log.Info().
		Int("users", len(users)).
		Int("streaks_updated", updated).
		Int("badges_awarded", awarded).
		Dur("duration", time.Since(start)).
		Msg("Nightly maintenance finished")
}

// buildCronExpression converts an HH:MM wall-clock time into a daily cron
// expression.
func buildCronExpression(hhmm string) (string, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid scheduler time %q, expected HH:MM", hhmm)
	}
	var hour, minute int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &hour, &minute); err != nil {
		return "", fmt.Errorf("invalid scheduler time %q: %w", hhmm, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", fmt.Errorf("scheduler time %q out of range", hhmm)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
