// Package sessions manages the study timer lifecycle: starting a session,
// completing it with a measured duration, and cancelling it before it
// counts toward anything.
package sessions

import (
	"context"
	"fmt"
	"time"

	prommetrics "github.com/brian-miller-r/Henry-congressional-app-challenge/internal/metrics"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/models"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/repository"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/pkg/logger"
)

// SessionRepository interface for session persistence.
type SessionRepository interface {
	Create(session *models.StudySession) error
	GetByID(id uint) (*models.StudySession, error)
	Save(session *models.StudySession) error
	Delete(id uint) error
	SubjectStats(userID uint, days int) ([]repository.SubjectStat, error)
	RecentSessions(userID uint, limit int) ([]models.StudySession, error)
}

// Service handles the study session timer lifecycle.
type Service struct {
	sessionRepo SessionRepository
	log         *logger.Logger
	loc         *time.Location
	now         func() time.Time
}

// NewService creates a new session service.
func NewService(sessionRepo *repository.SessionRepository, log *logger.Logger, loc *time.Location) *Service {
	return NewServiceWithInterfaces(sessionRepo, log, loc)
}

// NewServiceWithInterfaces creates a new session service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(sessionRepo SessionRepository, log *logger.Logger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		sessionRepo: sessionRepo,
		log:         log,
		loc:         loc,
		now:         time.Now,
	}
}

// StartSession opens a new, not-yet-completed session for the subject. The
// session date is the current calendar date in the configured timezone.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) StartSession(ctx context.Context, userID uint, subject string) (*models.StudySession, error) {
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}

	now := s.now().In(s.loc)
	session := &models.StudySession{
		UserID:      userID,
		Subject:     subject,
		SessionDate: models.DateOnly(now),
		StartTime:   now,
		Completed:   false,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	s.log.Info().
		Uint("user_id", userID).
		Uint("session_id", session.ID).
		Str("subject", subject).
		Msg("Study session started")

	return session, nil
}

// CompleteSession marks a running session as completed with its measured
// duration. Completing an already-completed session is rejected so a
// session never counts twice.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) CompleteSession(ctx context.Context, sessionID uint, durationMinutes int, notes string) (*models.StudySession, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", durationMinutes)
	}

	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Completed {
		return nil, fmt.Errorf("session %d is already completed", sessionID)
	}

	session.DurationMinutes = durationMinutes
	session.Completed = true
	if notes != "" {
		session.Notes = notes
	}
	if err := s.sessionRepo.Save(session); err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}

	prommetrics.RecordSessionCompleted(session.Subject, durationMinutes)
	s.log.Info().
		Uint("user_id", session.UserID).
		Uint("session_id", session.ID).
		Str("subject", session.Subject).
		Int("duration_minutes", durationMinutes).
		Msg("Study session completed")

	return session, nil
}

// CancelSession deletes a session that was never completed. Completed
// sessions are part of the study history and cannot be cancelled.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) CancelSession(ctx context.Context, sessionID uint) error {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return err
	}
	if session.Completed {
		return fmt.Errorf("cannot cancel completed session %d", sessionID)
	}

	if err := s.sessionRepo.Delete(sessionID); err != nil {
		return err
	}

	s.log.Info().
		Uint("user_id", session.UserID).
		Uint("session_id", sessionID).
		Msg("Study session cancelled")
	return nil
}

// SubjectStats returns per-subject completed totals for the trailing number
// of days, or all time when days is zero.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) SubjectStats(ctx context.Context, userID uint, days int) ([]repository.SubjectStat, error) {
	return s.sessionRepo.SubjectStats(userID, days)
}

// RecentSessions returns a user's most recent sessions, newest first.
//
//nolint:revive // ctx reserved for future context-aware operations (tracing, cancellation)
func (s *Service) RecentSessions(ctx context.Context, userID uint, limit int) ([]models.StudySession, error) {
	return s.sessionRepo.RecentSessions(userID, limit)
}
