// Package dashboard provides the REST API for the study dashboard. It
// exposes endpoints for the study timer, streaks, calendar data, badges,
// and subject statistics.
package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/models"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/repository"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/service/badges"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/service/sessions"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/service/streaks"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/pkg/logger"
)

// SessionService interface for study timer operations.
type SessionService interface {
	StartSession(ctx context.Context, userID uint, subject string) (*models.StudySession, error)
	CompleteSession(ctx context.Context, sessionID uint, durationMinutes int, notes string) (*models.StudySession, error)
	CancelSession(ctx context.Context, sessionID uint) error
	SubjectStats(ctx context.Context, userID uint, days int) ([]repository.SubjectStat, error)
}

// StreakService interface for streak operations.
type StreakService interface {
	UpdateStreak(ctx context.Context, userID uint) (*streaks.StreakUpdate, error)
	StreakStatus(ctx context.Context, userID uint) (*streaks.StreakStatus, error)
	CalendarData(ctx context.Context, userID uint, year int, month time.Month) (map[string]streaks.CalendarDay, error)
}

// BadgeService interface for badge operations.
type BadgeService interface {
	CheckAndAwardBadges(ctx context.Context, userID uint, trigger string) ([]models.Badge, error)
	GetUserBadges(ctx context.Context, userID uint) ([]models.UserBadge, error)
	GetBadgeCatalog(ctx context.Context) ([]models.Badge, error)
	GetBadgeProgress(ctx context.Context, userID uint) ([]badges.Progress, error)
}

// Handler handles dashboard API requests.
type Handler struct {
	sessionService SessionService
	streakService  StreakService
	badgeService   BadgeService
	log            *logger.Logger
}

// NewHandler creates a new dashboard handler.
func NewHandler(
	sessionService *sessions.Service,
	streakService *streaks.Service,
	badgeService *badges.Service,
	log *logger.Logger,
) *Handler {
	return NewHandlerWithInterfaces(sessionService, streakService, badgeService, log)
}

// NewHandlerWithInterfaces creates a new dashboard handler with interface
// dependencies (useful for testing).
func NewHandlerWithInterfaces(
	sessionService SessionService,
	streakService StreakService,
	badgeService BadgeService,
	log *logger.Logger,
) *Handler {
	return &Handler{
		sessionService: sessionService,
		streakService:  streakService,
		badgeService:   badgeService,
		log:            log,
	}
}

// RegisterRoutes attaches all dashboard routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/timer/start", h.StartTimer)
		api.POST("/timer/complete", h.CompleteTimer)
		api.DELETE("/timer/cancel/:id", h.CancelTimer)

		api.GET("/streak/:user_id", h.GetStreakStatus)
		api.GET("/calendar-data", h.GetCalendarData)

		api.GET("/badges", h.GetBadgeCatalog)
		api.GET("/badges/earned", h.GetEarnedBadges)
		api.GET("/badges/progress", h.GetBadgeProgress)

		api.GET("/stats/subjects", h.GetSubjectStats)
	}
}

type startTimerRequest struct {
	UserID  uint   `json:"user_id"`
	Subject string `json:"subject" binding:"required"`
}

// StartTimer opens a new study session.
// POST /api/timer/start.
func (h *Handler) StartTimer(c *gin.Context) {
	var req startTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "subject is required")
		return
	}
	userID := req.UserID
	if userID == 0 {
		userID = models.DefaultUserID
	}

	session, err := h.sessionService.StartSession(c.Request.Context(), userID, req.Subject)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to start session")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to start session")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session": session,
	})
}

type completeTimerRequest struct {
	SessionID       uint   `json:"session_id" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`
	Notes           string `json:"notes"`
}

// CompleteTimer finishes a study session, recomputes the user's streak,
// and runs a badge pass. The response carries the session, the streak
// update, and any newly earned badges so the client can show everything
// from one call.
// POST /api/timer/complete.
func (h *Handler) CompleteTimer(c *gin.Context) {
	var req completeTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "session_id and duration_minutes are required")
		return
	}
	if req.DurationMinutes <= 0 {
		h.errorResponse(c, http.StatusBadRequest, "duration_minutes must be positive")
		return
	}

	ctx := c.Request.Context()
	session, err := h.sessionService.CompleteSession(ctx, req.SessionID, req.DurationMinutes, req.Notes)
	if err != nil {
		h.log.Error().Err(err).Uint("session_id", req.SessionID).Msg("Failed to complete session")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to complete session")
		return
	}

	update, err := h.streakService.UpdateStreak(ctx, session.UserID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", session.UserID).Msg("Failed to update streak")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to update streak")
		return
	}

	newBadges, err := h.badgeService.CheckAndAwardBadges(ctx, session.UserID, badges.TriggerSessionComplete)
	if err != nil {
		// The session and streak are already saved; report them and let the
		// nightly pass pick up any missed badges.
		h.log.Error().Err(err).Uint("user_id", session.UserID).Msg("Badge pass failed after session completion")
		newBadges = []models.Badge{}
	}

	h.log.Info().
		Uint("user_id", session.UserID).
		Uint("session_id", session.ID).
		Int("current_streak", update.CurrentStreak).
		Int("new_badges", len(newBadges)).
		Msg("Session completed")

	c.JSON(http.StatusOK, gin.H{
		"session":    session,
		"streak":     update,
		"new_badges": newBadges,
	})
}

// CancelTimer deletes a session that was never completed.
// DELETE /api/timer/cancel/:id.
func (h *Handler) CancelTimer(c *gin.Context) {
	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.sessionService.CancelSession(c.Request.Context(), sessionID); err != nil {
		h.log.Error().Err(err).Uint("session_id", sessionID).Msg("Failed to cancel session")
		h.errorResponse(c, http.StatusConflict, "Failed to cancel session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cancelled": true,
	})
}

// GetStreakStatus returns the full streak picture for a user.
// GET /api/streak/:user_id.
func (h *Handler) GetStreakStatus(c *gin.Context) {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	status, err := h.streakService.StreakStatus(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to get streak status")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve streak status")
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetCalendarData returns per-date activity for one month.
// GET /api/calendar-data?user_id=1&year=2026&month=8.
func (h *Handler) GetCalendarData(c *gin.Context) {
	userID := h.queryUserID(c)

	year, err := parseOptionalIntQuery(c, "year")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	monthNum, err := parseOptionalIntQuery(c, "month")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if monthNum < 0 || monthNum > 12 {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid month: %d", monthNum))
		return
	}

	calendar, err := h.streakService.CalendarData(c.Request.Context(), userID, year, time.Month(monthNum))
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to get calendar data")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve calendar data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"calendar": calendar,
	})
}

// GetBadgeCatalog returns the full badge catalog.
// GET /api/badges.
func (h *Handler) GetBadgeCatalog(c *gin.Context) {
	catalog, err := h.badgeService.GetBadgeCatalog(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get badge catalog")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve badge catalog")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"badges":       catalog,
		"total_badges": len(catalog),
	})
}

// GetEarnedBadges returns the badges a user has earned, newest first.
// GET /api/badges/earned?user_id=1.
func (h *Handler) GetEarnedBadges(c *gin.Context) {
	userID := h.queryUserID(c)

	userBadges, err := h.badgeService.GetUserBadges(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to get earned badges")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve earned badges")
		return
	}

	totalPoints := 0
	for i := range userBadges {
		totalPoints += userBadges[i].Badge.Points
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":      userID,
		"badges":       userBadges,
		"total_badges": len(userBadges),
		"total_points": totalPoints,
	})
}

// GetBadgeProgress reports progress toward unearned, non-secret badges.
// GET /api/badges/progress?user_id=1.
func (h *Handler) GetBadgeProgress(c *gin.Context) {
	userID := h.queryUserID(c)

	progress, err := h.badgeService.GetBadgeProgress(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to get badge progress")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve badge progress")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":  userID,
		"progress": progress,
	})
}

// GetSubjectStats returns per-subject completed totals.
// GET /api/stats/subjects?user_id=1&days=30.
func (h *Handler) GetSubjectStats(c *gin.Context) {
	userID := h.queryUserID(c)

	days, err := parseOptionalIntQuery(c, "days")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.sessionService.SubjectStats(c.Request.Context(), userID, days)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to get subject stats")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve subject statistics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":  userID,
		"subjects": stats,
	})
}

// Helper functions

// queryUserID reads the optional user_id query parameter, falling back to
// the default single-tenant user.
func (h *Handler) queryUserID(c *gin.Context) uint {
	idStr := c.Query("user_id")
	if idStr == "" {
		return models.DefaultUserID
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		return models.DefaultUserID
	}
	return uint(id)
}

// parseIDParam extracts and validates a numeric URL parameter.
func parseIDParam(c *gin.Context, name string) (uint, error) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", name, idStr)
	}
	return uint(id), nil
}

// parseOptionalIntQuery reads a non-negative integer query parameter,
// returning zero when absent.
func parseOptionalIntQuery(c *gin.Context, name string) (int, error) {
	str := c.Query(name)
	if str == "" {
		return 0, nil
	}
	val, err := strconv.Atoi(str)
	if err != nil || val < 0 {
		return 0, fmt.Errorf("invalid %s parameter: %s", name, str)
	}
	return val, nil
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
