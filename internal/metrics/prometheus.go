// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the study streak motivator.
var (
	// Counters.
	SessionsCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "study_sessions_completed_total",
			Help: "Total number of completed study sessions",
		},
		[]string{"subject"},
	)

	StudyMinutesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "study_minutes_total",
			Help: "Total completed study minutes",
		},
		[]string{"subject"},
	)

	BadgesAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badges_awarded_total",
			Help: "Total number of badges awarded",
		},
		[]string{"badge", "tier"},
	)

	// Gauges.
	CurrentStreakDays = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "current_streak_days",
			Help: "Current consecutive-day study streak per user",
		},
		[]string{"user_id"},
	)

	// Histograms.
	SessionDurationMinutes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "study_session_duration_minutes",
			Help:    "Duration of completed study sessions in minutes",
			Buckets: prometheus.LinearBuckets(5, 15, 10), // 5 to 140 minutes
		},
	)
)

// RecordSessionCompleted records a completed study session.
func RecordSessionCompleted(subject string, durationMinutes int) {
	SessionsCompletedTotal.WithLabelValues(subject).Inc()
	StudyMinutesTotal.WithLabelValues(subject).Add(float64(durationMinutes))
	SessionDurationMinutes.Observe(float64(durationMinutes))
}

// RecordBadgeAwarded records a badge award.
func RecordBadgeAwarded(badgeName, tier string) {
	BadgesAwardedTotal.WithLabelValues(badgeName, tier).Inc()
}

// SetCurrentStreak updates the current streak gauge for a user.
func SetCurrentStreak(userID uint, days int) {
	CurrentStreakDays.WithLabelValues(strconv.FormatUint(uint64(userID), 10)).Set(float64(days))
}
