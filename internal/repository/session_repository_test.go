package repository

import (
	"testing"
	"time"

	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/models"
)

// createTestSession inserts a session for the user on a date.
func createTestSession(t *testing.T, repo *SessionRepository, userID uint, subject string, minutes int, date time.Time, completed bool) *models.StudySession {
	t.Helper()

	session := &models.StudySession{
		UserID:          userID,
		Subject:         subject,
		DurationMinutes: minutes,
		SessionDate:     models.DateOnly(date),
		StartTime:       date,
		Completed:       completed,
	}
	if err := repo.Create(session); err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return session
}

func TestSessionRepository_CountCompleted(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)
	user := createTestUser(t, db, "student")

	day := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	createTestSession(t, repo, user.ID, "Math", 30, day, true)
	createTestSession(t, repo, user.ID, "Math", 30, day, true)
	createTestSession(t, repo, user.ID, "Math", 0, day, false) // running timer

	count, err := repo.CountCompleted(user.ID)
	if err != nil {
		t.Fatalf("CountCompleted() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 completed sessions, got %d", count)
	}
}

func TestSessionRepository_TotalAndSubjectMinutes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)
	user := createTestUser(t, db, "student")

	day := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	createTestSession(t, repo, user.ID, "Math", 30, day, true)
	createTestSession(t, repo, user.ID, "Science", 45, day, true)
	createTestSession(t, repo, user.ID, "Math", 20, day, false) // not completed

	total, err := repo.TotalMinutes(user.ID)
	if err != nil {
		t.Fatalf("TotalMinutes() failed: %v", err)
	}
	if total != 75 {
		t.Errorf("Expected 75 total minutes, got %d", total)
	}

	math, err := repo.SubjectMinutes(user.ID, "Math")
	if err != nil {
		t.Fatalf("SubjectMinutes() failed: %v", err)
	}
	if math != 30 {
		t.Errorf("Expected 30 Math minutes, got %d", math)
	}
}

func TestSessionRepository_MinutesOnDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)
	user := createTestUser(t, db, "student")

	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	createTestSession(t, repo, user.ID, "Math", 15, day, true)
	createTestSession(t, repo, user.ID, "Science", 20, day, true)
	createTestSession(t, repo, user.ID, "Math", 10, day, true)
	createTestSession(t, repo, user.ID, "Math", 99, day.AddDate(0, 0, 1), true)

	// Querying with a mid-day timestamp still hits the normalized date.
	minutes, err := repo.MinutesOnDate(user.ID, day.Add(14*time.Hour))
	if err != nil {
		t.Fatalf("MinutesOnDate() failed: %v", err)
	}
	if minutes != 45 {
		t.Errorf("Expected 45 minutes on date, got %d", minutes)
	}
}

func TestSessionRepository_DailyTotals(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)
	user := createTestUser(t, db, "student")

	day1 := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	createTestSession(t, repo, user.ID, "Math", 15, day2, true)
	createTestSession(t, repo, user.ID, "Math", 10, day1, true)
	createTestSession(t, repo, user.ID, "Science", 20, day1, true)

	totals, err := repo.DailyTotals(user.ID)
	if err != nil {
		t.Fatalf("DailyTotals() failed: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("Expected 2 day totals, got %d", len(totals))
	}
	// Ordered by date ascending with per-date sums.
	if !models.DateOnly(totals[0].Date).Equal(day1) || totals[0].TotalMinutes != 30 {
		t.Errorf("Unexpected first total: %+v", totals[0])
	}
	if !models.DateOnly(totals[1].Date).Equal(day2) || totals[1].TotalMinutes != 15 {
		t.Errorf("Unexpected second total: %+v", totals[1])
	}
}

func TestSessionRepository_CompletedInRange(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)
	user := createTestUser(t, db, "student")

	base := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	createTestSession(t, repo, user.ID, "Math", 30, base.AddDate(0, 0, -8), true)
	createTestSession(t, repo, user.ID, "Science", 30, base.AddDate(0, 0, -3), true)
	createTestSession(t, repo, user.ID, "English", 30, base, true)

	sessions, err := repo.CompletedInRange(user.ID, base.AddDate(0, 0, -6), base)
	if err != nil {
		t.Fatalf("CompletedInRange() failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions in range, got %d", len(sessions))
	}
	if sessions[0].Subject != "Science" || sessions[1].Subject != "English" {
		t.Errorf("Unexpected range contents: %+v", sessions)
	}
}

func TestSessionRepository_LongestSessionMinutes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)
	user := createTestUser(t, db, "student")

	longest, err := repo.LongestSessionMinutes(user.ID)
	if err != nil {
		t.Fatalf("LongestSessionMinutes() failed: %v", err)
	}
	if longest != 0 {
		t.Errorf("Expected 0 with no sessions, got %d", longest)
	}

	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	createTestSession(t, repo, user.ID, "Math", 45, day, true)
	createTestSession(t, repo, user.ID, "Math", 120, day, true)
	createTestSession(t, repo, user.ID, "Math", 240, day, false) // incomplete never counts

	longest, err = repo.LongestSessionMinutes(user.ID)
	if err != nil {
		t.Fatalf("LongestSessionMinutes() failed: %v", err)
	}
	if longest != 120 {
		t.Errorf("Expected longest session of 120 minutes, got %d", longest)
	}
}

func TestSessionRepository_SubjectStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)
	user := createTestUser(t, db, "student")

	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	createTestSession(t, repo, user.ID, "Math", 30, day, true)
	createTestSession(t, repo, user.ID, "Math", 40, day, true)
	createTestSession(t, repo, user.ID, "Science", 50, day, true)

	stats, err := repo.SubjectStats(user.ID, 0)
	if err != nil {
		t.Fatalf("SubjectStats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected 2 subjects, got %d", len(stats))
	}
	// Ordered by total minutes descending.
	if stats[0].Subject != "Math" || stats[0].TotalMinutes != 70 || stats[0].SessionCount != 2 {
		t.Errorf("Unexpected first stat: %+v", stats[0])
	}
	if stats[1].Subject != "Science" || stats[1].TotalMinutes != 50 {
		t.Errorf("Unexpected second stat: %+v", stats[1])
	}
}

func TestSessionRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)
	user := createTestUser(t, db, "student")

	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	session := createTestSession(t, repo, user.ID, "Math", 0, day, false)

	if err := repo.Delete(session.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := repo.GetByID(session.ID); err == nil {
		t.Error("Expected an error fetching a deleted session")
	}
}
