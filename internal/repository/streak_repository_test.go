package repository

import (
	"testing"
	"time"

	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/models"
)

func TestStreakRepository_GetActive_None(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStreakRepository(db)

	streak, err := repo.GetActive(1)
	if err != nil {
		t.Fatalf("GetActive() failed: %v", err)
	}
	if streak != nil {
		t.Errorf("Expected nil without an active streak, got %+v", streak)
	}
}

func TestStreakRepository_CreateAndDeactivate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStreakRepository(db)
	user := createTestUser(t, db, "student")

	start := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	streak := &models.Streak{
		UserID:      user.ID,
		StartDate:   start,
		CurrentDays: 3,
		IsActive:    true,
	}
	if err := repo.Create(streak); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	active, err := repo.GetActive(user.ID)
	if err != nil {
		t.Fatalf("GetActive() failed: %v", err)
	}
	if active == nil || active.CurrentDays != 3 {
		t.Fatalf("Expected active 3-day streak, got %+v", active)
	}
	if active.EndDate != nil {
		t.Error("Expected nil end date while active")
	}

	end := start.AddDate(0, 0, 2)
	active.IsActive = false
	active.EndDate = &end
	if err := repo.Save(active); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	after, err := repo.GetActive(user.ID)
	if err != nil {
		t.Fatalf("GetActive() failed: %v", err)
	}
	if after != nil {
		t.Errorf("Expected no active streak after deactivation, got %+v", after)
	}
}

func TestStreakRepository_History(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStreakRepository(db)
	user := createTestUser(t, db, "student")

	older := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	olderEnd := older.AddDate(0, 0, 4)

	if err := repo.Create(&models.Streak{UserID: user.ID, StartDate: older, EndDate: &olderEnd, CurrentDays: 5, IsActive: false}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := repo.Create(&models.Streak{UserID: user.ID, StartDate: newer, CurrentDays: 2, IsActive: true}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	history, err := repo.History(user.ID, 0)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 streaks, got %d", len(history))
	}
	// Most recent first.
	if !history[0].StartDate.Equal(newer) {
		t.Errorf("Expected newest streak first, got start %v", history[0].StartDate)
	}

	limited, err := repo.History(user.ID, 1)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected limit of 1 respected, got %d", len(limited))
	}
}
