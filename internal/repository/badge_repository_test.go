package repository

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	// Enable foreign key constraints (SQLite default is off)
	gormDB.Exec("PRAGMA foreign_keys = ON")

	db := &DB{gormDB}
	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}

	return db
}

// createTestUser creates a test user in the database.
func createTestUser(t *testing.T, db *DB, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// createTestBadge creates a catalog badge in the database.
func createTestBadge(t *testing.T, repo *BadgeRepository, name string, active bool) *models.Badge {
	t.Helper()

	badge := &models.Badge{
		Name:          name,
		Description:   "test badge",
		Icon:          "🎯",
		Category:      "streak",
		Tier:          models.TierBronze,
		Rarity:        models.RarityCommon,
		Points:        10,
		CriteriaKind:  models.CriteriaSessions,
		CriteriaValue: 1,
		IsActive:      active,
	}
	if err := repo.Create(badge); err != nil {
		t.Fatalf("Failed to create test badge: %v", err)
	}
	return badge
}

func TestBadgeRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgeRepository(db)

	badge := createTestBadge(t, repo, "First Steps", true)

	if badge.ID == 0 {
		t.Error("Expected badge ID to be set after creation")
	}
	if badge.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
}

func TestBadgeRepository_GetByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgeRepository(db)

	createTestBadge(t, repo, "First Steps", true)

	badge, err := repo.GetByName("First Steps")
	if err != nil {
		t.Fatalf("GetByName() failed: %v", err)
	}
	if badge == nil || badge.Name != "First Steps" {
		t.Fatalf("Expected First Steps, got %+v", badge)
	}

	missing, err := repo.GetByName("No Such Badge")
	if err != nil {
		t.Fatalf("GetByName() failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for a missing badge name")
	}
}

func TestBadgeRepository_GetActive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgeRepository(db)

	createTestBadge(t, repo, "Active Badge", true)
	createTestBadge(t, repo, "Retired Badge", false)

	active, err := repo.GetActive()
	if err != nil {
		t.Fatalf("GetActive() failed: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("Expected 1 active badge, got %d", len(active))
	}
	if active[0].Name != "Active Badge" {
		t.Errorf("Expected Active Badge, got %q", active[0].Name)
	}
}

func TestBadgeRepository_AwardBadges(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgeRepository(db)

	user := createTestUser(t, db, "student")
	badge1 := createTestBadge(t, repo, "Badge One", true)
	badge2 := createTestBadge(t, repo, "Badge Two", true)

	err := repo.AwardBadges(user.ID, []uint{badge1.ID, badge2.ID})
	if err != nil {
		t.Fatalf("AwardBadges() failed: %v", err)
	}

	earned, err := repo.GetEarnedBadgeIDs(user.ID)
	if err != nil {
		t.Fatalf("GetEarnedBadgeIDs() failed: %v", err)
	}
	if len(earned) != 2 || !earned[badge1.ID] || !earned[badge2.ID] {
		t.Errorf("Expected both badges earned, got %v", earned)
	}

	count, err := repo.GetUserBadgeCount(user.ID)
	if err != nil {
		t.Fatalf("GetUserBadgeCount() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected badge count 2, got %d", count)
	}
}

func TestBadgeRepository_AwardBadges_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgeRepository(db)

	user := createTestUser(t, db, "student")
	badge := createTestBadge(t, repo, "Badge One", true)

	if err := repo.AwardBadges(user.ID, []uint{badge.ID}); err != nil {
		t.Fatalf("first AwardBadges() failed: %v", err)
	}
	// Awarding the same badge again is a quiet no-op.
	if err := repo.AwardBadges(user.ID, []uint{badge.ID}); err != nil {
		t.Fatalf("second AwardBadges() failed: %v", err)
	}

	count, err := repo.GetUserBadgeCount(user.ID)
	if err != nil {
		t.Fatalf("GetUserBadgeCount() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected a single award after repeat call, got %d", count)
	}
}

func TestBadgeRepository_AwardBadges_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgeRepository(db)

	if err := repo.AwardBadges(1, nil); err != nil {
		t.Fatalf("AwardBadges() with no IDs failed: %v", err)
	}
}

func TestBadgeRepository_GetUserBadges(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgeRepository(db)

	user := createTestUser(t, db, "student")
	badge1 := createTestBadge(t, repo, "Older Badge", true)
	badge2 := createTestBadge(t, repo, "Newer Badge", true)

	older := &models.UserBadge{UserID: user.ID, BadgeID: badge1.ID, EarnedAt: time.Now().Add(-time.Hour)}
	newer := &models.UserBadge{UserID: user.ID, BadgeID: badge2.ID, EarnedAt: time.Now()}
	if err := db.Create(older).Error; err != nil {
		t.Fatalf("Failed to create user badge: %v", err)
	}
	if err := db.Create(newer).Error; err != nil {
		t.Fatalf("Failed to create user badge: %v", err)
	}

	userBadges, err := repo.GetUserBadges(user.ID)
	if err != nil {
		t.Fatalf("GetUserBadges() failed: %v", err)
	}
	if len(userBadges) != 2 {
		t.Fatalf("Expected 2 user badges, got %d", len(userBadges))
	}
	// Most recently earned first, with badge details preloaded.
	if userBadges[0].Badge.Name != "Newer Badge" {
		t.Errorf("Expected Newer Badge first, got %q", userBadges[0].Badge.Name)
	}
	if userBadges[1].Badge.Name != "Older Badge" {
		t.Errorf("Expected Older Badge second, got %q", userBadges[1].Badge.Name)
	}
}

func TestBadgeRepository_HasUserEarnedBadge(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgeRepository(db)

	user := createTestUser(t, db, "student")
	badge := createTestBadge(t, repo, "Badge One", true)

	earned, err := repo.HasUserEarnedBadge(user.ID, badge.ID)
	if err != nil {
		t.Fatalf("HasUserEarnedBadge() failed: %v", err)
	}
	if earned {
		t.Error("Expected badge not yet earned")
	}

	if err := repo.AwardBadges(user.ID, []uint{badge.ID}); err != nil {
		t.Fatalf("AwardBadges() failed: %v", err)
	}

	earned, err = repo.HasUserEarnedBadge(user.ID, badge.ID)
	if err != nil {
		t.Fatalf("HasUserEarnedBadge() failed: %v", err)
	}
	if !earned {
		t.Error("Expected badge earned after award")
	}
}
