package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// CriteriaKind identifies how a badge's criteria are evaluated. The set is
// closed; rows carrying any other value are logged and never satisfied.
type CriteriaKind string

// Criteria kinds.
const (
	CriteriaSessions    CriteriaKind = "sessions"     // completed session count
	CriteriaStreak      CriteriaKind = "streak"       // current streak length in days
	CriteriaTime        CriteriaKind = "time"         // total completed minutes, all time
	CriteriaSubjectTime CriteriaKind = "subject_time" // total completed minutes for one subject
	CriteriaSpecial     CriteriaKind = "special"      // named predicate with typed parameters
)

// SpecialCondition names a special-predicate criteria variant.
type SpecialCondition string

// Special conditions.
const (
	ConditionStudyAfterHour        SpecialCondition = "study_after_hour"
	ConditionStudyBeforeHour       SpecialCondition = "study_before_hour"
	ConditionWeekendSessions       SpecialCondition = "weekend_sessions"
	ConditionSingleSessionDuration SpecialCondition = "single_session_duration"
	ConditionSubjectsInWeek        SpecialCondition = "subjects_in_week"
	ConditionEarnAllBadges         SpecialCondition = "earn_all_badges"
)

// Badge tiers and their point values.
const (
	TierBronze    = "bronze"
	TierSilver    = "silver"
	TierGold      = "gold"
	TierPlatinum  = "platinum"
	TierLegendary = "legendary"
)

// TierPoints maps a badge tier to the points awarded for earning it.
var TierPoints = map[string]int{
	TierBronze:    10,
	TierSilver:    25,
	TierGold:      50,
	TierPlatinum:  100,
	TierLegendary: 250,
}

// Badge rarities.
const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// CriteriaParams carries the structured parameters of a special-predicate
// badge. It is stored as a JSON column but always decoded into this typed
// struct, never into an untyped map.
type CriteriaParams struct {
	Condition SpecialCondition `json:"condition,omitempty"`
	Hour      int              `json:"hour,omitempty"`
	Subject   string           `json:"subject,omitempty"`
	Subjects  []string         `json:"subjects,omitempty"`
	Rarities  []string         `json:"rarities,omitempty"`
}

// Badge is an immutable catalog entry describing one achievement.
type Badge struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Description    string          `gorm:"type:text;not null" json:"description"`
	Icon           string          `gorm:"size:10;not null" json:"icon"`
	Category       string          `gorm:"size:50;not null;default:general" json:"category"`
	Tier           string          `gorm:"size:20;not null;default:bronze" json:"tier"`
	Rarity         string          `gorm:"size:20;not null;default:common" json:"rarity"`
	Points         int             `gorm:"not null;default:10" json:"points"`
	CriteriaKind   CriteriaKind    `gorm:"column:criteria_kind;size:50;not null" json:"criteria_kind"`
	CriteriaValue  int             `gorm:"not null" json:"criteria_value"`
	CriteriaParams json.RawMessage `gorm:"type:text" json:"criteria_params,omitempty"`
	Color          string          `gorm:"size:7;not null;default:#4285f4" json:"color"`
	IsSecret       bool            `gorm:"not null;default:false" json:"is_secret"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Badge model.
func (Badge) TableName() string {
	return "badges"
}

// Params decodes the criteria parameter payload. Returns an empty struct
// when the badge carries no parameters.
func (b *Badge) Params() (*CriteriaParams, error) {
	if len(b.CriteriaParams) == 0 {
		return &CriteriaParams{}, nil
	}
	var p CriteriaParams
	if err := json.Unmarshal(b.CriteriaParams, &p); err != nil {
		return nil, fmt.Errorf("failed to decode criteria params for badge %q: %w", b.Name, err)
	}
	return &p, nil
}

// SetParams encodes the criteria parameter payload.
func (b *Badge) SetParams(p *CriteriaParams) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode criteria params for badge %q: %w", b.Name, err)
	}
	b.CriteriaParams = raw
	return nil
}

// UserBadge records that a user has satisfied a badge's criteria. A badge
// is awarded at most once per user.
type UserBadge struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index;uniqueIndex:idx_user_badge" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BadgeID  uint      `gorm:"not null;index;uniqueIndex:idx_user_badge" json:"badge_id"`
	Badge    Badge     `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
	EarnedAt time.Time `gorm:"not null" json:"earned_at"`
}

// TableName specifies the table name for UserBadge model.
func (UserBadge) TableName() string {
	return "user_badges"
}
