package badges

import (
	"fmt"

	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/models"
)

// Criteria is the closed set of badge criteria variants. Catalog rows are
// decoded into exactly one of these typed payloads before evaluation;
// anything that fails to decode is treated as never satisfied.
type Criteria interface {
	isCriteria()
}

// SessionCountCriteria: completed session count reaches a threshold.
type SessionCountCriteria struct {
	Count int
}

// StreakLengthCriteria: current streak length reaches a threshold.
type StreakLengthCriteria struct {
	Days int
}

// TotalTimeCriteria: all-time completed minutes reach a threshold.
type TotalTimeCriteria struct {
	Minutes int
}

// SubjectTimeCriteria: completed minutes for one subject reach a threshold.
type SubjectTimeCriteria struct {
	Subject string
	Minutes int
}

// TimeOfDayCriteria: a number of sessions started at or past (or at or
// before, when Before is set) a given hour of day.
type TimeOfDayCriteria struct {
	Hour     int
	Before   bool
	Sessions int
}

// WeekendCriteria: sessions on a number of distinct weekends, anchored to
// the weekend's Saturday.
type WeekendCriteria struct {
	Weekends int
}

// MarathonSessionCriteria: any single completed session of a duration.
type MarathonSessionCriteria struct {
	Minutes int
}

// SubjectSpreadCriteria: every listed subject studied within the trailing
// window.
type SubjectSpreadCriteria struct {
	Subjects   []string
	WindowDays int
}

// CompletionistCriteria: every non-secret active badge of the listed
// rarities earned. Evaluated after regular criteria in an award pass so
// badges earned in the same pass count.
type CompletionistCriteria struct {
	Rarities []string
}

func (SessionCountCriteria) isCriteria()    {}
func (StreakLengthCriteria) isCriteria()    {}
func (TotalTimeCriteria) isCriteria()       {}
func (SubjectTimeCriteria) isCriteria()     {}
func (TimeOfDayCriteria) isCriteria()       {}
func (WeekendCriteria) isCriteria()         {}
func (MarathonSessionCriteria) isCriteria() {}
func (SubjectSpreadCriteria) isCriteria()   {}
func (CompletionistCriteria) isCriteria()   {}

// subjectSpreadWindowDays is the trailing window for subject-spread badges.
const subjectSpreadWindowDays = 7

// ParseCriteria decodes a catalog badge into its typed criteria variant.
func ParseCriteria(badge *models.Badge) (Criteria, error) {
	switch badge.CriteriaKind {
	case models.CriteriaSessions:
		return SessionCountCriteria{Count: badge.CriteriaValue}, nil

	case models.CriteriaStreak:
		return StreakLengthCriteria{Days: badge.CriteriaValue}, nil

	case models.CriteriaTime:
		return TotalTimeCriteria{Minutes: badge.CriteriaValue}, nil

	case models.CriteriaSubjectTime:
		params, err := badge.Params()
		if err != nil {
			return nil, err
		}
		if params.Subject == "" {
			return nil, fmt.Errorf("badge %q: subject_time criteria requires a subject", badge.Name)
		}
		return SubjectTimeCriteria{Subject: params.Subject, Minutes: badge.CriteriaValue}, nil

	case models.CriteriaSpecial:
		return parseSpecialCriteria(badge)

	default:
		return nil, fmt.Errorf("badge %q: unknown criteria kind %q", badge.Name, badge.CriteriaKind)
	}
}

func parseSpecialCriteria(badge *models.Badge) (Criteria, error) {
	params, err := badge.Params()
	if err != nil {
		return nil, err
	}

	switch params.Condition {
	case models.ConditionStudyAfterHour:
		return TimeOfDayCriteria{Hour: params.Hour, Before: false, Sessions: badge.CriteriaValue}, nil

	case models.ConditionStudyBeforeHour:
		return TimeOfDayCriteria{Hour: params.Hour, Before: true, Sessions: badge.CriteriaValue}, nil

	case models.ConditionWeekendSessions:
		return WeekendCriteria{Weekends: badge.CriteriaValue}, nil

	case models.ConditionSingleSessionDuration:
		return MarathonSessionCriteria{Minutes: badge.CriteriaValue}, nil

	case models.ConditionSubjectsInWeek:
		if len(params.Subjects) == 0 {
			return nil, fmt.Errorf("badge %q: subjects_in_week criteria requires subjects", badge.Name)
		}
		return SubjectSpreadCriteria{Subjects: params.Subjects, WindowDays: subjectSpreadWindowDays}, nil

	case models.ConditionEarnAllBadges:
		if len(params.Rarities) == 0 {
			return nil, fmt.Errorf("badge %q: earn_all_badges criteria requires rarities", badge.Name)
		}
		return CompletionistCriteria{Rarities: params.Rarities}, nil

	default:
		return nil, fmt.Errorf("badge %q: unknown special condition %q", badge.Name, params.Condition)
	}
}
