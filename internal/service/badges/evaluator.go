package badges

import (
	"time"

	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/models"
)

// satisfied evaluates a criteria variant against a user's activity. The
// earned set includes awards pending in the current pass so completionist
// criteria see badges earned moments earlier.
func (s *Service) satisfied(c Criteria, userID uint, catalog []models.Badge, earned map[uint]bool) (bool, error) {
	switch crit := c.(type) {
	case SessionCountCriteria:
		count, err := s.sessionRepo.CountCompleted(userID)
		if err != nil {
			return false, err
		}
		return count >= int64(crit.Count), nil

	case StreakLengthCriteria:
		streak, err := s.streakRepo.GetActive(userID)
		if err != nil {
			return false, err
		}
		if streak == nil {
			return false, nil
		}
		return streak.CurrentDays >= crit.Days, nil

	case TotalTimeCriteria:
		total, err := s.sessionRepo.TotalMinutes(userID)
		if err != nil {
			return false, err
		}
		return total >= crit.Minutes, nil

	case SubjectTimeCriteria:
		total, err := s.sessionRepo.SubjectMinutes(userID, crit.Subject)
		if err != nil {
			return false, err
		}
		return total >= crit.Minutes, nil

	case TimeOfDayCriteria:
		count, err := s.countTimeOfDaySessions(userID, crit)
		if err != nil {
			return false, err
		}
		return count >= crit.Sessions, nil

	case WeekendCriteria:
		count, err := s.countDistinctWeekends(userID)
		if err != nil {
			return false, err
		}
		return count >= crit.Weekends, nil

	case MarathonSessionCriteria:
		longest, err := s.sessionRepo.LongestSessionMinutes(userID)
		if err != nil {
			return false, err
		}
		return longest >= crit.Minutes, nil

	case SubjectSpreadCriteria:
		return s.studiedAllSubjectsInWindow(userID, crit.Subjects, crit.WindowDays)

	case CompletionistCriteria:
		return earnedAllByRarity(catalog, earned, crit.Rarities), nil

	default:
		// Unreachable for values produced by ParseCriteria.
		return false, nil
	}
}

// countTimeOfDaySessions counts completed sessions whose start hour falls
// at or past the criteria hour (or at or before it, for before-hour
// criteria). Both comparisons are inclusive.
func (s *Service) countTimeOfDaySessions(userID uint, crit TimeOfDayCriteria) (int, error) {
	sessions, err := s.sessionRepo.CompletedSessions(userID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, session := range sessions {
		if session.StartTime.IsZero() {
			continue
		}
		hour := session.StartTime.In(s.loc).Hour()
		if crit.Before && hour <= crit.Hour {
			count++
		} else if !crit.Before && hour >= crit.Hour {
			count++
		}
	}
	return count, nil
}

// countDistinctWeekends counts the distinct weekends (anchored to their
// Saturday) holding at least one completed session.
func (s *Service) countDistinctWeekends(userID uint) (int, error) {
	sessions, err := s.sessionRepo.CompletedSessions(userID)
	if err != nil {
		return 0, err
	}

	weekends := make(map[string]bool)
	for _, session := range sessions {
		date := models.DateOnly(session.SessionDate)
		switch date.Weekday() {
		case time.Saturday:
			weekends[date.Format("2006-01-02")] = true
		case time.Sunday:
			weekends[date.AddDate(0, 0, -1).Format("2006-01-02")] = true
		default:
		}
	}
	return len(weekends), nil
}

// studiedAllSubjectsInWindow reports whether every required subject appears
// among the user's completed sessions in the trailing window ending today.
func (s *Service) studiedAllSubjectsInWindow(userID uint, subjects []string, windowDays int) (bool, error) {
	end := s.today()
	start := end.AddDate(0, 0, -(windowDays - 1))

	sessions, err := s.sessionRepo.CompletedInRange(userID, start, end)
	if err != nil {
		return false, err
	}

	studied := make(map[string]bool, len(sessions))
	for _, session := range sessions {
		studied[session.Subject] = true
	}
	for _, subject := range subjects {
		if !studied[subject] {
			return false, nil
		}
	}
	return true, nil
}

// earnedAllByRarity reports whether every non-secret active catalog badge
// of the listed rarities is in the earned set. Secret badges never count
// toward completionist criteria.
func earnedAllByRarity(catalog []models.Badge, earned map[uint]bool, rarities []string) bool {
	wanted := make(map[string]bool, len(rarities))
	for _, r := range rarities {
		wanted[r] = true
	}

	found := false
	for i := range catalog {
		b := &catalog[i]
		if !wanted[b.Rarity] || b.IsSecret || !b.IsActive {
			continue
		}
		found = true
		if !earned[b.ID] {
			return false
		}
	}
	return found
}

// progressValue computes the numerator an award check would use for a
// criteria variant, without awarding anything. Subject-spread and
// completionist criteria report no meaningful scalar and return zero.
func (s *Service) progressValue(c Criteria, userID uint) (int, error) {
	switch crit := c.(type) {
	case SessionCountCriteria:
		count, err := s.sessionRepo.CountCompleted(userID)
		return int(count), err

	case StreakLengthCriteria:
		streak, err := s.streakRepo.GetActive(userID)
		if err != nil || streak == nil {
			return 0, err
		}
		return streak.CurrentDays, nil

	case TotalTimeCriteria:
		return s.sessionRepo.TotalMinutes(userID)

	case SubjectTimeCriteria:
		return s.sessionRepo.SubjectMinutes(userID, crit.Subject)

	case TimeOfDayCriteria:
		return s.countTimeOfDaySessions(userID, crit)

	case WeekendCriteria:
		return s.countDistinctWeekends(userID)

	case MarathonSessionCriteria:
		return s.sessionRepo.LongestSessionMinutes(userID)

	default:
		return 0, nil
	}
}
