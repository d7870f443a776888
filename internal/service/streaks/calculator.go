package streaks

import (
	"time"

	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/models"
	"github.com/brian-miller-r/Henry-congressional-app-challenge/internal/repository"
)

const dateLayout = "2006-01-02"

// dateKey formats a date for map lookups and API payloads.
func dateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// Today returns the current calendar date in the configured timezone,
// normalized to midnight UTC. Streak boundaries always follow this date,
// never the server's local clock.
func (s *Service) Today() time.Time {
	return models.DateOnly(s.now().In(s.loc))
}

// validDaySet reduces per-date totals to the set of valid study dates.
// A date is valid when its aggregate completed minutes meet the minimum;
// individual sessions below the minimum still contribute to the aggregate.
func (s *Service) validDaySet(totals []repository.DayTotal) map[string]bool {
	valid := make(map[string]bool, len(totals))
	for _, dt := range totals {
		if dt.TotalMinutes >= s.minStudyMinutes {
			valid[dateKey(dt.Date)] = true
		}
	}
	return valid
}

// HasValidStudyDay reports whether a user's completed sessions on one date
// add up to a valid study day, along with the total minutes studied.
func (s *Service) HasValidStudyDay(userID uint, date time.Time) (bool, int, error) {
	total, err := s.sessionRepo.MinutesOnDate(userID, date)
	if err != nil {
		return false, 0, err
	}
	return total >= s.minStudyMinutes, total, nil
}

// CurrentStreak calculates the user's current consecutive-day streak and
// its start date. Walks backward from today; when today itself is not yet
// a valid study day, a one-day grace period keeps the streak alive through
// yesterday.
func (s *Service) CurrentStreak(userID uint) (int, time.Time, error) {
	totals, err := s.sessionRepo.DailyTotals(userID)
	if err != nil {
		return 0, time.Time{}, err
	}
	valid := s.validDaySet(totals)

	today := s.Today()
	days, start := countBackward(valid, today)

	if days == 0 {
		// Grace period: a streak through yesterday is still alive even if
		// the user has not studied today.
		yesterday := today.AddDate(0, 0, -1)
		if valid[dateKey(yesterday)] {
			days, start = countBackward(valid, yesterday)
		}
	}

	return days, start, nil
}

// countBackward counts consecutive valid days ending at from, returning the
// run length and its earliest date.
func countBackward(valid map[string]bool, from time.Time) (int, time.Time) {
	days := 0
	var start time.Time
	for check := from; valid[dateKey(check)]; check = check.AddDate(0, 0, -1) {
		days++
		start = check
	}
	return days, start
}

// LongestStreak calculates the user's longest streak ever, returning its
// length, start date and end date. When several runs share the maximum
// length the earliest one is reported; a longer run replaces the previous
// best only on a strict improvement.
func (s *Service) LongestStreak(userID uint) (int, time.Time, time.Time, error) {
	totals, err := s.sessionRepo.DailyTotals(userID)
	if err != nil {
		return 0, time.Time{}, time.Time{}, err
	}

	// Distinct valid study dates, ascending (DailyTotals orders by date).
	var dates []time.Time
	for _, dt := range totals {
		if dt.TotalMinutes >= s.minStudyMinutes {
			dates = append(dates, models.DateOnly(dt.Date))
		}
	}
	if len(dates) == 0 {
		return 0, time.Time{}, time.Time{}, nil
	}

	var (
		longest      int
		longestStart time.Time
		longestEnd   time.Time
	)

	current := 1
	currentStart := dates[0]

	for i := 1; i < len(dates); i++ {
		if dates[i].Equal(dates[i-1].AddDate(0, 0, 1)) {
			current++
			continue
		}
		if current > longest {
			longest = current
			longestStart = currentStart
			longestEnd = dates[i-1]
		}
		current = 1
		currentStart = dates[i]
	}

	if current > longest {
		longest = current
		longestStart = currentStart
		longestEnd = dates[len(dates)-1]
	}

	return longest, longestStart, longestEnd, nil
}
