package ranking

import "time"

// StreakBand is the tier of a consecutive-day streak.
type StreakBand int

const (
	StreakNone    StreakBand = iota // 0 days
	StreakStarter                   // 1-6
	StreakWeek                      // 7-29
	StreakMonth                     // 30-89
	StreakQuarter                   // 90-364
	StreakYear                      // 365+
)

// ClassifyStreak maps a day count to its band. Negative counts are StreakNone.
func ClassifyStreak(days int) StreakBand {
	switch {
	case days <= 0:
		return StreakNone
	case days < 7:
		return StreakStarter
	case days < 30:
		return StreakWeek
	case days < 90:
		return StreakMonth
	case days < 365:
		return StreakQuarter
	default:
		return StreakYear
	}
}

// Point values awarded by daily check-ins.
const (
	PointsDailyLogin      = 5
	PointsConsecutiveDays = 10
	PointsWeekStreak      = 50
	PointsMonthStreak     = 200
	PointsQuarterStreak   = 500
	PointsYearStreak      = 1000

	consecutiveBonusFrom = 3
)

// PointAward is a single line of a points breakdown.
type PointAward struct {
	Reason string
	Points int64
}

// CheckInResult describes the outcome of a daily check-in.
type CheckInResult struct {
	Counted bool // false when the user already checked in today
	Streak  int
	Awards  []PointAward
}

// Total sums the awarded points.
func (r CheckInResult) Total() int64 {
	var total int64
	for _, a := range r.Awards {
		total += a.Points
	}
	return total
}

// CheckIn applies a check-in made at now to a user whose previous check-in
// was at last (zero time when never) with the given streak. Days are UTC
// calendar days.
func CheckIn(last time.Time, streak int, now time.Time) CheckInResult {
	today := utcDay(now)

	if !last.IsZero() {
		prev := utcDay(last)
		if !today.After(prev) {
			return CheckInResult{Streak: streak}
		}
		if today.Sub(prev) == 24*time.Hour && streak > 0 {
			streak++
		} else {
			streak = 1
		}
	} else {
		streak = 1
	}

	result := CheckInResult{Counted: true, Streak: streak}
	result.Awards = append(result.Awards, PointAward{Reason: "daily_login", Points: PointsDailyLogin})
	if streak >= consecutiveBonusFrom {
		result.Awards = append(result.Awards, PointAward{Reason: "consecutive_days", Points: PointsConsecutiveDays})
	}
	switch streak {
	case 7:
		result.Awards = append(result.Awards, PointAward{Reason: "week_streak", Points: PointsWeekStreak})
	case 30:
		result.Awards = append(result.Awards, PointAward{Reason: "month_streak", Points: PointsMonthStreak})
	case 90:
		result.Awards = append(result.Awards, PointAward{Reason: "quarter_streak", Points: PointsQuarterStreak})
	case 365:
		result.Awards = append(result.Awards, PointAward{Reason: "year_streak", Points: PointsYearStreak})
	}
	return result
}

func utcDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
