package models

import (
	"strings"
	"time"
)

// UserRanking is the persisted activity record of a user. Total points are
// summed from point events when the record is read.
type UserRanking struct {
	UserID          int64
	TotalPoints     int64
	ConsecutiveDays int
	CheckIns        int
	LastCheckIn     time.Time // zero when the user never checked in
}

// Achievement is an unlocked achievement. It is never changed once stored.
type Achievement struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Points      int64     `json:"points"`
	IsSpecial   bool      `json:"is_special"`
	EarnedAt    time.Time `json:"earned_at"`
}

// PointEvent is an append-only points change.
type PointEvent struct {
	ID        string
	UserID    int64
	Points    int64
	Reason    string
	CreatedAt time.Time
}

// LeaderboardRow is a user's standing within a period, as read from storage.
type LeaderboardRow struct {
	UserID              int64 `json:"user_id"`
	Points              int64 `json:"points"`       // earned within the period
	TotalPoints         int64 `json:"total_points"` // all time
	StreakDays          int   `json:"streak_days"`
	SpecialAchievements int   `json:"special_achievements"`
}

// LeaderboardStats aggregates a period's participants.
type LeaderboardStats struct {
	Participants  int     `json:"participants"`
	AveragePoints float64 `json:"average_points"`
	MaxPoints     int64   `json:"max_points"`
}

// Period is a leaderboard time window.
type Period string

const (
	PeriodWeekly    Period = "weekly"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
	PeriodAllTime   Period = "alltime"
)

// Periods lists every period in display order.
var Periods = []Period{PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly, PeriodAllTime}

// ParsePeriod maps user input to a Period, defaulting to all time.
func ParsePeriod(s string) Period {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly:
		return p
	default:
		return PeriodAllTime
	}
}

// Since returns the start of the window ending at now. All time starts at
// the Unix epoch.
func (p Period) Since(now time.Time) time.Time {
	switch p {
	case PeriodWeekly:
		return now.AddDate(0, 0, -7)
	case PeriodMonthly:
		return now.AddDate(0, 0, -30)
	case PeriodQuarterly:
		return now.AddDate(0, 0, -90)
	case PeriodYearly:
		return now.AddDate(0, 0, -365)
	default:
		return time.Unix(0, 0).UTC()
	}
}

// Title is the human readable name of the period.
func (p Period) Title() string {
	switch p {
	case PeriodWeekly:
		return "Weekly"
	case PeriodMonthly:
		return "Monthly"
	case PeriodQuarterly:
		return "Quarterly"
	case PeriodYearly:
		return "Yearly"
	default:
		return "All Time"
	}
}
