package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStreak(t *testing.T) {
	testCases := []struct {
		days     int
		expected StreakBand
	}{
		{-3, StreakNone},
		{0, StreakNone},
		{1, StreakStarter},
		{6, StreakStarter},
		{7, StreakWeek},
		{29, StreakWeek},
		{30, StreakMonth},
		{89, StreakMonth},
		{90, StreakQuarter},
		{364, StreakQuarter},
		{365, StreakYear},
		{400, StreakYear},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ClassifyStreak(tc.days), "days=%d", tc.days)
	}
}

func TestCheckIn(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	t.Run("first check-in starts a streak", func(t *testing.T) {
		res := CheckIn(time.Time{}, 0, now)
		assert.True(t, res.Counted)
		assert.Equal(t, 1, res.Streak)
		assert.Equal(t, int64(PointsDailyLogin), res.Total())
	})

	t.Run("same day is not counted twice", func(t *testing.T) {
		res := CheckIn(now.Add(-3*time.Hour), 4, now)
		assert.False(t, res.Counted)
		assert.Equal(t, 4, res.Streak)
		assert.Zero(t, res.Total())
	})

	t.Run("yesterday extends the streak", func(t *testing.T) {
		res := CheckIn(now.AddDate(0, 0, -1), 1, now)
		assert.True(t, res.Counted)
		assert.Equal(t, 2, res.Streak)
		assert.Equal(t, int64(PointsDailyLogin), res.Total())
	})

	t.Run("consecutive bonus from third day", func(t *testing.T) {
		res := CheckIn(now.AddDate(0, 0, -1), 2, now)
		assert.Equal(t, 3, res.Streak)
		assert.Equal(t, int64(PointsDailyLogin+PointsConsecutiveDays), res.Total())
	})

	t.Run("week milestone", func(t *testing.T) {
		res := CheckIn(now.AddDate(0, 0, -1), 6, now)
		assert.Equal(t, 7, res.Streak)
		assert.Equal(t, int64(PointsDailyLogin+PointsConsecutiveDays+PointsWeekStreak), res.Total())
	})

	t.Run("year milestone", func(t *testing.T) {
		res := CheckIn(now.AddDate(0, 0, -1), 364, now)
		assert.Equal(t, 365, res.Streak)
		assert.Equal(t, int64(PointsDailyLogin+PointsConsecutiveDays+PointsYearStreak), res.Total())
	})

	t.Run("gap resets the streak", func(t *testing.T) {
		res := CheckIn(now.AddDate(0, 0, -3), 12, now)
		assert.True(t, res.Counted)
		assert.Equal(t, 1, res.Streak)
	})

	t.Run("day boundary is UTC", func(t *testing.T) {
		late := time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC)
		early := time.Date(2026, 3, 10, 0, 1, 0, 0, time.UTC)
		res := CheckIn(late, 1, early)
		assert.True(t, res.Counted)
		assert.Equal(t, 2, res.Streak)
	})
}
