package ranking

import (
	"testing"

	"confession/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLeaderboard(t *testing.T) {
	rows := []models.LeaderboardRow{
		{UserID: 7, Points: 300, TotalPoints: 4000, StreakDays: 40, SpecialAchievements: 1},
		{UserID: 3, Points: 500, TotalPoints: 150, StreakDays: 2},
		{UserID: 9, Points: 10, TotalPoints: 10},
	}

	entries := BuildLeaderboard(rows, DefaultTable)
	require.Len(t, entries, 3)

	// Input order is kept even when points are not descending.
	for i, e := range entries {
		assert.Equal(t, i+1, e.Position)
		assert.Equal(t, rows[i].Points, e.Points)
		assert.Equal(t, AnonymousName(rows[i].UserID), e.AnonymousName)
	}

	assert.Equal(t, "Scholar", entries[0].RankName)
	assert.Equal(t, []string{"💎", "⭐"}, entries[0].SpecialBadges)
	assert.Equal(t, 40, entries[0].StreakDays)
	assert.Equal(t, "Sophomore", entries[1].RankName)
	assert.Empty(t, entries[1].SpecialBadges)
	assert.Equal(t, "Freshman", entries[2].RankName)
}

func TestBuildLeaderboard_Empty(t *testing.T) {
	entries := BuildLeaderboard(nil, DefaultTable)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestAnonymousName(t *testing.T) {
	assert.Equal(t, AnonymousName(12345), AnonymousName(12345), "stable for the same user")
	assert.NotContains(t, AnonymousName(12345), "12345")

	seen := make(map[string]bool)
	for id := int64(1); id <= 50; id++ {
		seen[AnonymousName(id)] = true
	}
	assert.Greater(t, len(seen), 40, "names should rarely collide")
}
