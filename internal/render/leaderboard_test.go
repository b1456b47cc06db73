package render

import (
	"fmt"
	"strings"
	"testing"

	"confession/internal/models"
	"confession/internal/ranking"

	"github.com/stretchr/testify/assert"
)

func entries(n int) []ranking.LeaderboardEntry {
	out := make([]ranking.LeaderboardEntry, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, ranking.LeaderboardEntry{
			Position:      i,
			AnonymousName: fmt.Sprintf("User%02d", i),
			Points:        int64(1000 - i),
			RankEmoji:     "🎯",
			RankName:      "Freshman",
		})
	}
	return out
}

func TestLeaderboard_Empty(t *testing.T) {
	assert.NotPanics(t, func() {
		text := Leaderboard("Weekly", nil, nil)
		assert.Contains(t, text, "Weekly Leaderboard")
		assert.Contains(t, text, "No participants yet")
	})

	text := Leaderboard("All Time", []ranking.LeaderboardEntry{}, &models.LeaderboardStats{Participants: 3})
	assert.Contains(t, text, "No participants yet")
	assert.NotContains(t, text, "active participants")
}

func TestLeaderboard_PositionGlyphs(t *testing.T) {
	text := Leaderboard("Monthly", entries(12), nil)
	lines := strings.Split(text, "\n")

	expected := []string{"🥇", "🥈", "🥉", "🏅", "🏅", "⭐", "⭐", "⭐", "💫", "💫", "11\\.", "12\\."}
	var rows []string
	for _, line := range lines {
		if strings.Contains(line, "*User") {
			rows = append(rows, line)
		}
	}

	assert.Len(t, rows, len(expected))
	for i, row := range rows {
		assert.True(t, strings.HasPrefix(row, expected[i]+" "), "row %d = %q", i+1, row)
		assert.Contains(t, row, fmt.Sprintf("User%02d", i+1), "rows follow input order")
	}
}

func TestLeaderboard_FollowsInputOrder(t *testing.T) {
	list := []ranking.LeaderboardEntry{
		{Position: 1, AnonymousName: "Low", Points: 5, RankName: "Freshman"},
		{Position: 2, AnonymousName: "High", Points: 500, RankName: "Junior"},
	}
	text := Leaderboard("Weekly", list, nil)
	assert.Less(t, strings.Index(text, "Low"), strings.Index(text, "High"))
}

func TestLeaderboard_StatsBadgesAndStreaks(t *testing.T) {
	list := []ranking.LeaderboardEntry{
		{Position: 1, AnonymousName: "A", Points: 1500, RankEmoji: "💎", RankName: "Scholar",
			StreakDays: 45, SpecialBadges: []string{"💎", "⭐", "⭐"}},
		{Position: 2, AnonymousName: "B", Points: 20, RankEmoji: "🎯", RankName: "Freshman", StreakDays: 8},
		{Position: 3, AnonymousName: "C", Points: 10, RankEmoji: "🎯", RankName: "Freshman", StreakDays: 2},
	}
	stats := &models.LeaderboardStats{Participants: 3, AveragePoints: 510, MaxPoints: 1500}

	text := Leaderboard("Weekly", list, stats)

	assert.Contains(t, text, "👥 *3* active participants")
	assert.Contains(t, text, "Average: *510* points")
	assert.Contains(t, text, "Highest: *1,500* points")
	assert.Contains(t, text, "*A* 💎 ⭐ 🔥\n", "at most two badges then the streak marker")
	assert.Contains(t, text, "*B* ⚡\n")
	assert.Contains(t, text, "*C*\n")
	assert.Contains(t, text, "Scholar • *1,500* points")
}

func TestLeaderboardStats(t *testing.T) {
	text := LeaderboardStats(map[models.Period]models.LeaderboardStats{
		models.PeriodWeekly: {Participants: 2, AveragePoints: 12.6, MaxPoints: 20},
	})
	assert.Contains(t, text, "*Weekly*")
	assert.Contains(t, text, "2 participants • 📊 avg 13 • 🎯 top 20")
	assert.Contains(t, text, "*All Time*")
}
