package render

import (
	"fmt"
	"math"
	"strings"

	"confession/internal/models"
	"confession/internal/ranking"
)

const maxBadgesShown = 2

var positionGlyphs = map[int]string{
	1: "🥇", 2: "🥈", 3: "🥉", 4: "🏅", 5: "🏅",
	6: "⭐", 7: "⭐", 8: "⭐", 9: "💫", 10: "💫",
}

// PositionLabel returns the glyph for positions 1-10 and an escaped "N."
// label for everything else.
func PositionLabel(position int) string {
	if glyph, ok := positionGlyphs[position]; ok {
		return glyph
	}
	return Escape(fmt.Sprintf("%d.", position))
}

// Leaderboard formats entries in the order given. stats may be nil.
func Leaderboard(title string, entries []ranking.LeaderboardEntry, stats *models.LeaderboardStats) string {
	var text strings.Builder

	fmt.Fprintf(&text, "🏆 *%s Leaderboard*\n\n", Escape(title))

	if len(entries) == 0 {
		text.WriteString("🎯 No participants yet\\. Be the first to earn your place\\!\n\n")
		text.WriteString("💡 *Tips to get on the leaderboard:*\n")
		text.WriteString("• Check in every day with /checkin\n")
		text.WriteString("• Submit quality confessions\n")
		text.WriteString("• Engage with comments\n")
		text.WriteString("• Earn achievements\n")
		return text.String()
	}

	if stats != nil {
		fmt.Fprintf(&text, "👥 *%s* active participants\n", Number(int64(stats.Participants)))
		fmt.Fprintf(&text, "📊 Average: *%s* points\n", Number(int64(math.Round(stats.AveragePoints))))
		fmt.Fprintf(&text, "🎯 Highest: *%s* points\n\n", Number(stats.MaxPoints))
	}

	for _, e := range entries {
		badges := ""
		if len(e.SpecialBadges) > 0 {
			shown := e.SpecialBadges
			if len(shown) > maxBadgesShown {
				shown = shown[:maxBadgesShown]
			}
			badges = " " + Escape(strings.Join(shown, " "))
		}

		fmt.Fprintf(&text, "%s %s *%s*%s%s\n",
			PositionLabel(e.Position), Escape(e.RankEmoji), Escape(e.AnonymousName), badges, streakIndicator(e.StreakDays))
		fmt.Fprintf(&text, "     %s • *%s* points\n\n", Escape(e.RankName), Number(e.Points))
	}

	text.WriteString("🚀 *Keep climbing the ranks\\!*")
	return text.String()
}

// LeaderboardStats summarises every period's aggregate numbers.
func LeaderboardStats(stats map[models.Period]models.LeaderboardStats) string {
	var text strings.Builder
	text.WriteString("📊 *LEADERBOARD STATS*\n\n")
	for _, p := range models.Periods {
		s := stats[p]
		fmt.Fprintf(&text, "*%s*\n", Escape(p.Title()))
		fmt.Fprintf(&text, "   👥 %s participants • 📊 avg %s • 🎯 top %s\n\n",
			Number(int64(s.Participants)), Number(int64(math.Round(s.AveragePoints))), Number(s.MaxPoints))
	}
	text.WriteString("🔒 *Privacy Protected:* all names are anonymized")
	return text.String()
}
