package render

import (
	"fmt"
	"strings"

	"confession/internal/ranking"
)

const (
	glyphMax   = "🔥"
	glyphEmpty = "▫️"

	// DefaultBarLength is the bar width used when callers have no preference.
	DefaultBarLength = 15
)

// fillGlyph picks the bar glyph for a progress ratio in [0, 1].
func fillGlyph(ratio float64) string {
	switch {
	case ratio >= 0.9:
		return "🔥"
	case ratio >= 0.7:
		return "⭐"
	case ratio >= 0.5:
		return "💫"
	case ratio >= 0.3:
		return "✨"
	default:
		return "🌟"
	}
}

// ProgressBar draws current/maximum as a bar of length glyphs followed by a
// percentage. A maximum of zero or less means there is nothing left to earn.
func ProgressBar(current, maximum int64, length int) string {
	if length < 0 {
		length = 0
	}
	if maximum <= 0 {
		return strings.Repeat(glyphMax, length) + " MAX LEVEL"
	}

	ratio := float64(current) / float64(maximum)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	filled := int(ratio * float64(length))
	bar := strings.Repeat(fillGlyph(ratio), filled) + strings.Repeat(glyphEmpty, length-filled)
	return fmt.Sprintf("%s %d%%", bar, int(ratio*100))
}

// StreakLabel describes a streak in one line of plain text.
func StreakLabel(days int) string {
	switch ranking.ClassifyStreak(days) {
	case ranking.StreakNone:
		return "📅 No streak yet - start your journey!"
	case ranking.StreakStarter:
		return fmt.Sprintf("🔥 %d day streak - keep it up!", days)
	case ranking.StreakWeek:
		return fmt.Sprintf("⚡ %d day streak - you're on fire!", days)
	case ranking.StreakMonth:
		return fmt.Sprintf("🚀 %d day streak - amazing dedication!", days)
	case ranking.StreakQuarter:
		return fmt.Sprintf("👑 %d day streak - you're a legend!", days)
	default:
		return fmt.Sprintf("🌟 %d day streak - ULTIMATE DEVOTEE!", days)
	}
}

// streakIndicator is the short marker shown next to leaderboard names.
func streakIndicator(days int) string {
	switch {
	case days >= 30:
		return " 🔥"
	case days >= 7:
		return " ⚡"
	default:
		return ""
	}
}
