package render

import (
	"fmt"
	"strings"

	"confession/internal/ranking"
)

// PointGuide explains how points are earned.
func PointGuide() string {
	var text strings.Builder

	text.WriteString("🎁 *COMPLETE POINT EARNING GUIDE*\n\n")

	text.WriteString("*⚡ STREAK & DAILY BONUSES*\n")
	fmt.Fprintf(&text, "📅 Daily check\\-in: *\\+%d* points\n", ranking.PointsDailyLogin)
	fmt.Fprintf(&text, "🔥 Consecutive days \\(3\\+\\): *\\+%d* points/day\n", ranking.PointsConsecutiveDays)
	fmt.Fprintf(&text, "📅 Week streak: *\\+%d* points\n", ranking.PointsWeekStreak)
	fmt.Fprintf(&text, "📆 Month streak: *\\+%d* points\n", ranking.PointsMonthStreak)
	fmt.Fprintf(&text, "🏆 Quarter streak: *\\+%d* points\n", ranking.PointsQuarterStreak)
	fmt.Fprintf(&text, "👑 Year streak: *\\+%s* points\n\n", Number(ranking.PointsYearStreak))

	text.WriteString("*🏅 ACHIEVEMENTS*\n")
	text.WriteString("Every achievement adds its own bonus, see the achievement guide\\.\n\n")

	text.WriteString("*🏆 CONFESSION ACTIVITIES*\n")
	text.WriteString("Approved, featured and trending confessions are rewarded by the moderators\\.\n\n")

	text.WriteString("*💡 PRO TIPS*\n")
	text.WriteString("• Consistent daily activity builds streaks\n")
	text.WriteString("• Quality over quantity always wins\n")
	text.WriteString("• Engage positively with others\n\n")

	text.WriteString("🚀 *The more you contribute, the faster you climb\\!*")
	return text.String()
}

// Welcome is the /start text.
func Welcome() string {
	return "🤫 *Welcome to the Confession Bot\\!*\n\n" +
		"Share anonymously, earn points and climb the ranks\\.\n\n" +
		"Available commands:\n" +
		"/rank \\- Your ranking status\n" +
		"/checkin \\- Daily check\\-in\n" +
		"/leaderboard \\- Community leaderboards\n" +
		"/achievements \\- Your achievements\n" +
		"/points \\- How to earn points"
}

// LeaderboardMenu is the period selection text.
func LeaderboardMenu() string {
	return "🏆 *COMMUNITY LEADERBOARDS*\n\n" +
		"Choose your preferred timeframe to see the top contributors:\n\n" +
		"📅 *This Week:* Current weekly champions\n" +
		"📆 *This Month:* Monthly top performers\n" +
		"🗓️ *This Quarter:* 90\\-day elite members\n" +
		"📅 *This Year:* Annual ranking leaders\n" +
		"⭐ *All Time:* Legendary hall of fame\n\n" +
		"🔒 *Privacy Protected:* All names are anonymized"
}
