package render

import (
	"fmt"
	"strings"
	"time"

	"confession/internal/ranking"
)

const rankBarLength = 12

// RankDetails carries the activity data shown alongside a rank.
type RankDetails struct {
	StreakDays       int
	CheckIns         int
	AchievementCount int
	LastCheckIn      time.Time
}

// RankDisplay renders the main ranking status screen.
func RankDisplay(rank ranking.UserRank, d RankDetails) string {
	var text strings.Builder

	indicator := "📊 Standard Rank"
	if rank.IsSpecialRank {
		indicator = "⭐ SPECIAL RANK"
	}

	text.WriteString("🏆 *YOUR RANKING STATUS*\n\n")
	fmt.Fprintf(&text, "%s *%s* %s\n", Escape(rank.RankEmoji), Escape(rank.RankName), Escape("("+indicator+")"))
	fmt.Fprintf(&text, "💎 *%s Total Points*\n\n", Number(rank.TotalPoints))

	text.WriteString("📈 *Progress to Next Rank*\n")
	text.WriteString(rankProgress(rank))
	text.WriteString("\n\n")

	text.WriteString(Escape(StreakLabel(d.StreakDays)))
	text.WriteString("\n\n")

	fmt.Fprintf(&text, "🎯 *%s* total points earned\n", Number(rank.TotalPoints))
	fmt.Fprintf(&text, "🏅 *%s* achievements unlocked\n", Number(int64(d.AchievementCount)))

	if len(rank.SpecialPerks) > 0 {
		text.WriteString("\n🎁 *SPECIAL PERKS UNLOCKED:*\n")
		text.WriteString(Perks(rank.SpecialPerks))
	}

	return text.String()
}

// rankProgress shows how far the user is through their current tier.
func rankProgress(rank ranking.UserRank) string {
	if rank.AtCeiling() {
		return strings.Repeat(glyphMax, rankBarLength) + " MAXED\\!\n" + Escape("🎉 Maximum rank achieved!")
	}
	span := rank.NextRankPoints - rank.TierThreshold
	done := rank.TotalPoints - rank.TierThreshold
	bar := ProgressBar(done, span, rankBarLength)
	next := "Next: " + Number(rank.PointsToNext) + Escape(" points to go until "+rank.NextRankName+" 🔜")
	return Escape(bar) + "\n" + next
}

// Perks lists perks one per line.
func Perks(perks []ranking.Perk) string {
	var text strings.Builder
	for _, p := range perks {
		switch p.Kind {
		case ranking.PerkDailyConfessions:
			fmt.Fprintf(&text, "%s Daily confessions: *%d*\n", p.Kind.Emoji(), p.Value)
		case ranking.PerkFeaturedChance:
			fmt.Fprintf(&text, "%s Featured post chance: *%d%%*\n", p.Kind.Emoji(), p.Value)
		default:
			fmt.Fprintf(&text, "%s *%s*\n", p.Kind.Emoji(), Escape(p.Kind.String()))
		}
	}
	return text.String()
}

// UserStats renders the detailed stats view.
func UserStats(rank ranking.UserRank, d RankDetails) string {
	var text strings.Builder

	text.WriteString("📊 *DETAILED STATS*\n\n")
	fmt.Fprintf(&text, "%s Rank: *%s*\n", Escape(rank.RankEmoji), Escape(rank.RankName))
	fmt.Fprintf(&text, "💎 Points: *%s*\n", Number(rank.TotalPoints))
	if !rank.AtCeiling() {
		fmt.Fprintf(&text, "🔜 To %s: *%s*\n", Escape(rank.NextRankName), Number(rank.PointsToNext))
	}
	fmt.Fprintf(&text, "🔥 Current streak: *%s* days\n", Number(int64(d.StreakDays)))
	fmt.Fprintf(&text, "📅 Check\\-ins: *%s*\n", Number(int64(d.CheckIns)))
	fmt.Fprintf(&text, "🏅 Achievements: *%s*\n", Number(int64(d.AchievementCount)))

	last := "never"
	if !d.LastCheckIn.IsZero() {
		last = d.LastCheckIn.UTC().Format("2006-01-02")
	}
	fmt.Fprintf(&text, "🕒 Last check\\-in: %s\n", Escape(last))
	return text.String()
}

// Progress renders the progress view: the bar, the streak and what is next.
func Progress(rank ranking.UserRank, d RankDetails, next []ranking.AchievementDef) string {
	var text strings.Builder

	text.WriteString("🔥 *MY PROGRESS*\n\n")
	fmt.Fprintf(&text, "%s *%s*\n", Escape(rank.RankEmoji), Escape(rank.RankName))
	text.WriteString(rankProgress(rank))
	text.WriteString("\n\n")
	text.WriteString(Escape(StreakLabel(d.StreakDays)))
	text.WriteString("\n")

	if len(next) > 0 {
		text.WriteString("\n🎯 *Up next:*\n")
		for i, def := range next {
			if i == 3 {
				break
			}
			fmt.Fprintf(&text, "• *%s* \\+%d pts\n  _%s_\n", Escape(def.Name), def.Points, Escape(def.Description))
		}
	}
	return text.String()
}

// CheckIn renders the response to /checkin.
func CheckIn(res ranking.CheckInResult, rank ranking.UserRank, unlocked []ranking.AchievementDef) string {
	var text strings.Builder

	if !res.Counted {
		text.WriteString("✅ *Already checked in today\\!*\n\n")
		text.WriteString(Escape(StreakLabel(res.Streak)))
		text.WriteString("\n\nCome back tomorrow to keep your streak going\\.")
		return text.String()
	}

	text.WriteString("✅ *Daily check\\-in complete\\!*\n\n")
	for _, a := range res.Awards {
		fmt.Fprintf(&text, "• %s: *\\+%s*\n", Escape(awardLabel(a.Reason)), Number(a.Points))
	}
	fmt.Fprintf(&text, "\n💰 Earned today: *%s* points\n", Number(res.Total()))
	text.WriteString(Escape(StreakLabel(res.Streak)))
	text.WriteString("\n\n")
	fmt.Fprintf(&text, "%s %s • *%s* points\n", Escape(rank.RankEmoji), Escape(rank.RankName), Number(rank.TotalPoints))

	if len(unlocked) > 0 {
		text.WriteString("\n")
		text.WriteString(Unlocked(unlocked))
	}
	return text.String()
}

// Unlocked announces newly earned achievements.
func Unlocked(defs []ranking.AchievementDef) string {
	var text strings.Builder
	text.WriteString("🎉 *Achievement unlocked\\!*\n")
	for _, def := range defs {
		mark := "🏆"
		if def.Special {
			mark = "⭐"
		}
		fmt.Fprintf(&text, "%s *%s* \\+%d pts\n", mark, Escape(def.Name), def.Points)
	}
	return text.String()
}

func awardLabel(reason string) string {
	switch reason {
	case "daily_login":
		return "Daily login"
	case "consecutive_days":
		return "Consecutive days bonus"
	case "week_streak":
		return "Week streak"
	case "month_streak":
		return "Month streak"
	case "quarter_streak":
		return "Quarter streak"
	case "year_streak":
		return "Year streak"
	default:
		return Title(strings.ReplaceAll(reason, "_", " "))
	}
}
