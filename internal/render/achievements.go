package render

import (
	"fmt"
	"strings"

	"confession/internal/models"
	"confession/internal/ranking"
)

const maxPerCategory = 3

var categoryEmojis = map[string]string{
	"milestone": "🎯", "content": "📝", "engagement": "💬",
	"popularity": "🔥", "streak": "⚡", "quality": "💎",
	"community": "🤝", "seasonal": "🎪", "secret": "🔮",
	"time": "⏰", "points": "💰", "meta": "🏅",
}

func categoryEmoji(category string) string {
	if e, ok := categoryEmojis[strings.ToLower(category)]; ok {
		return e
	}
	return "🏆"
}

// Achievements renders earned achievements grouped by category, showing at
// most three per category. totalPossible is the catalog size.
func Achievements(list []models.Achievement, totalPossible int) string {
	var text strings.Builder

	if len(list) == 0 {
		text.WriteString("🎯 *YOUR ACHIEVEMENTS*\n\n")
		text.WriteString("🌟 No achievements unlocked yet\\!\n\n")
		text.WriteString("💡 *Start earning achievements by:*\n")
		text.WriteString("• Checking in for the first time\n")
		text.WriteString("• Building daily streaks\n")
		text.WriteString("• Collecting points\n\n")
		text.WriteString("🎁 Each achievement rewards you with bonus points\\!")
		return text.String()
	}

	var order []string
	byCategory := make(map[string][]models.Achievement)
	for _, a := range list {
		category := a.Category
		if category == "" {
			category = "general"
		}
		if _, ok := byCategory[category]; !ok {
			order = append(order, category)
		}
		byCategory[category] = append(byCategory[category], a)
	}

	fmt.Fprintf(&text, "🎯 *YOUR ACHIEVEMENTS* \\(%d earned\\)\n\n", len(list))

	for _, category := range order {
		items := byCategory[category]
		fmt.Fprintf(&text, "%s *%s*\n", categoryEmoji(category), Escape(Title(category)))

		for i, a := range items {
			if i == maxPerCategory {
				break
			}
			mark := "🏆"
			if a.IsSpecial {
				mark = "⭐"
			}
			date := "Recent"
			if !a.EarnedAt.IsZero() {
				date = a.EarnedAt.UTC().Format("2006-01-02")
			}
			fmt.Fprintf(&text, "   %s *%s*\n", mark, Escape(a.Name))
			fmt.Fprintf(&text, "      _%s_\n", Escape(a.Description))
			fmt.Fprintf(&text, "      \\+%d pts • %s\n\n", a.Points, Escape(date))
		}

		if len(items) > maxPerCategory {
			fmt.Fprintf(&text, "   \\.\\.\\.and %d more in this category\n\n", len(items)-maxPerCategory)
		}
	}

	if totalPossible > 0 {
		pct := float64(len(list)) / float64(totalPossible) * 100
		progress := fmt.Sprintf("%d/%d (%.1f%%) unlocked", len(list), totalPossible, pct)
		fmt.Fprintf(&text, "📊 *Progress:* %s", Escape(progress))
	}
	return text.String()
}

// AchievementList renders catalog definitions under a heading, used for the
// guide and the missing list.
func AchievementList(heading string, defs []ranking.AchievementDef) string {
	var text strings.Builder
	fmt.Fprintf(&text, "%s\n\n", heading)

	if len(defs) == 0 {
		text.WriteString("🎉 Nothing left here, you have unlocked everything\\!")
		return text.String()
	}

	current := ""
	for _, def := range defs {
		if def.Category != current {
			current = def.Category
			fmt.Fprintf(&text, "%s *%s*\n", categoryEmoji(current), Escape(Title(current)))
		}
		mark := "🏆"
		if def.Special {
			mark = "⭐"
		}
		fmt.Fprintf(&text, "   %s *%s* \\+%d pts\n      _%s_\n", mark, Escape(def.Name), def.Points, Escape(def.Description))
	}
	return text.String()
}
