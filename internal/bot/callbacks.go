package bot

import (
	"context"
	"strings"

	"confession/internal/ranking"
	"confession/internal/render"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Callbacks whose features are announced on the keyboards but not built yet
var comingSoon = map[string]bool{
	"seasonal_competitions": true,
	"ranking_analytics":     true,
	"leaderboard_seasonal":  true,
}

// routeCallback edits the originating message for the pressed button and
// answers the callback exactly once
func (b *Bot) routeCallback(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	data := query.Data
	userID := query.From.ID

	if comingSoon[data] {
		return b.answerCallback(query, "🚧 Coming soon!")
	}

	var (
		text   string
		markup tgbotapi.InlineKeyboardMarkup
		err    error
	)

	switch {
	case data == "main_menu":
		text, markup = render.Welcome(), mainMenuKeyboard()

	case data == "enhanced_rank_menu":
		var p *profile
		if p, err = b.loadProfile(ctx, userID); err == nil {
			text, markup = render.RankDisplay(p.rank, p.details), rankMenuKeyboard()
		}

	case data == "enhanced_achievements":
		var p *profile
		if p, err = b.loadProfile(ctx, userID); err == nil {
			text, markup = render.Achievements(p.achievements, len(ranking.Catalog())), achievementsKeyboard()
		}

	case data == "enhanced_stats":
		var p *profile
		if p, err = b.loadProfile(ctx, userID); err == nil {
			text, markup = render.UserStats(p.rank, p.details), backKeyboard("enhanced_rank_menu")
		}

	case data == "enhanced_progress":
		var p *profile
		if p, err = b.loadProfile(ctx, userID); err == nil {
			text, markup = render.Progress(p.rank, p.details, ranking.Missing(p.earned)), backKeyboard("enhanced_rank_menu")
		}

	case data == "missing_achievements":
		var p *profile
		if p, err = b.loadProfile(ctx, userID); err == nil {
			text = render.AchievementList("🏆 *MISSING ACHIEVEMENTS*", ranking.Missing(p.earned))
			markup = backKeyboard("enhanced_achievements")
		}

	case data == "achievement_guide":
		text = render.AchievementList("🎯 *ACHIEVEMENT GUIDE*", ranking.Catalog())
		markup = backKeyboard("enhanced_achievements")

	case data == "enhanced_point_guide":
		text, markup = render.PointGuide(), pointGuideKeyboard()

	case data == "enhanced_leaderboard":
		text, markup = render.LeaderboardMenu(), leaderboardMenuKeyboard()

	case data == "leaderboard_stats":
		text, err = b.leaderboardStatsText(ctx)
		markup = backKeyboard("enhanced_leaderboard")

	case strings.HasPrefix(data, "enhanced_leaderboard_"), strings.HasPrefix(data, "leaderboard_"):
		raw := strings.TrimPrefix(strings.TrimPrefix(data, "enhanced_"), "leaderboard_")
		period, ok := lookupPeriod(raw)
		if !ok {
			return b.unknownCallback(query)
		}
		text, err = b.leaderboardText(ctx, period)
		markup = periodKeyboard()

	default:
		return b.unknownCallback(query)
	}

	if err != nil {
		return err
	}
	if err := b.editMarkdown(query, text, markup); err != nil {
		return err
	}
	return b.answerCallback(query, "")
}

func (b *Bot) unknownCallback(query *tgbotapi.CallbackQuery) error {
	b.logger.Warn("Unknown callback data", zap.String("data", query.Data), zap.Int64("user_id", query.From.ID))
	return b.answerCallback(query, "❓ Unknown option")
}
