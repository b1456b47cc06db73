package bot

import (
	"errors"
	"fmt"
	"strings"

	"confession/internal/models"
	"confession/internal/render"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sendMarkdown sends a MarkdownV2 message with an optional inline keyboard
func (b *Bot) sendMarkdown(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = render.ParseMode
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// editMarkdown replaces the text and keyboard of the message the callback came from
func (b *Bot) editMarkdown(query *tgbotapi.CallbackQuery, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	if query.Message == nil {
		return fmt.Errorf("callback %q has no message to edit", query.Data)
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(query.Message.Chat.ID, query.Message.MessageID, text, markup)
	edit.ParseMode = render.ParseMode
	if _, err := b.api.Request(edit); err != nil {
		if isNotModified(err) {
			return nil
		}
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// isNotModified reports whether Telegram rejected an edit because the
// message already has that content, e.g. after a double tap.
func isNotModified(err error) bool {
	var apiErr *tgbotapi.Error
	return errors.As(err, &apiErr) && strings.Contains(apiErr.Message, "message is not modified")
}

// answerCallback removes the loading state of a button, showing text if set
func (b *Bot) answerCallback(query *tgbotapi.CallbackQuery, text string) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, text)); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏆 My Ranking", "enhanced_rank_menu"),
			tgbotapi.NewInlineKeyboardButtonData("📊 Leaderboards", "enhanced_leaderboard"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎁 Point Guide", "enhanced_point_guide"),
		),
	)
}

func rankMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 My Achievements", "enhanced_achievements"),
			tgbotapi.NewInlineKeyboardButtonData("📊 Detailed Stats", "enhanced_stats"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏆 Leaderboards", "enhanced_leaderboard"),
			tgbotapi.NewInlineKeyboardButtonData("🔥 My Progress", "enhanced_progress"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎪 Seasonal Events", "seasonal_competitions"),
			tgbotapi.NewInlineKeyboardButtonData("🎁 Point Guide", "enhanced_point_guide"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📈 Analytics", "ranking_analytics"),
			tgbotapi.NewInlineKeyboardButtonData("🏠 Main Menu", "main_menu"),
		),
	)
}

func leaderboardMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 This Week", "leaderboard_weekly"),
			tgbotapi.NewInlineKeyboardButtonData("📆 This Month", "leaderboard_monthly"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗓️ This Quarter", "leaderboard_quarterly"),
			tgbotapi.NewInlineKeyboardButtonData("📅 This Year", "leaderboard_yearly"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⭐ All Time Champions", "leaderboard_alltime"),
			tgbotapi.NewInlineKeyboardButtonData("🎪 Seasonal Events", "leaderboard_seasonal"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Leaderboard Stats", "leaderboard_stats"),
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back", "enhanced_rank_menu"),
		),
	)
}

// periodKeyboard is shown under a leaderboard to switch between periods
func periodKeyboard() tgbotapi.InlineKeyboardMarkup {
	button := func(label string, p models.Period) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(label, "enhanced_leaderboard_"+string(p))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("📅 Weekly", models.PeriodWeekly),
			button("📆 Monthly", models.PeriodMonthly),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("🗓️ Quarterly", models.PeriodQuarterly),
			button("📅 Yearly", models.PeriodYearly),
		),
		tgbotapi.NewInlineKeyboardRow(
			button("⭐ All Time", models.PeriodAllTime),
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back", "enhanced_leaderboard"),
		),
	)
}

func achievementsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Achievement Guide", "achievement_guide"),
			tgbotapi.NewInlineKeyboardButtonData("🏆 Missing Achievements", "missing_achievements"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My Progress", "enhanced_progress"),
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back", "enhanced_rank_menu"),
		),
	)
}

func pointGuideKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 My Achievements", "enhanced_achievements"),
			tgbotapi.NewInlineKeyboardButtonData("📊 My Stats", "enhanced_stats"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏆 Leaderboard", "enhanced_leaderboard"),
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back", "enhanced_rank_menu"),
		),
	)
}

func backKeyboard(target string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back", target),
		),
	)
}
