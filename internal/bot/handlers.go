package bot

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"confession/internal/render"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const genericFailure = "❌ Something went wrong\\. Please try again later\\."

// HandleUpdate processes a single update from polling or the webhook.
// Each update id is dispatched at most once. A panic in a handler is
// recovered and returned as an error.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic while handling update",
				zap.Int("update_id", update.UpdateID),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			err = fmt.Errorf("panic while handling update %d: %v", update.UpdateID, r)
		}
		if err != nil {
			updatesFailed.Inc()
		}
	}()

	if b.status != nil {
		b.status.Touch()
	}

	if !b.claimUpdate(ctx, update.UpdateID) {
		updatesHandled.WithLabelValues("duplicate").Inc()
		b.logger.Info("Skipping redelivered update", zap.Int("update_id", update.UpdateID))
		return nil
	}

	switch {
	case update.Message != nil:
		updatesHandled.WithLabelValues("message").Inc()
		return b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		updatesHandled.WithLabelValues("callback").Inc()
		return b.handleCallbackQuery(ctx, update.CallbackQuery)
	default:
		updatesHandled.WithLabelValues("other").Inc()
		return nil
	}
}

// handleMessage dispatches commands; plain text is ignored
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	if !message.IsCommand() || message.From == nil {
		return nil
	}

	userID := message.From.ID
	chatID := message.Chat.ID

	var err error
	switch message.Command() {
	case "start":
		err = b.handleStart(ctx, chatID, userID)
	case "rank":
		err = b.handleRank(ctx, chatID, userID)
	case "leaderboard":
		err = b.handleLeaderboardCommand(ctx, chatID, message.CommandArguments())
	case "achievements":
		err = b.handleAchievements(ctx, chatID, userID)
	case "points":
		err = b.sendMarkdown(chatID, render.PointGuide(), ptr(pointGuideKeyboard()))
	case "checkin":
		err = b.handleCheckIn(ctx, chatID, userID)
	case "grant":
		err = b.handleGrant(ctx, chatID, userID, message.CommandArguments())
	default:
		err = b.sendMarkdown(chatID, render.Escape("Unknown command. Use /start to see available commands."), nil)
	}

	if err != nil {
		b.logger.Error("Failed to handle command",
			zap.Error(err),
			zap.String("command", message.Command()),
			zap.Int64("user_id", userID),
		)
		if sendErr := b.sendMarkdown(chatID, genericFailure, nil); sendErr != nil {
			err = errors.Join(err, sendErr)
		}
	}
	return err
}

// handleCallbackQuery processes inline keyboard button clicks
func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	err := b.routeCallback(ctx, query)
	if err != nil {
		b.logger.Error("Failed to handle callback",
			zap.Error(err),
			zap.String("data", query.Data),
			zap.Int64("user_id", query.From.ID),
		)
		if ansErr := b.answerCallback(query, "❌ Something went wrong"); ansErr != nil {
			err = errors.Join(err, ansErr)
		}
	}
	return err
}

func ptr[T any](v T) *T {
	return &v
}
