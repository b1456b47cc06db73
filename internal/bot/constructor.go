package bot

import (
	"fmt"
	"time"

	"confession/internal/ranking"
	"confession/internal/status"
	"confession/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// NewBot creates a new Telegram bot
func NewBot(token string, db storage.Storage, st *status.Status, adminIDs []int64, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot created", zap.String("bot_username", api.Self.UserName))

	b := New(api, db, st, adminIDs, logger)
	b.client = api
	return b, nil
}

// New wires a bot around an existing sender. It does not talk to Telegram,
// so Start and StartWebhook are unavailable on the result.
func New(api Sender, db storage.Storage, st *status.Status, adminIDs []int64, logger *zap.Logger) *Bot {
	admins := make(map[int64]bool)
	for _, id := range adminIDs {
		admins[id] = true
	}

	return &Bot{
		api:    api,
		db:     db,
		table:  ranking.DefaultTable,
		status: st,
		admins: admins,
		logger: logger,
		now:    time.Now,
		locks:  newUserLocks(),
		recent: newRecentUpdates(recentUpdatesSize),
	}
}
