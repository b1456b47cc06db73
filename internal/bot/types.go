package bot

import (
	"time"

	"confession/internal/ranking"
	"confession/internal/status"
	"confession/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Sender is the part of the Telegram API the handlers use.
// *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot represents the Telegram bot wrapper
type Bot struct {
	api    Sender
	client *tgbotapi.BotAPI // nil in tests; needed for polling and webhook setup
	db     storage.Storage
	table  ranking.Table
	status *status.Status
	admins map[int64]bool
	logger *zap.Logger
	now    func() time.Time

	locks  *userLocks
	ledger UpdateLedger // shared ledger, optional
	recent *recentUpdates
}

// Prometheus metrics
var (
	updatesHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "confession_bot_updates_total",
		Help: "Total number of Telegram updates handled, by kind",
	}, []string{"kind"})

	updatesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "confession_bot_update_failures_total",
		Help: "Total number of Telegram updates that failed processing",
	})

	pointsAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "confession_bot_points_awarded_total",
		Help: "Total number of points awarded, by source",
	}, []string{"source"})
)
