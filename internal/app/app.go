package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"confession/internal/bot"
	"confession/internal/config"
	"confession/internal/status"
	"confession/internal/storage"
	"confession/internal/storage/cache"
	"confession/internal/storage/ch"
	"confession/internal/storage/stubs"
)

// App represents the application
type App struct {
	config *config.Config
	logger *zap.Logger
	status *status.Status
	db     storage.Storage
	redis  *cache.RedisKV // nil when REDIS_URL is unset or unreachable
	bot    *bot.Bot
	server *http.Server
}

// New creates and initializes a new application instance
func New() (*App, error) {
	// Load .env file if it exists
	envErr := godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if envErr != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	app := &App{config: cfg, logger: logger, status: status.New()}

	logger.Info("Starting Telegram Confession Bot",
		zap.String("env", cfg.Env),
		zap.Bool("webhook_mode", cfg.WebhookMode),
	)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initBot(); err != nil {
		app.db.Close()
		return nil, err
	}

	app.initHTTPServer()

	return app, nil
}

// NewLogger builds a production logger, or a development one when ENV=development
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// initDatabase initializes the database connection and the optional cache
func (a *App) initDatabase() error {
	ctx := context.Background()

	var db storage.Storage
	if a.config.UseMockDB {
		a.logger.Info("Using mock database")
		db = stubs.NewMockDB()
	} else {
		a.logger.Info("Connecting to ClickHouse",
			zap.String("host", a.config.ClickHouseHost),
			zap.Int("port", a.config.ClickHousePort),
			zap.String("database", a.config.ClickHouseDatabase),
			zap.String("user", a.config.ClickHouseUser),
			zap.Bool("tls", a.config.ClickHouseUseTLS),
		)
		clickhouseDB, err := ch.NewClickHouseDB(
			a.config.ClickHouseHost,
			a.config.ClickHousePort,
			a.config.ClickHouseDatabase,
			a.config.ClickHouseUser,
			a.config.ClickHousePassword,
			a.config.ClickHouseUseTLS,
		)
		if err != nil {
			return fmt.Errorf("failed to connect to ClickHouse: %w", err)
		}
		db = clickhouseDB
	}

	if err := db.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.logger.Info("Database initialized successfully")

	if a.config.RedisURL != "" {
		kv, err := cache.NewRedisKV(ctx, a.config.RedisURL)
		if err != nil {
			a.logger.Warn("Leaderboard cache disabled", zap.Error(err))
		} else {
			a.logger.Info("Leaderboard cache enabled", zap.Duration("ttl", a.config.LeaderboardCacheTTL))
			db = cache.New(db, kv, a.config.LeaderboardCacheTTL, a.logger)
			a.redis = kv
		}
	}

	a.db = db
	return nil
}

// initBot initializes the Telegram bot
func (a *App) initBot() error {
	telegramBot, err := bot.NewBot(a.config.BotToken, a.db, a.status, a.config.AdminIDs, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	a.logger.Info("Bot created successfully", zap.Int("admins", len(a.config.AdminIDs)))

	if a.redis != nil {
		telegramBot.UseUpdateLedger(cache.NewUpdateLedger(a.redis, 0))
		a.logger.Info("Update deduplication shared through Redis")
	}

	a.bot = telegramBot
	return nil
}

// initHTTPServer sets up health checks, metrics, the webhook and the API
func (a *App) initHTTPServer() {
	env := Environment{
		BotTokenSet:  a.config.BotToken != "",
		ChannelIDSet: a.config.ChannelID != "",
		AdminIDSet:   a.config.AdminID1 != "",
	}
	webhook := Webhook{Enabled: a.config.WebhookMode, Secret: a.config.WebhookSecret}
	srv := NewServer(a.status, a.bot, a.db, env, webhook, a.logger)

	a.server = &http.Server{
		Addr:         ":" + strconv.Itoa(a.config.Port),
		Handler:      srv.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Run serves HTTP and runs the bot until ctx is cancelled or either fails
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.config.WebhookMode {
		a.logger.Info("Starting bot in WEBHOOK mode", zap.String("webhook_url", a.config.WebhookURL))
		if err := a.bot.StartWebhook(a.config.WebhookURL, a.config.WebhookSecret); err != nil {
			a.server.Close()
			g.Wait()
			return fmt.Errorf("failed to setup webhook: %w", err)
		}
	} else {
		g.Go(func() error {
			a.logger.Info("Starting bot in POLLING mode")
			if err := a.bot.Start(ctx); err != nil {
				return fmt.Errorf("bot polling: %w", err)
			}
			if ctx.Err() == nil {
				return errors.New("bot polling stopped unexpectedly")
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("Shutting down...")
		return a.shutdownServer()
	})

	err := g.Wait()
	a.bot.Stop()
	if closeErr := a.db.Close(); closeErr != nil {
		a.logger.Error("Error closing database", zap.Error(closeErr))
		err = errors.Join(err, closeErr)
	}
	a.logger.Info("Shutdown complete")
	a.logger.Sync()
	return err
}

// shutdownServer gracefully stops the HTTP server
func (a *App) shutdownServer() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}
	return nil
}
