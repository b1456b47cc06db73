package app

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"confession/internal/bot"
	"confession/internal/models"
	"confession/internal/ranking"
	"confession/internal/status"
	"confession/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	serviceName             = "Telegram Confession Bot"
	secretTokenHeader       = "X-Telegram-Bot-Api-Secret-Token"
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 50
)

// UpdateHandler processes one Telegram update. *bot.Bot implements it.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) error
}

// Environment reports which required settings are present, without values.
type Environment struct {
	BotTokenSet  bool `json:"bot_token_set"`
	ChannelIDSet bool `json:"channel_id_set"`
	AdminIDSet   bool `json:"admin_id_set"`
}

// Webhook configures the Telegram webhook route. The route exists only when
// Enabled with a non-empty Secret, which every delivery must carry in the
// secret token header.
type Webhook struct {
	Enabled bool
	Secret  string
}

// Server serves health checks, the Telegram webhook and the public leaderboard API
type Server struct {
	status  *status.Status
	updates UpdateHandler
	db      storage.Storage
	table   ranking.Table
	env     Environment
	webhook Webhook
	logger  *zap.Logger
	now     func() time.Time
}

// NewServer creates the HTTP handlers
func NewServer(st *status.Status, updates UpdateHandler, db storage.Storage, env Environment, webhook Webhook, logger *zap.Logger) *Server {
	return &Server{
		status:  st,
		updates: updates,
		db:      db,
		table:   ranking.DefaultTable,
		env:     env,
		webhook: webhook,
		logger:  logger,
		now:     time.Now,
	}
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/ping", s.handlePing)
	if s.webhook.Enabled && s.webhook.Secret != "" {
		r.Post(bot.WebhookPath, s.handleWebhook)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/api/leaderboard/{period}", s.handleLeaderboard)

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"service":     serviceName,
		"timestamp":   s.now().UTC().Format(time.RFC3339),
		"bot_running": s.status.Running(),
		"uptime":      s.status.Uptime().Seconds(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.status.Snapshot()

	code, state := http.StatusOK, "ok"
	if !snap.Running {
		code, state = http.StatusServiceUnavailable, "error"
	}

	jsonResponse(w, code, map[string]any{
		"status":      state,
		"bot_status":  snap,
		"environment": s.env,
	})
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

// handleWebhook processes the update before answering so Telegram retries
// failed deliveries
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(secretTokenHeader)
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.webhook.Secret)) != 1 {
		s.logger.Warn("Rejected webhook request with bad secret token", zap.String("remote_addr", r.RemoteAddr))
		errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.logger.Warn("Error decoding webhook update", zap.Error(err))
		errorResponse(w, http.StatusBadRequest, "invalid update")
		return
	}

	if err := s.updates.HandleUpdate(r.Context(), update); err != nil {
		s.logger.Error("Failed to process webhook update", zap.Int("update_id", update.UpdateID), zap.Error(err))
		errorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]bool{"ok": true})
}

// leaderboardResponse is the public, anonymized leaderboard
type leaderboardResponse struct {
	Period  models.Period              `json:"period"`
	Title   string                     `json:"title"`
	Entries []ranking.LeaderboardEntry `json:"entries"`
	Stats   models.LeaderboardStats    `json:"stats"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	period := models.Period(chi.URLParam(r, "period"))
	if models.ParsePeriod(string(period)) != period {
		errorResponse(w, http.StatusBadRequest, "unknown period")
		return
	}

	limit := defaultLeaderboardLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 || parsed > maxLeaderboardLimit {
			errorResponse(w, http.StatusBadRequest, "limit must be between 1 and 50")
			return
		}
		limit = parsed
	}

	now := s.now()
	rows, err := s.db.GetLeaderboard(ctx, period, limit, now)
	if err != nil {
		s.logger.Error("Failed to get leaderboard", zap.String("period", string(period)), zap.Error(err))
		errorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}
	stats, err := s.db.GetLeaderboardStats(ctx, period, now)
	if err != nil {
		s.logger.Error("Failed to get leaderboard stats", zap.String("period", string(period)), zap.Error(err))
		errorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}

	jsonResponse(w, http.StatusOK, leaderboardResponse{
		Period:  period,
		Title:   period.Title(),
		Entries: ranking.BuildLeaderboard(rows, s.table),
		Stats:   stats,
	})
}

func jsonResponse(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, code int, message string) {
	jsonResponse(w, code, map[string]string{"error": message})
}
