// Package cache wraps a storage.Storage with a Redis-backed leaderboard cache.
//
// Cached entries are keyed by a generation counter. Writes that change
// standings bump the counter, so stale entries are never read again and
// simply expire.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"confession/internal/models"
	"confession/internal/storage"

	"go.uber.org/zap"
)

const generationKey = "leaderboard:gen"

// Store caches leaderboard reads of the embedded storage. All other
// operations go straight through.
type Store struct {
	storage.Storage
	kv     KV
	ttl    time.Duration
	logger *zap.Logger
}

var _ storage.Storage = (*Store)(nil)

// New wraps inner. A non-positive ttl falls back to 30 seconds.
func New(inner storage.Storage, kv KV, ttl time.Duration, logger *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Store{Storage: inner, kv: kv, ttl: ttl, logger: logger}
}

func (s *Store) AddPoints(ctx context.Context, userID, points int64, reason string, at time.Time) error {
	if err := s.Storage.AddPoints(ctx, userID, points, reason, at); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Store) AddAchievement(ctx context.Context, userID int64, achievement models.Achievement) error {
	if err := s.Storage.AddAchievement(ctx, userID, achievement); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Store) GetLeaderboard(ctx context.Context, period models.Period, limit int, now time.Time) ([]models.LeaderboardRow, error) {
	key := fmt.Sprintf("leaderboard:%d:rows:%s:%d", s.generation(ctx), period, limit)

	var rows []models.LeaderboardRow
	if s.load(ctx, key, &rows) {
		return rows, nil
	}

	rows, err := s.Storage.GetLeaderboard(ctx, period, limit, now)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, rows)
	return rows, nil
}

func (s *Store) GetLeaderboardStats(ctx context.Context, period models.Period, now time.Time) (models.LeaderboardStats, error) {
	key := fmt.Sprintf("leaderboard:%d:stats:%s", s.generation(ctx), period)

	var stats models.LeaderboardStats
	if s.load(ctx, key, &stats) {
		return stats, nil
	}

	stats, err := s.Storage.GetLeaderboardStats(ctx, period, now)
	if err != nil {
		return models.LeaderboardStats{}, err
	}
	s.store(ctx, key, stats)
	return stats, nil
}

// Close closes the inner storage and the KV when it holds a connection.
func (s *Store) Close() error {
	err := s.Storage.Close()
	if c, ok := s.kv.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

func (s *Store) generation(ctx context.Context) int64 {
	b, err := s.kv.Get(ctx, generationKey)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			s.logger.Warn("Failed to read cache generation", zap.Error(err))
		}
		return 0
	}
	gen, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return gen
}

func (s *Store) invalidate(ctx context.Context) {
	if _, err := s.kv.Incr(ctx, generationKey); err != nil {
		s.logger.Warn("Failed to bump cache generation", zap.Error(err))
	}
}

func (s *Store) load(ctx context.Context, key string, dst any) bool {
	b, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			s.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		s.logger.Warn("Discarding corrupt cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Store) store(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, key, b, s.ttl); err != nil {
		s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
