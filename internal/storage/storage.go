package storage

import (
	"context"
	"errors"
	"time"

	"confession/internal/models"
)

// ErrNotFound is returned when a user has no ranking record yet.
var ErrNotFound = errors.New("not found")

// Storage defines the interface for data storage operations
type Storage interface {
	// Ranking operations

	// GetUserRanking returns the user's ranking with TotalPoints summed from
	// point events. Returns ErrNotFound if InitializeUserRanking was never called.
	GetUserRanking(ctx context.Context, userID int64) (*models.UserRanking, error)
	// InitializeUserRanking creates an empty ranking. Calling it again is a no-op.
	InitializeUserRanking(ctx context.Context, userID int64) error
	// RecordCheckIn stores the streak length and check-in time, and bumps the
	// check-in count.
	RecordCheckIn(ctx context.Context, userID int64, streak int, at time.Time) error

	// Point operations
	AddPoints(ctx context.Context, userID, points int64, reason string, at time.Time) error

	// Achievement operations

	// ListAchievements returns up to limit achievements, newest first.
	// A limit of zero or less returns all of them.
	ListAchievements(ctx context.Context, userID int64, limit int) ([]models.Achievement, error)
	AddAchievement(ctx context.Context, userID int64, achievement models.Achievement) error

	// Leaderboard operations

	// GetLeaderboard returns users ordered by points earned within the period,
	// highest first. Users without points in the period are left out.
	GetLeaderboard(ctx context.Context, period models.Period, limit int, now time.Time) ([]models.LeaderboardRow, error)
	GetLeaderboardStats(ctx context.Context, period models.Period, now time.Time) (models.LeaderboardStats, error)

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}
