package stubs

import (
	"context"
	"sort"
	"sync"
	"time"

	"confession/internal/models"
	"confession/internal/storage"

	"github.com/google/uuid"
)

// MockDB is an in-memory implementation of the Storage interface for testing
// and local development.
type MockDB struct {
	mu           sync.RWMutex
	rankings     map[int64]models.UserRanking
	events       []models.PointEvent
	achievements map[int64][]models.Achievement
}

var _ storage.Storage = (*MockDB)(nil)

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{
		rankings:     make(map[int64]models.UserRanking),
		events:       make([]models.PointEvent, 0),
		achievements: make(map[int64][]models.Achievement),
	}
}

// Initialize does nothing for mock DB
func (m *MockDB) Initialize(ctx context.Context) error {
	return nil
}

// GetUserRanking returns the ranking with points summed from events
func (m *MockDB) GetUserRanking(ctx context.Context, userID int64) (*models.UserRanking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rankings[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	r.TotalPoints = m.sumPoints(userID, time.Time{})
	return &r, nil
}

// InitializeUserRanking creates an empty ranking if none exists
func (m *MockDB) InitializeUserRanking(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rankings[userID]; !ok {
		m.rankings[userID] = models.UserRanking{UserID: userID}
	}
	return nil
}

// RecordCheckIn stores the new streak and bumps the check-in count
func (m *MockDB) RecordCheckIn(ctx context.Context, userID int64, streak int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.rankings[userID]
	r.UserID = userID
	r.ConsecutiveDays = streak
	r.CheckIns++
	r.LastCheckIn = at
	m.rankings[userID] = r
	return nil
}

// AddPoints appends a point event
func (m *MockDB) AddPoints(ctx context.Context, userID, points int64, reason string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rankings[userID]; !ok {
		m.rankings[userID] = models.UserRanking{UserID: userID}
	}
	m.events = append(m.events, models.PointEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		Points:    points,
		Reason:    reason,
		CreatedAt: at,
	})
	return nil
}

// ListAchievements returns the user's achievements, newest first
func (m *MockDB) ListAchievements(ctx context.Context, userID int64, limit int) ([]models.Achievement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]models.Achievement, len(m.achievements[userID]))
	copy(list, m.achievements[userID])
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].EarnedAt.After(list[j].EarnedAt)
	})

	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

// AddAchievement stores an unlocked achievement
func (m *MockDB) AddAchievement(ctx context.Context, userID int64, achievement models.Achievement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if achievement.ID == "" {
		achievement.ID = uuid.NewString()
	}
	m.achievements[userID] = append(m.achievements[userID], achievement)
	return nil
}

// GetLeaderboard returns users ordered by period points descending, then by id
func (m *MockDB) GetLeaderboard(ctx context.Context, period models.Period, limit int, now time.Time) ([]models.LeaderboardRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.periodRows(period.Since(now))
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].UserID < rows[j].UserID
	})

	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, nil
}

// GetLeaderboardStats aggregates the same users GetLeaderboard ranks
func (m *MockDB) GetLeaderboardStats(ctx context.Context, period models.Period, now time.Time) (models.LeaderboardStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stats models.LeaderboardStats
	var sum int64
	for _, row := range m.periodRows(period.Since(now)) {
		stats.Participants++
		sum += row.Points
		if row.Points > stats.MaxPoints {
			stats.MaxPoints = row.Points
		}
	}
	if stats.Participants > 0 {
		stats.AveragePoints = float64(sum) / float64(stats.Participants)
	}
	return stats, nil
}

// Close does nothing for mock DB
func (m *MockDB) Close() error {
	return nil
}

// periodRows must be called with the lock held.
func (m *MockDB) periodRows(since time.Time) []models.LeaderboardRow {
	periodPoints := make(map[int64]int64)
	for _, e := range m.events {
		if e.CreatedAt.Before(since) {
			continue
		}
		periodPoints[e.UserID] += e.Points
	}

	var rows []models.LeaderboardRow
	for userID, points := range periodPoints {
		if points <= 0 {
			continue
		}
		special := 0
		for _, a := range m.achievements[userID] {
			if a.IsSpecial {
				special++
			}
		}
		rows = append(rows, models.LeaderboardRow{
			UserID:              userID,
			Points:              points,
			TotalPoints:         m.sumPoints(userID, time.Time{}),
			StreakDays:          m.rankings[userID].ConsecutiveDays,
			SpecialAchievements: special,
		})
	}
	return rows
}

func (m *MockDB) sumPoints(userID int64, since time.Time) int64 {
	var total int64
	for _, e := range m.events {
		if e.UserID == userID && !e.CreatedAt.Before(since) {
			total += e.Points
		}
	}
	return total
}
