package ch

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"confession/internal/models"
	"confession/internal/storage"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"
)

type ClickHouseDB struct {
	conn clickhouse.Conn
	now  func() time.Time
}

var _ storage.Storage = (*ClickHouseDB)(nil)

// NewClickHouseDB creates a new ClickHouse database connection
func NewClickHouseDB(host string, port int, database, user, password string, useTLS bool) (*ClickHouseDB, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
		DialTimeout: 10 * time.Second,
	}

	if useTLS {
		options.TLS = &tls.Config{}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseDB{conn: conn, now: time.Now}, nil
}

// Initialize is a no-op - tables are managed via migrations
func (db *ClickHouseDB) Initialize(ctx context.Context) error {
	return nil
}

// user_rankings is a ReplacingMergeTree keyed by user_id; every query reads
// the latest row per user with argMax over updated_at.

// GetUserRanking returns the latest ranking row with points summed from point_events
func (db *ClickHouseDB) GetUserRanking(ctx context.Context, userID int64) (*models.UserRanking, error) {
	var (
		streak, checkIns int32
		lastCheckIn      time.Time
		total            int64
	)
	err := db.conn.QueryRow(ctx, `
		SELECT
			argMax(consecutive_days, updated_at),
			argMax(check_ins, updated_at),
			argMax(last_check_in, updated_at),
			(SELECT sum(points) FROM point_events WHERE user_id = ?)
		FROM user_rankings
		WHERE user_id = ?
		GROUP BY user_id`, userID, userID).Scan(&streak, &checkIns, &lastCheckIn, &total)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user ranking: %w", err)
	}

	r := &models.UserRanking{
		UserID:          userID,
		TotalPoints:     total,
		ConsecutiveDays: int(streak),
		CheckIns:        int(checkIns),
	}
	if lastCheckIn.Unix() > 0 {
		r.LastCheckIn = lastCheckIn.UTC()
	}
	return r, nil
}

// InitializeUserRanking inserts an empty ranking row unless the user has one
func (db *ClickHouseDB) InitializeUserRanking(ctx context.Context, userID int64) error {
	var count uint64
	if err := db.conn.QueryRow(ctx, `SELECT count() FROM user_rankings WHERE user_id = ?`, userID).Scan(&count); err != nil {
		return fmt.Errorf("failed to check user ranking: %w", err)
	}
	if count > 0 {
		return nil
	}

	err := db.conn.Exec(ctx, `
		INSERT INTO user_rankings (user_id, consecutive_days, check_ins, last_check_in, updated_at)
		VALUES (?, 0, 0, ?, ?)`, userID, time.Unix(0, 0).UTC(), db.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to initialize user ranking: %w", err)
	}
	return nil
}

// RecordCheckIn writes a new ranking row with the streak and an incremented check-in count
func (db *ClickHouseDB) RecordCheckIn(ctx context.Context, userID int64, streak int, at time.Time) error {
	var checkIns int32
	err := db.conn.QueryRow(ctx, `
		SELECT argMax(check_ins, updated_at)
		FROM user_rankings
		WHERE user_id = ?
		GROUP BY user_id`, userID).Scan(&checkIns)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read check-ins: %w", err)
	}

	err = db.conn.Exec(ctx, `
		INSERT INTO user_rankings (user_id, consecutive_days, check_ins, last_check_in, updated_at)
		VALUES (?, ?, ?, ?, ?)`, userID, int32(streak), checkIns+1, at.UTC(), db.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record check-in: %w", err)
	}
	return nil
}

// AddPoints appends a point event
func (db *ClickHouseDB) AddPoints(ctx context.Context, userID, points int64, reason string, at time.Time) error {
	err := db.conn.Exec(ctx, `
		INSERT INTO point_events (id, user_id, points, reason, created_at)
		VALUES (?, ?, ?, ?, ?)`, uuid.New(), userID, points, reason, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to add points: %w", err)
	}
	return nil
}

// ListAchievements returns the user's achievements, newest first
func (db *ClickHouseDB) ListAchievements(ctx context.Context, userID int64, limit int) ([]models.Achievement, error) {
	query := `
		SELECT id, achievement_key, name, description, category, points, is_special, earned_at
		FROM achievements
		WHERE user_id = ?
		ORDER BY earned_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	var list []models.Achievement
	for rows.Next() {
		var (
			a  models.Achievement
			id uuid.UUID
		)
		if err := rows.Scan(&id, &a.Key, &a.Name, &a.Description, &a.Category, &a.Points, &a.IsSpecial, &a.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		a.ID = id.String()
		a.EarnedAt = a.EarnedAt.UTC()
		list = append(list, a)
	}
	return list, rows.Err()
}

// AddAchievement appends an unlocked achievement
func (db *ClickHouseDB) AddAchievement(ctx context.Context, userID int64, a models.Achievement) error {
	id := uuid.New()
	if a.ID != "" {
		parsed, err := uuid.Parse(a.ID)
		if err != nil {
			return fmt.Errorf("invalid achievement id %q: %w", a.ID, err)
		}
		id = parsed
	}

	err := db.conn.Exec(ctx, `
		INSERT INTO achievements (id, user_id, achievement_key, name, description, category, points, is_special, earned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, a.Key, a.Name, a.Description, a.Category, a.Points, a.IsSpecial, a.EarnedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to add achievement: %w", err)
	}
	return nil
}

// periodPointsQuery sums each user's points since the bound time; users
// with no positive total in the window are left out.
const periodPointsQuery = `
	SELECT user_id, sum(points) AS period_points
	FROM point_events
	WHERE created_at >= ?
	GROUP BY user_id
	HAVING period_points > 0`

// GetLeaderboard returns users ordered by points earned in the period
func (db *ClickHouseDB) GetLeaderboard(ctx context.Context, period models.Period, limit int, now time.Time) ([]models.LeaderboardRow, error) {
	query := `
		SELECT p.user_id, p.period_points, t.total_points, r.streak, a.special
		FROM (` + periodPointsQuery + `) AS p
		LEFT JOIN (
			SELECT user_id, sum(points) AS total_points
			FROM point_events
			GROUP BY user_id
		) AS t ON t.user_id = p.user_id
		LEFT JOIN (
			SELECT user_id, argMax(consecutive_days, updated_at) AS streak
			FROM user_rankings
			GROUP BY user_id
		) AS r ON r.user_id = p.user_id
		LEFT JOIN (
			SELECT user_id, countIf(is_special) AS special
			FROM achievements
			GROUP BY user_id
		) AS a ON a.user_id = p.user_id
		ORDER BY p.period_points DESC, p.user_id ASC`
	args := []any{period.Since(now).UTC()}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	var result []models.LeaderboardRow
	for rows.Next() {
		var (
			row     models.LeaderboardRow
			streak  int32
			special uint64
		)
		if err := rows.Scan(&row.UserID, &row.Points, &row.TotalPoints, &streak, &special); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		row.StreakDays = int(streak)
		row.SpecialAchievements = int(special)
		result = append(result, row)
	}
	return result, rows.Err()
}

// GetLeaderboardStats aggregates the users GetLeaderboard would rank
func (db *ClickHouseDB) GetLeaderboardStats(ctx context.Context, period models.Period, now time.Time) (models.LeaderboardStats, error) {
	var (
		participants uint64
		avg          float64
		maxPoints    int64
	)
	err := db.conn.QueryRow(ctx, `
		SELECT count(), ifNotFinite(avg(period_points), 0), max(period_points)
		FROM (`+periodPointsQuery+`)`, period.Since(now).UTC()).Scan(&participants, &avg, &maxPoints)
	if err != nil {
		return models.LeaderboardStats{}, fmt.Errorf("failed to get leaderboard stats: %w", err)
	}

	return models.LeaderboardStats{
		Participants:  int(participants),
		AveragePoints: avg,
		MaxPoints:     maxPoints,
	}, nil
}

// Close closes the database connection
func (db *ClickHouseDB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
