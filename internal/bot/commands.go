package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"confession/internal/models"
	"confession/internal/ranking"
	"confession/internal/render"
	"confession/internal/storage"

	"go.uber.org/zap"
)

const leaderboardSize = 10

// handleStart registers the user and shows the welcome message
func (b *Bot) handleStart(ctx context.Context, chatID, userID int64) error {
	if err := b.db.InitializeUserRanking(ctx, userID); err != nil {
		return err
	}
	return b.sendMarkdown(chatID, render.Welcome(), ptr(mainMenuKeyboard()))
}

// handleRank shows the ranking status screen
func (b *Bot) handleRank(ctx context.Context, chatID, userID int64) error {
	p, err := b.loadProfile(ctx, userID)
	if err != nil {
		return err
	}
	return b.sendMarkdown(chatID, render.RankDisplay(p.rank, p.details), ptr(rankMenuKeyboard()))
}

// handleLeaderboardCommand shows the period menu, or a leaderboard when a
// period is given as argument
func (b *Bot) handleLeaderboardCommand(ctx context.Context, chatID int64, args string) error {
	period, ok := lookupPeriod(args)
	if !ok {
		return b.sendMarkdown(chatID, render.LeaderboardMenu(), ptr(leaderboardMenuKeyboard()))
	}

	text, err := b.leaderboardText(ctx, period)
	if err != nil {
		return err
	}
	return b.sendMarkdown(chatID, text, ptr(periodKeyboard()))
}

// handleAchievements lists the user's achievements
func (b *Bot) handleAchievements(ctx context.Context, chatID, userID int64) error {
	p, err := b.loadProfile(ctx, userID)
	if err != nil {
		return err
	}
	return b.sendMarkdown(chatID, render.Achievements(p.achievements, len(ranking.Catalog())), ptr(achievementsKeyboard()))
}

// handleCheckIn records the daily check-in and awards streak points
func (b *Bot) handleCheckIn(ctx context.Context, chatID, userID int64) error {
	defer b.locks.lock(userID)()
	now := b.now()

	p, err := b.loadProfile(ctx, userID)
	if err != nil {
		return err
	}

	res := ranking.CheckIn(p.ranking.LastCheckIn, p.ranking.ConsecutiveDays, now)
	if !res.Counted {
		return b.sendMarkdown(chatID, render.CheckIn(res, p.rank, nil), nil)
	}

	if err := b.db.RecordCheckIn(ctx, userID, res.Streak, now); err != nil {
		return err
	}
	for _, award := range res.Awards {
		if err := b.addPoints(ctx, userID, award.Points, award.Reason, now); err != nil {
			return err
		}
	}

	unlocked, err := b.unlockAchievements(ctx, userID, now)
	if err != nil {
		return err
	}

	p, err = b.loadProfile(ctx, userID)
	if err != nil {
		return err
	}

	b.logger.Info("User checked in",
		zap.Int64("user_id", userID),
		zap.Int("streak", res.Streak),
		zap.Int64("points", res.Total()),
		zap.Int("achievements_unlocked", len(unlocked)),
	)
	return b.sendMarkdown(chatID, render.CheckIn(res, p.rank, unlocked), ptr(rankMenuKeyboard()))
}

// handleGrant lets an admin award points: /grant <user_id> <points>
func (b *Bot) handleGrant(ctx context.Context, chatID, userID int64, args string) error {
	if !b.admins[userID] {
		b.logger.Warn("Unauthorized grant attempt", zap.Int64("user_id", userID))
		return b.sendMarkdown(chatID, "⛔ This command is for admins only\\.", nil)
	}

	fields := strings.Fields(args)
	usage := render.Escape("Usage: /grant <user_id> <points>")
	if len(fields) != 2 {
		return b.sendMarkdown(chatID, usage, nil)
	}
	target, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return b.sendMarkdown(chatID, usage, nil)
	}
	points, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || points == 0 {
		return b.sendMarkdown(chatID, usage, nil)
	}

	unlock := b.locks.lock(target)
	defer unlock()
	if err := b.db.InitializeUserRanking(ctx, target); err != nil {
		return err
	}
	unlocked, err := b.awardPoints(ctx, target, points, "admin_grant")
	if err != nil {
		return err
	}

	b.logger.Info("Admin granted points",
		zap.Int64("admin_id", userID),
		zap.Int64("target_user_id", target),
		zap.Int64("points", points),
	)

	text := fmt.Sprintf("✅ Granted *%s* points to user `%d`\\.", render.Number(points), target)
	if len(unlocked) > 0 {
		text += "\n\n" + render.Unlocked(unlocked)
	}
	return b.sendMarkdown(chatID, text, nil)
}

// profile is everything the rank views need about one user
type profile struct {
	ranking      models.UserRanking
	rank         ranking.UserRank
	details      render.RankDetails
	achievements []models.Achievement
	earned       map[string]bool
}

// loadProfile reads the user's ranking and achievements, creating the
// ranking on first use
func (b *Bot) loadProfile(ctx context.Context, userID int64) (*profile, error) {
	r, err := b.db.GetUserRanking(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		if err := b.db.InitializeUserRanking(ctx, userID); err != nil {
			return nil, err
		}
		r, err = &models.UserRanking{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}

	achievements, err := b.db.ListAchievements(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	earned := make(map[string]bool, len(achievements))
	for _, a := range achievements {
		earned[a.Key] = true
	}

	return &profile{
		ranking: *r,
		rank:    b.table.Calculate(userID, r.TotalPoints),
		details: render.RankDetails{
			StreakDays:       r.ConsecutiveDays,
			CheckIns:         r.CheckIns,
			AchievementCount: len(achievements),
			LastCheckIn:      r.LastCheckIn,
		},
		achievements: achievements,
		earned:       earned,
	}, nil
}

// leaderboardText renders the top of one period with its stats header
func (b *Bot) leaderboardText(ctx context.Context, period models.Period) (string, error) {
	now := b.now()

	rows, err := b.db.GetLeaderboard(ctx, period, leaderboardSize, now)
	if err != nil {
		return "", err
	}
	stats, err := b.db.GetLeaderboardStats(ctx, period, now)
	if err != nil {
		return "", err
	}

	return render.Leaderboard(period.Title(), ranking.BuildLeaderboard(rows, b.table), &stats), nil
}

// leaderboardStatsText renders aggregates for every period
func (b *Bot) leaderboardStatsText(ctx context.Context) (string, error) {
	now := b.now()
	all := make(map[models.Period]models.LeaderboardStats, len(models.Periods))
	for _, p := range models.Periods {
		stats, err := b.db.GetLeaderboardStats(ctx, p, now)
		if err != nil {
			return "", err
		}
		all[p] = stats
	}
	return render.LeaderboardStats(all), nil
}

// lookupPeriod is strict, unlike models.ParsePeriod
func lookupPeriod(s string) (models.Period, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range models.Periods {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}
