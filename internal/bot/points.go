package bot

import (
	"context"
	"strings"
	"time"

	"confession/internal/models"
	"confession/internal/ranking"

	"github.com/google/uuid"
)

// awardPoints adds points and unlocks any achievements they make reachable
func (b *Bot) awardPoints(ctx context.Context, userID, points int64, reason string) ([]ranking.AchievementDef, error) {
	now := b.now()
	if err := b.addPoints(ctx, userID, points, reason, now); err != nil {
		return nil, err
	}
	return b.unlockAchievements(ctx, userID, now)
}

func (b *Bot) addPoints(ctx context.Context, userID, points int64, reason string, at time.Time) error {
	if err := b.db.AddPoints(ctx, userID, points, reason, at); err != nil {
		return err
	}
	source, _, _ := strings.Cut(reason, ":")
	if points > 0 {
		pointsAwarded.WithLabelValues(source).Add(float64(points))
	}
	return nil
}

// unlockAchievements stores every newly eligible achievement and its bonus.
// Bonuses can unlock point achievements, so it repeats until nothing new is
// eligible.
func (b *Bot) unlockAchievements(ctx context.Context, userID int64, at time.Time) ([]ranking.AchievementDef, error) {
	var unlocked []ranking.AchievementDef

	for {
		p, err := b.loadProfile(ctx, userID)
		if err != nil {
			return unlocked, err
		}

		eligible := ranking.Eligible(ranking.Progress{
			TotalPoints: p.ranking.TotalPoints,
			StreakDays:  p.ranking.ConsecutiveDays,
			CheckIns:    p.ranking.CheckIns,
		}, p.earned)
		if len(eligible) == 0 {
			return unlocked, nil
		}

		for _, def := range eligible {
			err := b.db.AddAchievement(ctx, userID, models.Achievement{
				ID:          uuid.NewString(),
				Key:         def.Key,
				Name:        def.Name,
				Description: def.Description,
				Category:    def.Category,
				Points:      def.Points,
				IsSpecial:   def.Special,
				EarnedAt:    at,
			})
			if err != nil {
				return unlocked, err
			}
			if err := b.addPoints(ctx, userID, def.Points, "achievement:"+def.Key, at); err != nil {
				return unlocked, err
			}
			unlocked = append(unlocked, def)
		}
	}
}
