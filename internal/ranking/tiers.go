// Package ranking holds the point, rank, streak and achievement rules of the
// bot. Everything here is pure: callers pass data in and get values back.
package ranking

import (
	"errors"
	"fmt"
)

// Tier is one rank step. A user holds the highest tier whose Threshold is
// not above their total points.
type Tier struct {
	Name      string
	Emoji     string
	Threshold int64
	Special   bool
	Perks     []Perk
}

// Table is an ordered list of tiers with strictly increasing thresholds.
type Table []Tier

// UserRank is derived from total points on every read and never stored.
type UserRank struct {
	UserID         int64
	TotalPoints    int64
	RankName       string
	RankEmoji      string
	TierThreshold  int64
	NextRankName   string
	NextRankPoints int64 // 0 at the ceiling tier
	PointsToNext   int64 // 0 iff at the ceiling tier
	IsSpecialRank  bool
	SpecialPerks   []Perk
}

// AtCeiling reports whether the rank is the highest tier of its table.
func (r UserRank) AtCeiling() bool {
	return r.PointsToNext == 0
}

// ErrEmptyTable is returned by NewTable when no tiers are given.
var ErrEmptyTable = errors.New("rank table has no tiers")

// NewTable validates the tiers and returns them as a Table.
func NewTable(tiers ...Tier) (Table, error) {
	if len(tiers) == 0 {
		return nil, ErrEmptyTable
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i].Threshold <= tiers[i-1].Threshold {
			return nil, fmt.Errorf("tier %q threshold %d must be above %q threshold %d",
				tiers[i].Name, tiers[i].Threshold, tiers[i-1].Name, tiers[i-1].Threshold)
		}
	}
	t := make(Table, len(tiers))
	copy(t, tiers)
	return t, nil
}

func mustTable(tiers ...Tier) Table {
	t, err := NewTable(tiers...)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultTable is the rank ladder used by the bot.
var DefaultTable = mustTable(
	Tier{Name: "Freshman", Emoji: "🎯", Threshold: 0},
	Tier{Name: "Sophomore", Emoji: "📚", Threshold: 100},
	Tier{Name: "Junior", Emoji: "🎓", Threshold: 300},
	Tier{Name: "Senior", Emoji: "🏅", Threshold: 750},
	Tier{Name: "Graduate", Emoji: "🎖️", Threshold: 1500,
		Perks: []Perk{{Kind: PerkDailyConfessions, Value: 5}}},
	Tier{Name: "Scholar", Emoji: "💎", Threshold: 3000, Special: true,
		Perks: []Perk{
			{Kind: PerkDailyConfessions, Value: 8},
			{Kind: PerkPriorityReview},
			{Kind: PerkFeaturedChance, Value: 10},
		}},
	Tier{Name: "Master", Emoji: "👑", Threshold: 6000, Special: true,
		Perks: []Perk{
			{Kind: PerkDailyConfessions, Value: 12},
			{Kind: PerkPriorityReview},
			{Kind: PerkCommentHighlight},
			{Kind: PerkFeaturedChance, Value: 20},
			{Kind: PerkExclusiveCategories},
		}},
	Tier{Name: "Legend", Emoji: "🌟", Threshold: 12000, Special: true,
		Perks: []Perk{
			{Kind: PerkUnlimitedDaily},
			{Kind: PerkLegendBadge},
			{Kind: PerkCustomEmoji},
			{Kind: PerkFeaturedChance, Value: 35},
			{Kind: PerkAllPerks},
		}},
)

// TierIndex returns the index of the tier that totalPoints falls into.
// Points below the first threshold map to the first tier.
func (t Table) TierIndex(totalPoints int64) int {
	idx := 0
	for i, tier := range t {
		if tier.Threshold > totalPoints {
			break
		}
		idx = i
	}
	return idx
}

// Calculate derives the rank of a user from their total points. A table
// with no tiers yields an unnamed rank at the ceiling.
func (t Table) Calculate(userID, totalPoints int64) UserRank {
	if len(t) == 0 {
		return UserRank{UserID: userID, TotalPoints: totalPoints}
	}
	idx := t.TierIndex(totalPoints)
	tier := t[idx]

	rank := UserRank{
		UserID:        userID,
		TotalPoints:   totalPoints,
		RankName:      tier.Name,
		RankEmoji:     tier.Emoji,
		TierThreshold: tier.Threshold,
		IsSpecialRank: tier.Special,
		SpecialPerks:  tier.Perks,
	}

	if idx+1 < len(t) {
		next := t[idx+1]
		rank.NextRankName = next.Name
		rank.NextRankPoints = next.Threshold
		rank.PointsToNext = next.Threshold - totalPoints
	}
	return rank
}
