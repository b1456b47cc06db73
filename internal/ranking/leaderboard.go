package ranking

import (
	"fmt"
	"hash/fnv"

	"confession/internal/models"
)

// LeaderboardEntry is a display-ready leaderboard row. Entries are built
// fresh for every query.
type LeaderboardEntry struct {
	Position      int      `json:"position"`
	AnonymousName string   `json:"anonymous_name"`
	Points        int64    `json:"points"`
	RankEmoji     string   `json:"rank_emoji"`
	RankName      string   `json:"rank_name"`
	StreakDays    int      `json:"streak_days"`
	SpecialBadges []string `json:"special_badges"`
}

// BuildLeaderboard turns storage rows into entries. Rows must already be
// ordered; positions follow input order starting at 1.
func BuildLeaderboard(rows []models.LeaderboardRow, table Table) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		rank := table.Calculate(row.UserID, row.TotalPoints)
		entries = append(entries, LeaderboardEntry{
			Position:      i + 1,
			AnonymousName: AnonymousName(row.UserID),
			Points:        row.Points,
			RankEmoji:     rank.RankEmoji,
			RankName:      rank.RankName,
			StreakDays:    row.StreakDays,
			SpecialBadges: badges(rank, row.SpecialAchievements),
		})
	}
	return entries
}

func badges(rank UserRank, specialAchievements int) []string {
	var out []string
	if rank.IsSpecialRank {
		out = append(out, "💎")
	}
	for i := 0; i < specialAchievements; i++ {
		out = append(out, "⭐")
	}
	return out
}

var (
	nameAdjectives = []string{
		"Silent", "Curious", "Brave", "Gentle", "Witty", "Hidden", "Lucky", "Mellow",
		"Swift", "Clever", "Sleepy", "Cosmic", "Humble", "Bold", "Quiet", "Sunny",
	}
	nameAnimals = []string{
		"Owl", "Fox", "Panda", "Otter", "Falcon", "Koala", "Lynx", "Heron",
		"Badger", "Dolphin", "Raven", "Tiger", "Gecko", "Bison", "Moth", "Wolf",
	}
)

// AnonymousName derives a stable pseudonym from a user id so leaderboards
// never expose real names.
func AnonymousName(userID int64) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "confession:%d", userID)
	sum := h.Sum64()
	adj := nameAdjectives[sum%uint64(len(nameAdjectives))]
	animal := nameAnimals[(sum>>8)%uint64(len(nameAnimals))]
	return fmt.Sprintf("%s %s #%03d", adj, animal, (sum>>16)%1000)
}
