package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func keys(defs []AchievementDef) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Key)
	}
	return out
}

func TestEligible(t *testing.T) {
	t.Run("nothing for a new user", func(t *testing.T) {
		assert.Empty(t, Eligible(Progress{}, nil))
	})

	t.Run("first check-in", func(t *testing.T) {
		got := Eligible(Progress{CheckIns: 1, StreakDays: 1, TotalPoints: 5}, nil)
		assert.Equal(t, []string{"first_checkin"}, keys(got))
	})

	t.Run("already earned are skipped", func(t *testing.T) {
		p := Progress{CheckIns: 10, StreakDays: 7, TotalPoints: 120}
		got := Eligible(p, map[string]bool{"first_checkin": true, "streak_3": true})
		assert.Equal(t, []string{"checkins_10", "streak_7", "points_100"}, keys(got))
	})
}

func TestMissing(t *testing.T) {
	all := Catalog()
	assert.Len(t, Missing(nil), len(all))

	earned := map[string]bool{all[0].Key: true}
	missing := Missing(earned)
	assert.Len(t, missing, len(all)-1)
	assert.NotContains(t, keys(missing), all[0].Key)
}

func TestCatalog_UniqueKeys(t *testing.T) {
	seen := make(map[string]bool)
	for _, def := range Catalog() {
		assert.False(t, seen[def.Key], "duplicate key %s", def.Key)
		seen[def.Key] = true
		assert.Positive(t, def.Points)
	}
}
