package ranking

// Progress is the activity snapshot achievement rules are evaluated against.
type Progress struct {
	TotalPoints int64
	StreakDays  int
	CheckIns    int
}

// AchievementDef describes an achievement that can be unlocked.
type AchievementDef struct {
	Key         string
	Name        string
	Description string
	Category    string
	Points      int64
	Special     bool
	unlocked    func(Progress) bool
}

// Unlocked reports whether the progress satisfies the achievement rule.
func (d AchievementDef) Unlocked(p Progress) bool {
	return d.unlocked != nil && d.unlocked(p)
}

func minCheckIns(n int) func(Progress) bool {
	return func(p Progress) bool { return p.CheckIns >= n }
}

func minStreak(n int) func(Progress) bool {
	return func(p Progress) bool { return p.StreakDays >= n }
}

func minPoints(n int64) func(Progress) bool {
	return func(p Progress) bool { return p.TotalPoints >= n }
}

var catalog = []AchievementDef{
	{Key: "first_checkin", Name: "First Steps", Description: "Check in for the first time",
		Category: "milestone", Points: 25, unlocked: minCheckIns(1)},
	{Key: "checkins_10", Name: "Regular", Description: "Check in on 10 different days",
		Category: "milestone", Points: 40, unlocked: minCheckIns(10)},
	{Key: "checkins_50", Name: "Fixture", Description: "Check in on 50 different days",
		Category: "milestone", Points: 100, unlocked: minCheckIns(50)},
	{Key: "checkins_200", Name: "Part of the Furniture", Description: "Check in on 200 different days",
		Category: "milestone", Points: 300, Special: true, unlocked: minCheckIns(200)},

	{Key: "streak_3", Name: "Warming Up", Description: "Keep a 3 day streak",
		Category: "streak", Points: 15, unlocked: minStreak(3)},
	{Key: "streak_7", Name: "Week Warrior", Description: "Keep a 7 day streak",
		Category: "streak", Points: 50, unlocked: minStreak(7)},
	{Key: "streak_30", Name: "Monthly Devotee", Description: "Keep a 30 day streak",
		Category: "streak", Points: 200, unlocked: minStreak(30)},
	{Key: "streak_90", Name: "Quarter Master", Description: "Keep a 90 day streak",
		Category: "streak", Points: 500, Special: true, unlocked: minStreak(90)},
	{Key: "streak_365", Name: "Ultimate Devotee", Description: "Keep a 365 day streak",
		Category: "streak", Points: 1000, Special: true, unlocked: minStreak(365)},

	{Key: "points_100", Name: "Pocket Change", Description: "Earn 100 points",
		Category: "points", Points: 10, unlocked: minPoints(100)},
	{Key: "points_1000", Name: "Point Collector", Description: "Earn 1,000 points",
		Category: "points", Points: 50, unlocked: minPoints(1000)},
	{Key: "points_5000", Name: "High Roller", Description: "Earn 5,000 points",
		Category: "points", Points: 150, unlocked: minPoints(5000)},
	{Key: "points_10000", Name: "Point Tycoon", Description: "Earn 10,000 points",
		Category: "points", Points: 300, Special: true, unlocked: minPoints(10000)},
}

// Catalog returns every achievement definition in display order.
func Catalog() []AchievementDef {
	out := make([]AchievementDef, len(catalog))
	copy(out, catalog)
	return out
}

// Eligible returns the achievements the progress unlocks that are not in
// earned, in catalog order.
func Eligible(p Progress, earned map[string]bool) []AchievementDef {
	var out []AchievementDef
	for _, def := range catalog {
		if earned[def.Key] {
			continue
		}
		if def.Unlocked(p) {
			out = append(out, def)
		}
	}
	return out
}

// Missing returns the achievements not yet in earned, in catalog order.
func Missing(earned map[string]bool) []AchievementDef {
	var out []AchievementDef
	for _, def := range catalog {
		if !earned[def.Key] {
			out = append(out, def)
		}
	}
	return out
}
