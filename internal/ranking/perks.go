package ranking

// PerkKind is the closed set of privileges a tier can grant.
type PerkKind int

const (
	PerkDailyConfessions PerkKind = iota + 1 // Value: confessions per day
	PerkPriorityReview
	PerkCommentHighlight
	PerkFeaturedChance // Value: percent
	PerkExclusiveCategories
	PerkCustomEmoji
	PerkLegendBadge
	PerkUnlimitedDaily
	PerkAllPerks
)

// Perk is a tagged privilege. Value only carries meaning for quantified kinds.
type Perk struct {
	Kind  PerkKind
	Value int
}

// Quantified reports whether the kind uses Perk.Value.
func (k PerkKind) Quantified() bool {
	return k == PerkDailyConfessions || k == PerkFeaturedChance
}

func (k PerkKind) String() string {
	switch k {
	case PerkDailyConfessions:
		return "Daily Confessions"
	case PerkPriorityReview:
		return "Priority Review"
	case PerkCommentHighlight:
		return "Comment Highlight"
	case PerkFeaturedChance:
		return "Featured Chance"
	case PerkExclusiveCategories:
		return "Exclusive Categories"
	case PerkCustomEmoji:
		return "Custom Emoji"
	case PerkLegendBadge:
		return "Legend Badge"
	case PerkUnlimitedDaily:
		return "Unlimited Daily"
	case PerkAllPerks:
		return "All Perks"
	default:
		return "Unknown Perk"
	}
}

// Emoji is the glyph shown next to the perk.
func (k PerkKind) Emoji() string {
	switch k {
	case PerkDailyConfessions:
		return "📝"
	case PerkPriorityReview:
		return "⚡"
	case PerkCommentHighlight:
		return "✨"
	case PerkFeaturedChance:
		return "🌟"
	case PerkExclusiveCategories:
		return "🔓"
	case PerkCustomEmoji:
		return "😎"
	case PerkLegendBadge:
		return "👑"
	case PerkUnlimitedDaily:
		return "♾️"
	case PerkAllPerks:
		return "🌈"
	default:
		return "🎁"
	}
}
