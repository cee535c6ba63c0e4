// Package progression holds the pure reward calculators: level curve,
// karma tiers, posting streaks, emotion explorer and emotion weight
// updates. Everything here is a total function over its inputs; nothing
// touches storage.
package progression

import "vibeos/internal/models"

// Policy is the single table of reward magnitudes. The exact numbers are
// tunable, the orderings are not: interaction increments must keep
// Post >= Comment > React > View > 0, and the affinity weights must keep
// MoreLikeThis > ExplicitInterest > TrackedView.
type Policy struct {
	// XP granted for authoring one vibe.
	PostXP int64
	// Coins granted per level gained when an XP change crosses one or
	// more level boundaries.
	LevelUpCoinBonus int64

	// Emotion-affinity increments for tracked engagement events.
	Affinity models.AffinityWeights

	// Emotion-weight increments per interaction type.
	ViewWeight    float64
	ReactWeight   float64
	CommentWeight float64
	PostWeight    float64

	// A new explorer level every ExplorerStep distinct emotions.
	ExplorerStep int
}

// DefaultPolicy returns the production numbers.
func DefaultPolicy() Policy {
	return Policy{
		PostXP:           10,
		LevelUpCoinBonus: 50,
		Affinity: models.AffinityWeights{
			TrackedView:      1,
			ExplicitInterest: 2,
			MoreLikeThis:     3,
		},
		ViewWeight:    1,
		ReactWeight:   2,
		CommentWeight: 4,
		PostWeight:    5,
		ExplorerStep:  3,
	}
}

// InteractionWeight resolves the increment for one interaction type.
// Unknown types fall back to the view weight, the smallest signal.
func (p Policy) InteractionWeight(kind models.InteractionType) float64 {
	switch kind {
	case models.InteractionPost:
		return p.PostWeight
	case models.InteractionComment:
		return p.CommentWeight
	case models.InteractionReact:
		return p.ReactWeight
	default:
		return p.ViewWeight
	}
}
