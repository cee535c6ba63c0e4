package progression

import "math"

// KarmaTier is one contiguous band of the karma line. MaxKarma of the
// top tier is math.MaxInt64; the tiers partition every integer exactly
// once.
type KarmaTier struct {
	Name        string  `json:"name"`
	MinKarma    int64   `json:"min_karma"`
	MaxKarma    int64   `json:"max_karma"`
	Visibility  string  `json:"visibility"`
	FeedBoost   float64 `json:"feed_boost"`
	Description string  `json:"description"`
}

// karmaTiers is ordered ascending; KarmaTierFor scans from the top.
var karmaTiers = []KarmaTier{
	{
		Name:        "Limited",
		MinKarma:    math.MinInt64,
		MaxKarma:    24,
		Visibility:  "reduced",
		FeedBoost:   0.2,
		Description: "Heavily restricted after repeated negative signals.",
	},
	{
		Name:        "New User",
		MinKarma:    25,
		MaxKarma:    99,
		Visibility:  "normal",
		FeedBoost:   1.0,
		Description: "Default band for fresh accounts.",
	},
	{
		Name:        "Trusted",
		MinKarma:    100,
		MaxKarma:    299,
		Visibility:  "normal",
		FeedBoost:   1.2,
		Description: "Consistent positive participation.",
	},
	{
		Name:        "Respected",
		MinKarma:    300,
		MaxKarma:    749,
		Visibility:  "boosted",
		FeedBoost:   1.5,
		Description: "Established community member.",
	},
	{
		Name:        "Community Leader",
		MinKarma:    750,
		MaxKarma:    math.MaxInt64,
		Visibility:  "boosted",
		FeedBoost:   2.0,
		Description: "Top band, maximum feed reach.",
	},
}

// KarmaTierFor resolves the single tier containing the karma value.
func KarmaTierFor(karma int64) KarmaTier {
	for i := len(karmaTiers) - 1; i > 0; i-- {
		if karma >= karmaTiers[i].MinKarma {
			return karmaTiers[i]
		}
	}
	return karmaTiers[0]
}

// KarmaImpact is the tier plus the behavioral restrictions the external
// feed ranker and posting paths apply.
type KarmaImpact struct {
	Tier         KarmaTier `json:"tier"`
	Restrictions []string  `json:"restrictions"`
}

// KarmaImpactFor returns the tier and the restriction list for the low
// bands. Higher tiers carry no restrictions.
func KarmaImpactFor(karma int64) KarmaImpact {
	tier := KarmaTierFor(karma)
	var restrictions []string
	switch tier.Name {
	case "Limited":
		restrictions = []string{"reduced_visibility", "posting_limit", "no_gifting"}
	case "New User":
		restrictions = []string{"posting_limit"}
	}
	return KarmaImpact{Tier: tier, Restrictions: restrictions}
}
