package store

// FeedRow represents a single price record from the upstream workbook feed.
type FeedRow struct {
	Brand      string  `json:"brand"`
	Device     string  `json:"device"`
	Condition  string  `json:"condition"`
	TopPrice   float64 `json:"topPrice"`
	MSRP       string  `json:"msrp"`
	LaunchYear string  `json:"launchYear"`
}

// ConditionTiers are the recognized device-condition grades, in the priority
// order used for highest-offer lookups.
var ConditionTiers = []string{"Mint", "Good", "Fair", "Poor"}

// ValidTier reports whether a (canonicalized) condition name is a known tier.
func ValidTier(condition string) bool {
	for _, tier := range ConditionTiers {
		if condition == tier {
			return true
		}
	}
	return false
}

// PriceQuote is the result of a price lookup: the offer for one tier, or the
// highest offer across tiers when no tier was requested.
type PriceQuote struct {
	Device     string  `json:"device"`
	Condition  string  `json:"condition"`
	Price      float64 `json:"price"`
	MSRP       string  `json:"msrp"`
	LaunchYear string  `json:"launchYear"`
	Brand      string  `json:"brand"`
}
