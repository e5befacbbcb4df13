package scoring

import "github.com/verte-zerg/reflex/internal/model"

// Tier is a named score threshold.
type Tier struct {
	Bound float64
	Label string
}

// Scale classifies scores into tiers. Tiers are ordered best first. A score
// reaches a tier when it is at least Bound, or at most Bound when
// LowerIsBetter is set. Scores reaching no tier get Fallback.
type Scale struct {
	Tiers         []Tier
	Fallback      string
	LowerIsBetter bool
}

// Rate returns the label of the best tier score reaches.
func (s Scale) Rate(score float64) string {
	for _, tier := range s.Tiers {
		if s.LowerIsBetter {
			if score <= tier.Bound {
				return tier.Label
			}
			continue
		}
		if score >= tier.Bound {
			return tier.Label
		}
	}
	return s.Fallback
}

// Rating scales per test type.
var (
	ClickScale = Scale{
		Tiers: []Tier{
			{Bound: 14, Label: "Legendary"},
			{Bound: 11, Label: "Expert"},
			{Bound: 8, Label: "Advanced"},
			{Bound: 6, Label: "Average"},
		},
		Fallback: "Beginner",
	}
	SpacebarScale = Scale{
		Tiers: []Tier{
			{Bound: 12, Label: "Legendary"},
			{Bound: 9, Label: "Expert"},
			{Bound: 6, Label: "Good"},
			{Bound: 4, Label: "Average"},
		},
		Fallback: "Beginner",
	}
	TypingScale = Scale{
		Tiers: []Tier{
			{Bound: 80, Label: "Professional"},
			{Bound: 60, Label: "Fast"},
			{Bound: 40, Label: "Average"},
			{Bound: 25, Label: "Developing"},
		},
		Fallback: "Beginner",
	}
	ReactionScale = Scale{
		Tiers: []Tier{
			{Bound: 150, Label: "Lightning Fast!"},
			{Bound: 200, Label: "Excellent!"},
			{Bound: 250, Label: "Great!"},
			{Bound: 350, Label: "Average"},
		},
		Fallback:      "Keep Practicing",
		LowerIsBetter: true,
	}
)

// ScaleFor returns the rating scale for t.
func ScaleFor(t model.TestType) Scale {
	switch t {
	case model.ClickSpeed:
		return ClickScale
	case model.SpacebarSpeed:
		return SpacebarScale
	case model.TypingSpeed:
		return TypingScale
	case model.ReactionTime:
		return ReactionScale
	}
	return Scale{}
}
