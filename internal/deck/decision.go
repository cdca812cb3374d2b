package deck

// Decision is the discrete outcome of a gesture or a control activation.
type Decision int

const (
	Reject Decision = iota + 1
	Accept
	Emphasize
)

func (d Decision) String() string {
	switch d {
	case Reject:
		return "reject"
	case Accept:
		return "accept"
	case Emphasize:
		return "emphasize"
	}
	return "unknown"
}

// Affirmative reports whether d counts as a yes for state transitions.
// Emphasize only differs from Accept in the effect it spawns.
func (d Decision) Affirmative() bool {
	return d == Accept || d == Emphasize
}

// Effect describes the decorative burst a decision spawns.
type Effect struct {
	Symbol string
	Count  int
}

// EffectFor returns the burst for a decision kind.
func EffectFor(d Decision) Effect {
	switch d {
	case Emphasize:
		return Effect{Symbol: "👍", Count: 12}
	case Accept:
		return Effect{Symbol: "💖", Count: 6}
	default:
		return Effect{Symbol: "😢", Count: 6}
	}
}
