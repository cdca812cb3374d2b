package deck

import "math"

// SwipeThreshold is the drag distance, in device-independent pixels, a
// release must exceed to count as a decision.
const SwipeThreshold = 100.0

// Control identifies one of the explicit decision buttons.
type Control int

const (
	NoControl Control = iota
	RejectControl
	EmphasizeControl
	AcceptControl
)

// Classify maps a horizontal drag offset and an optional control activation
// to a decision. An explicit control always wins over the offset. Offsets
// within [-SwipeThreshold, SwipeThreshold] and non-finite offsets produce no
// decision.
func Classify(offset float64, control Control) (Decision, bool) {
	switch control {
	case RejectControl:
		return Reject, true
	case EmphasizeControl:
		return Emphasize, true
	case AcceptControl:
		return Accept, true
	}

	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		return 0, false
	}
	switch {
	case offset > SwipeThreshold:
		return Accept, true
	case offset < -SwipeThreshold:
		return Reject, true
	}
	return 0, false
}
