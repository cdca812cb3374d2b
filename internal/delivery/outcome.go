package delivery

import "fmt"

// OutcomeKind enumerates how a delivery ended.
type OutcomeKind int

const (
	Shared OutcomeKind = iota + 1
	Downloaded
	CancelledByUser
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Shared:
		return "shared"
	case Downloaded:
		return "downloaded"
	case CancelledByUser:
		return "cancelled"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Outcome is the result of Deliver. Path is set for Downloaded, Err for
// Failed. ShareErr records a transient share failure that was recovered
// through the download fallback.
type Outcome struct {
	Kind     OutcomeKind
	Channel  string
	Path     string
	Err      error
	ShareErr error
}

func (o Outcome) String() string {
	switch o.Kind {
	case Downloaded:
		return fmt.Sprintf("downloaded to %s", o.Path)
	case Failed:
		return fmt.Sprintf("failed: %v", o.Err)
	case Shared:
		return fmt.Sprintf("shared via %s", o.Channel)
	}
	return o.Kind.String()
}

// Guidance returns the user-facing follow-up for an outcome. Cancellation is
// silent.
func Guidance(o Outcome) string {
	switch o.Kind {
	case Shared:
		return "Shared! 💞"
	case Downloaded:
		return fmt.Sprintf("Saved to %s. Open it from your gallery and post it to your story 📲", o.Path)
	case Failed:
		return fmt.Sprintf("Could not save the file: %v", o.Err)
	}
	return ""
}
