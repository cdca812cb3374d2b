package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/swipematch/internal/capture"
)

// ErrShareCancelled is the distinguishable signal a Sharer returns when the
// user dismisses the share sheet.
var ErrShareCancelled = errors.New("share cancelled by user")

// Kind is the error taxonomy surfaced at the capture/delivery boundary.
type Kind int

const (
	KindNone Kind = iota
	PreconditionViolation
	UserCancellation
	TransientShareFailure
	DeliveryFailure
	NetworkFailure
	CaptureFailure
)

func (k Kind) String() string {
	switch k {
	case PreconditionViolation:
		return "precondition_violation"
	case UserCancellation:
		return "user_cancellation"
	case TransientShareFailure:
		return "transient_share_failure"
	case DeliveryFailure:
		return "delivery_failure"
	case NetworkFailure:
		return "network_failure"
	case CaptureFailure:
		return "capture_failure"
	}
	return "none"
}

// NetworkError reports a failed blob fetch.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DownloadError reports that the download fallback itself failed.
type DownloadError struct {
	Filename string
	Err      error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.Filename, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// ShareError wraps a share invocation failure other than cancellation.
type ShareError struct {
	Channel string
	Err     error
}

func (e *ShareError) Error() string {
	return fmt.Sprintf("share via %s: %v", e.Channel, e.Err)
}

func (e *ShareError) Unwrap() error { return e.Err }

// Classify maps an error from the capture/delivery path to its Kind.
func Classify(err error) Kind {
	var (
		netErr   *NetworkError
		dlErr    *DownloadError
		shareErr *ShareError
		capErr   *capture.Error
	)
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrShareCancelled):
		return UserCancellation
	case errors.Is(err, capture.ErrPrecondition):
		return PreconditionViolation
	case errors.As(err, &netErr):
		return NetworkFailure
	case errors.As(err, &dlErr):
		return DeliveryFailure
	case errors.As(err, &shareErr):
		return TransientShareFailure
	case errors.As(err, &capErr), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CaptureFailure
	}
	return DeliveryFailure
}
