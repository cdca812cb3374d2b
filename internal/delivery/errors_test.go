package delivery

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/swipematch/internal/capture"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"cancelled", fmt.Errorf("sheet: %w", ErrShareCancelled), UserCancellation},
		{"precondition", &capture.PreconditionError{Reason: "no target"}, PreconditionViolation},
		{"capture", &capture.Error{Op: "snapshot", Err: errors.New("boom")}, CaptureFailure},
		{"network", &NetworkError{URL: "u", Err: errors.New("dns")}, NetworkFailure},
		{"download", &DownloadError{Filename: "f", Err: errors.New("eperm")}, DeliveryFailure},
		{"share", &ShareError{Channel: "c", Err: errors.New("x")}, TransientShareFailure},
		{"other", errors.New("mystery"), DeliveryFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
