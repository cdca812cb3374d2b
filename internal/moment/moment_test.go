package moment

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatchPathRoundTrip(t *testing.T) {
	at := time.UnixMilli(1739563200123)
	path := MatchPath(at)
	assert.Equal(t, "/match?t=1739563200123", path)

	got := FromPath(path, time.Now())
	assert.True(t, got.At.Equal(at))
}

func TestFromQueryDefaultsToNow(t *testing.T) {
	now := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		values url.Values
	}{
		{"missing", url.Values{}},
		{"empty", url.Values{QueryKey: {""}}},
		{"not a number", url.Values{QueryKey: {"tomorrow"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, now, FromQuery(tt.values, now).At)
		})
	}
}
