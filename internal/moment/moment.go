// Package moment carries the match timestamp across the navigation boundary
// between the deck and the match view.
package moment

import (
	"net/url"
	"strconv"
	"time"
)

// QueryKey is the query parameter holding the match time in unix millis.
const QueryKey = "t"

// Moment is the instant the terminal item was accepted.
type Moment struct {
	At time.Time
}

// FromQuery reads the moment from values. A missing or malformed value
// means the match happened now.
func FromQuery(values url.Values, now time.Time) Moment {
	raw := values.Get(QueryKey)
	if raw == "" {
		return Moment{At: now}
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Moment{At: now}
	}
	return Moment{At: time.UnixMilli(ms)}
}

// FromPath parses a match path such as "/match?t=1700000000000".
func FromPath(path string, now time.Time) Moment {
	u, err := url.Parse(path)
	if err != nil {
		return Moment{At: now}
	}
	return FromQuery(u.Query(), now)
}

// MatchPath builds the navigation target for a match at t.
func MatchPath(t time.Time) string {
	v := url.Values{}
	v.Set(QueryKey, strconv.FormatInt(t.UnixMilli(), 10))
	return "/match?" + v.Encode()
}

// Format renders the moment for display in the local zone.
func (m Moment) Format() string {
	return m.At.Local().Format("2 Jan 2006, 15:04:05")
}
