package deck

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 2, 14, 20, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, delay time.Duration) *Engine {
	t.Helper()
	d, err := New(DefaultItems())
	require.NoError(t, err)
	return NewEngine(d, WithAdvanceDelay(delay), WithClock(func() time.Time { return fixedNow }))
}

func eventsOf[T Event](events []Event) []T {
	var out []T
	for _, ev := range events {
		if v, ok := ev.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func TestAdvanceNonTerminalDeferred(t *testing.T) {
	for _, d := range []Decision{Reject, Accept, Emphasize} {
		t.Run(d.String(), func(t *testing.T) {
			e := newTestEngine(t, DefaultAdvanceDelay)

			res, err := e.Advance(d)
			require.NoError(t, err)
			require.NotNil(t, res.Pending)
			assert.Equal(t, DefaultAdvanceDelay, res.Pending.Delay)
			assert.Equal(t, 0, e.Cursor(), "cursor must not move before settle")

			adv, ok := e.Settle(res.Pending.Seq)
			require.True(t, ok)
			assert.Equal(t, AdvancedEvent{From: 0, To: 1}, adv)
			assert.Equal(t, 1, e.Cursor())

			_, pending := e.Pending()
			assert.False(t, pending)
		})
	}
}

func TestAdvanceZeroDelayCommitsImmediately(t *testing.T) {
	e := newTestEngine(t, 0)

	res, err := e.Advance(Reject)
	require.NoError(t, err)
	assert.Nil(t, res.Pending)
	assert.Equal(t, 1, e.Cursor())

	adv := eventsOf[AdvancedEvent](res.Events)
	require.Len(t, adv, 1)
	assert.Equal(t, AdvancedEvent{From: 0, To: 1}, adv[0])
}

func TestEveryAdvanceEmitsEffectFirst(t *testing.T) {
	e := newTestEngine(t, 0)

	cases := []struct {
		d      Decision
		symbol string
		count  int
	}{
		{Reject, "😢", 6},
		{Accept, "💖", 6},
		{Emphasize, "👍", 12},
		{Reject, "😢", 6}, // terminal rebuff still emits
	}

	for _, c := range cases {
		res, err := e.Advance(c.d)
		require.NoError(t, err)
		require.NotEmpty(t, res.Events)
		eff, ok := res.Events[0].(EffectEvent)
		require.True(t, ok, "first event must be the effect")
		assert.Equal(t, c.symbol, eff.Symbol)
		assert.Equal(t, c.count, eff.Count)
	}
}

func TestSupersededTicketIsDiscarded(t *testing.T) {
	e := newTestEngine(t, DefaultAdvanceDelay)

	first, err := e.Advance(Accept)
	require.NoError(t, err)
	second, err := e.Advance(Reject)
	require.NoError(t, err)
	require.Greater(t, second.Pending.Seq, first.Pending.Seq)

	_, ok := e.Settle(first.Pending.Seq)
	assert.False(t, ok, "stale ticket must not advance")
	assert.Equal(t, 0, e.Cursor())

	_, ok = e.Settle(second.Pending.Seq)
	assert.True(t, ok)
	assert.Equal(t, 1, e.Cursor(), "two rapid gestures advance exactly once")

	_, ok = e.Settle(second.Pending.Seq)
	assert.False(t, ok, "settle is single-use")
	assert.Equal(t, 1, e.Cursor())
}

func TestTerminalRejectIsIdempotent(t *testing.T) {
	e := newTestEngine(t, 0)
	for i := 0; i < 3; i++ {
		_, err := e.Advance(Accept)
		require.NoError(t, err)
	}
	require.True(t, e.Current().Terminal)

	for i := 0; i < 5; i++ {
		res, err := e.Advance(Reject)
		require.NoError(t, err)
		assert.Len(t, eventsOf[RebuffedEvent](res.Events), 1)
		assert.Empty(t, eventsOf[MatchedEvent](res.Events))
		assert.Nil(t, res.Pending)
		assert.Equal(t, 3, e.Cursor())
		assert.False(t, e.Inert())
	}
}

func TestTerminalAffirmativeMatches(t *testing.T) {
	for _, d := range []Decision{Accept, Emphasize} {
		t.Run(d.String(), func(t *testing.T) {
			dk, err := New([]Item{{ID: "q", Terminal: true}})
			require.NoError(t, err)
			e := NewEngine(dk, WithClock(func() time.Time { return fixedNow }))

			res, err := e.Advance(d)
			require.NoError(t, err)
			m := eventsOf[MatchedEvent](res.Events)
			require.Len(t, m, 1)
			assert.Equal(t, fixedNow, m[0].At)
			assert.True(t, e.Inert())

			_, err = e.Advance(Accept)
			assert.ErrorIs(t, err, ErrInert)
		})
	}
}

// Scenario: four items, offsets [150, -150, 200] then accept on the terminal.
func TestScenarioSwipeThroughToMatch(t *testing.T) {
	e := newTestEngine(t, DefaultAdvanceDelay)
	path := []int{e.Cursor()}

	for _, off := range []float64{150, -150, 200} {
		d, ok := Classify(off, NoControl)
		require.True(t, ok)
		res, err := e.Advance(d)
		require.NoError(t, err)
		require.NotNil(t, res.Pending)
		_, ok = e.Settle(res.Pending.Seq)
		require.True(t, ok)
		path = append(path, e.Cursor())
	}
	assert.Equal(t, []int{0, 1, 2, 3}, path)

	d, ok := Classify(0, AcceptControl)
	require.True(t, ok)
	res, err := e.Advance(d)
	require.NoError(t, err)
	assert.Len(t, eventsOf[MatchedEvent](res.Events), 1)
}

// Scenario: rejecting the terminal item leaves the cursor on it.
func TestScenarioTerminalRejectRebuffed(t *testing.T) {
	e := newTestEngine(t, 0)
	for i := 0; i < 3; i++ {
		_, err := e.Advance(Emphasize)
		require.NoError(t, err)
	}

	d, ok := Classify(-180, NoControl)
	require.True(t, ok)
	res, err := e.Advance(d)
	require.NoError(t, err)

	assert.Equal(t, 3, e.Cursor())
	assert.Len(t, eventsOf[RebuffedEvent](res.Events), 1)
	assert.Empty(t, eventsOf[MatchedEvent](res.Events))
}

func TestCursorCappedAtLastItem(t *testing.T) {
	e := newTestEngine(t, 0)
	for i := 0; i < 3; i++ {
		_, err := e.Advance(Reject)
		require.NoError(t, err)
	}
	assert.Equal(t, e.Len()-1, e.Cursor())
}

// The full event trace of a straight run to the match, compared structurally.
func TestStraightRunEventTrace(t *testing.T) {
	e := newTestEngine(t, 0)

	var trace []Event
	for _, d := range []Decision{Accept, Emphasize, Reject, Reject, Accept} {
		res, err := e.Advance(d)
		require.NoError(t, err)
		trace = append(trace, res.Events...)
	}

	items := DefaultItems()
	items[3].HasVisual = false
	want := []Event{
		EffectEvent{Effect: Effect{Symbol: "💖", Count: 6}, Decision: Accept},
		AdvancedEvent{From: 0, To: 1},
		EffectEvent{Effect: Effect{Symbol: "👍", Count: 12}, Decision: Emphasize},
		AdvancedEvent{From: 1, To: 2},
		EffectEvent{Effect: Effect{Symbol: "😢", Count: 6}, Decision: Reject},
		AdvancedEvent{From: 2, To: 3},
		EffectEvent{Effect: Effect{Symbol: "😢", Count: 6}, Decision: Reject},
		RebuffedEvent{Item: items[3]},
		EffectEvent{Effect: Effect{Symbol: "💖", Count: 6}, Decision: Accept},
		MatchedEvent{At: fixedNow},
	}
	if diff := cmp.Diff(want, trace); diff != "" {
		t.Errorf("event trace mismatch (-want +got):\n%s", diff)
	}
}
