package deck

import (
	"errors"
	"time"
)

// DefaultAdvanceDelay is the pause between a non-terminal decision and the
// cursor moving, leaving room for the card's exit animation.
const DefaultAdvanceDelay = 300 * time.Millisecond

// ErrInert is returned by Advance once the terminal item has been accepted.
var ErrInert = errors.New("deck engine is inert after match")

// Event is emitted by the engine as a side effect of a transition.
type Event interface {
	event()
}

// EffectEvent asks the effects layer to spawn a burst. Delivery is best effort.
type EffectEvent struct {
	Effect
	Decision Decision
}

// MatchedEvent fires when the terminal item receives an affirmative decision.
type MatchedEvent struct {
	At time.Time
}

// RebuffedEvent fires when the terminal item is rejected. The host shows a
// blocking notice; the cursor does not move.
type RebuffedEvent struct {
	Item Item
}

// AdvancedEvent fires when the cursor actually moves.
type AdvancedEvent struct {
	From, To int
}

func (EffectEvent) event()   {}
func (MatchedEvent) event()  {}
func (RebuffedEvent) event() {}
func (AdvancedEvent) event() {}

// Ticket identifies a deferred advance. The host waits Delay and then calls
// Settle with Seq.
type Ticket struct {
	Seq   uint64
	Delay time.Duration
}

// Result is what a single Advance produced.
type Result struct {
	Decision Decision
	Events   []Event
	Pending  *Ticket
}

// Option configures an Engine.
type Option func(*Engine)

// WithAdvanceDelay sets the deferred advance delay. Zero commits immediately.
func WithAdvanceDelay(d time.Duration) Option {
	return func(e *Engine) { e.delay = d }
}

// WithClock overrides the time source used for match timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine owns the deck cursor and applies decisions to it.
//
// It is not safe for concurrent use; the host event loop is its only owner.
type Engine struct {
	deck    *Deck
	cursor  int
	delay   time.Duration
	now     func() time.Time
	seq     uint64
	pending *Ticket
	matched bool
}

// NewEngine returns an engine positioned on the first item.
func NewEngine(d *Deck, opts ...Option) *Engine {
	e := &Engine{
		deck:  d,
		delay: DefaultAdvanceDelay,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cursor returns the current position.
func (e *Engine) Cursor() int { return e.cursor }

// Current returns the item under the cursor.
func (e *Engine) Current() Item { return e.deck.At(e.cursor) }

// Len returns the deck length.
func (e *Engine) Len() int { return e.deck.Len() }

// Pending returns the unresolved deferred advance, if any.
func (e *Engine) Pending() (Ticket, bool) {
	if e.pending == nil {
		return Ticket{}, false
	}
	return *e.pending, true
}

// Inert reports whether the terminal item has been accepted.
func (e *Engine) Inert() bool { return e.matched }

// Advance applies a decision to the current item.
//
// On the terminal item an affirmative decision matches and makes the engine
// inert, while a rejection is rebuffed without moving. On any other item the
// cursor advances by one, either immediately (zero delay) or when the
// returned ticket is settled. A newer decision supersedes an unsettled ticket.
func (e *Engine) Advance(d Decision) (Result, error) {
	if e.matched {
		return Result{}, ErrInert
	}

	res := Result{
		Decision: d,
		Events:   []Event{EffectEvent{Effect: EffectFor(d), Decision: d}},
	}

	cur := e.Current()
	if cur.Terminal {
		if d.Affirmative() {
			e.matched = true
			e.pending = nil
			res.Events = append(res.Events, MatchedEvent{At: e.now()})
		} else {
			res.Events = append(res.Events, RebuffedEvent{Item: cur})
		}
		return res, nil
	}

	e.seq++
	if e.delay <= 0 {
		e.pending = nil
		res.Events = append(res.Events, e.step())
		return res, nil
	}

	e.pending = &Ticket{Seq: e.seq, Delay: e.delay}
	t := *e.pending
	res.Pending = &t
	return res, nil
}

// Settle commits the deferred advance identified by seq. Stale or unknown
// tickets are discarded and reported as false.
func (e *Engine) Settle(seq uint64) (AdvancedEvent, bool) {
	if e.matched || e.pending == nil || e.pending.Seq != seq {
		return AdvancedEvent{}, false
	}
	e.pending = nil
	return e.step(), true
}

func (e *Engine) step() AdvancedEvent {
	from := e.cursor
	if e.cursor < e.deck.Len()-1 {
		e.cursor++
	}
	return AdvancedEvent{From: from, To: e.cursor}
}
