// Package effects holds the short-lived decorative tokens spawned by deck
// decisions. Each token removes itself after a fixed lifetime.
package effects

import (
	"sort"
	"sync"
	"time"
)

// DefaultLifetime is how long a token stays alive.
const DefaultLifetime = 2000 * time.Millisecond

// Token is a single floating symbol.
type Token struct {
	ID     uint64
	Symbol string
	Born   time.Time
}

// Timer is the cancellable handle returned by an AfterFunc.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

// Option configures a Queue.
type Option func(*Queue)

// WithAfterFunc replaces the timer facility. Tests use it to expire tokens
// deterministically.
func WithAfterFunc(fn AfterFunc) Option {
	return func(q *Queue) { q.after = fn }
}

// WithClock overrides the time source for Token.Born.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// WithExpireHook registers a callback run after tokens expire. The Bubble Tea
// host uses it to request a redraw.
func WithExpireHook(fn func(ids []uint64)) Option {
	return func(q *Queue) { q.onExpire = fn }
}

// Queue is a multiset of self-expiring tokens. Safe for concurrent use since
// expiry runs on timer goroutines.
type Queue struct {
	mu       sync.Mutex
	lifetime time.Duration
	after    AfterFunc
	now      func() time.Time
	onExpire func(ids []uint64)
	nextID   uint64
	tokens   map[uint64]Token
	timers   map[uint64]Timer
	closed   bool
}

// NewQueue creates a queue whose tokens live for lifetime.
func NewQueue(lifetime time.Duration, opts ...Option) *Queue {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	q := &Queue{
		lifetime: lifetime,
		after: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		now:    time.Now,
		tokens: make(map[uint64]Token),
		timers: make(map[uint64]Timer),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Spawn adds count tokens carrying symbol and returns them. All tokens of
// one spawn share a single expiry timer.
func (q *Queue) Spawn(symbol string, count int) []Token {
	if count <= 0 {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}

	born := q.now()
	spawned := make([]Token, 0, count)
	ids := make([]uint64, 0, count)
	for i := 0; i < count; i++ {
		q.nextID++
		tok := Token{ID: q.nextID, Symbol: symbol, Born: born}
		q.tokens[tok.ID] = tok
		spawned = append(spawned, tok)
		ids = append(ids, tok.ID)
	}

	// Keyed by the first id of the batch.
	key := ids[0]
	q.timers[key] = q.after(q.lifetime, func() { q.expire(key, ids) })
	return spawned
}

func (q *Queue) expire(key uint64, ids []uint64) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	delete(q.timers, key)
	for _, id := range ids {
		delete(q.tokens, id)
	}
	hook := q.onExpire
	q.mu.Unlock()

	if hook != nil {
		hook(ids)
	}
}

// Tokens returns the live tokens ordered by ID.
func (q *Queue) Tokens() []Token {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Token, 0, len(q.tokens))
	for _, t := range q.tokens {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Lifetime returns how long each token lives.
func (q *Queue) Lifetime() time.Duration { return q.lifetime }

// Len returns the number of live tokens.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tokens)
}

// Close stops all pending timers and drops every token.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for key, t := range q.timers {
		t.Stop()
		delete(q.timers, key)
	}
	q.tokens = make(map[uint64]Token)
	q.closed = true
}
