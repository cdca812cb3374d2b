package store

import (
	"context"
	"time"
)

// Event kinds.
const (
	KindDecision = "decision"
	KindRebuff   = "rebuff"
	KindMatch    = "match"
	KindDelivery = "delivery"
)

// DecisionEventData records one applied decision.
type DecisionEventData struct {
	SessionID string
	Decision  string
	ItemID    string
	Cursor    int
}

// MatchEventData records the terminal accept.
type MatchEventData struct {
	SessionID string
	At        time.Time
}

// DeliveryEventData records how an artifact reached the user.
type DeliveryEventData struct {
	SessionID string
	Filename  string
	Outcome   string
	Detail    string
}

// Entry is a journal row.
type Entry struct {
	Sequence  int64
	SessionID string
	Kind      string
	Decision  string
	ItemID    string
	Cursor    int
	Outcome   string
	Detail    string
	CreatedAt time.Time
}

// EventRepo appends to and lists the journal.
type EventRepo interface {
	AppendDecision(ctx context.Context, data DecisionEventData) error
	AppendRebuff(ctx context.Context, data DecisionEventData) error
	AppendMatch(ctx context.Context, data MatchEventData) error
	AppendDelivery(ctx context.Context, data DeliveryEventData) error

	// Recent returns the newest entries first.
	Recent(ctx context.Context, limit int) ([]Entry, error)
}
