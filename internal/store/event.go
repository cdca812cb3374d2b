package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

func (r *eventRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func (r *eventRepo) insert(ctx context.Context, e Entry) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.clock()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO journal_events (sequence, session_id, kind, decision, item_id, cursor, outcome, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, e.SessionID, e.Kind, e.Decision, e.ItemID, e.Cursor, e.Outcome, e.Detail, e.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save %s event: %w", e.Kind, err)
	}
	return nil
}

func (r *eventRepo) AppendDecision(ctx context.Context, data DecisionEventData) error {
	return r.insert(ctx, Entry{
		SessionID: data.SessionID,
		Kind:      KindDecision,
		Decision:  data.Decision,
		ItemID:    data.ItemID,
		Cursor:    data.Cursor,
	})
}

func (r *eventRepo) AppendRebuff(ctx context.Context, data DecisionEventData) error {
	return r.insert(ctx, Entry{
		SessionID: data.SessionID,
		Kind:      KindRebuff,
		Decision:  data.Decision,
		ItemID:    data.ItemID,
		Cursor:    data.Cursor,
	})
}

func (r *eventRepo) AppendMatch(ctx context.Context, data MatchEventData) error {
	return r.insert(ctx, Entry{
		SessionID: data.SessionID,
		Kind:      KindMatch,
		CreatedAt: data.At,
	})
}

func (r *eventRepo) AppendDelivery(ctx context.Context, data DeliveryEventData) error {
	return r.insert(ctx, Entry{
		SessionID: data.SessionID,
		Kind:      KindDelivery,
		ItemID:    data.Filename,
		Outcome:   data.Outcome,
		Detail:    data.Detail,
	})
}

func (r *eventRepo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT sequence, session_id, kind, decision, item_id, cursor, outcome, detail, created_at
		 FROM journal_events ORDER BY sequence DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.Sequence, &e.SessionID, &e.Kind, &e.Decision, &e.ItemID, &e.Cursor, &e.Outcome, &e.Detail, &created); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		e.CreatedAt = time.UnixMilli(created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// NopRepo discards everything. It is used when the journal is disabled.
type NopRepo struct{}

func (NopRepo) AppendDecision(context.Context, DecisionEventData) error { return nil }
func (NopRepo) AppendRebuff(context.Context, DecisionEventData) error   { return nil }
func (NopRepo) AppendMatch(context.Context, MatchEventData) error       { return nil }
func (NopRepo) AppendDelivery(context.Context, DeliveryEventData) error { return nil }
func (NopRepo) Recent(context.Context, int) ([]Entry, error)            { return nil, nil }
