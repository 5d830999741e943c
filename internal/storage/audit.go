package storage

import (
	"context"
	"fmt"
	"time"
)

// AuditEvent is one recorded mutation, as consumed from the event stream.
type AuditEvent struct {
	ID         int64
	UserID     int64
	ItemType   string
	ItemID     int64
	Action     string
	OccurredAt time.Time
}

// RecordAuditEvent appends a mutation record to the audit trail.
func (r *Repository) RecordAuditEvent(ctx context.Context, ev AuditEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_events (user_id, item_type, item_id, action, occurred_at)
		 VALUES (?, ?, ?, ?, ?)`,
		ev.UserID, ev.ItemType, ev.ItemID, ev.Action, ev.OccurredAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListAuditEvents returns an owner's audit trail, newest first.
func (r *Repository) ListAuditEvents(ctx context.Context, userID int64, limit int) ([]AuditEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, item_type, item_id, action, occurred_at
		 FROM audit_events WHERE user_id = ? ORDER BY id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	events := make([]AuditEvent, 0)
	for rows.Next() {
		var ev AuditEvent
		var occurredAt string
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.ItemType, &ev.ItemID, &ev.Action, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if ev.OccurredAt, err = time.Parse(time.RFC3339, occurredAt); err != nil {
			return nil, fmt.Errorf("parse audit timestamp: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
