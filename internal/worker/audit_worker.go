// Package worker consumes item mutation events and persists them as an
// audit trail.
package worker

import (
	"context"
	"fmt"

	"nassets/internal/amqp"
	"nassets/internal/log"
	"nassets/internal/storage"
)

// AuditStore persists consumed events. Implemented by *storage.Repository.
type AuditStore interface {
	RecordAuditEvent(ctx context.Context, ev storage.AuditEvent) error
}

// EventSource delivers item events. Implemented by *amqp.Client.
type EventSource interface {
	ConsumeItemEvents(ctx context.Context, handler func(*amqp.ItemEventMessage) error) error
}

// AuditWorker turns the event stream into audit rows. A handler error
// requeues the delivery, so transient database failures retry.
type AuditWorker struct {
	source EventSource
	store  AuditStore
	logger *log.Logger
}

func NewAuditWorker(source EventSource, store AuditStore, logger *log.Logger) *AuditWorker {
	return &AuditWorker{
		source: source,
		store:  store,
		logger: logger.WithComponent("audit-worker"),
	}
}

// Run consumes events until ctx is cancelled.
func (w *AuditWorker) Run(ctx context.Context) error {
	return w.source.ConsumeItemEvents(ctx, func(msg *amqp.ItemEventMessage) error {
		return w.record(ctx, msg)
	})
}

func (w *AuditWorker) record(ctx context.Context, msg *amqp.ItemEventMessage) error {
	if msg.UserID == 0 || msg.ItemID == 0 || msg.Action == "" || msg.ItemType == "" {
		// Malformed but decodable; recording it would produce an
		// unattributable row. Drop without requeueing by succeeding.
		w.logger.WarnContext(ctx, "Skipping incomplete event",
			"action", msg.Action, "item_type", msg.ItemType,
			"item_id", msg.ItemID, "user_id", msg.UserID)
		return nil
	}

	ev := storage.AuditEvent{
		UserID:     msg.UserID,
		ItemType:   msg.ItemType,
		ItemID:     msg.ItemID,
		Action:     msg.Action,
		OccurredAt: msg.Timestamp,
	}
	if err := w.store.RecordAuditEvent(ctx, ev); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	w.logger.InfoContext(ctx, "Recorded audit event",
		"action", msg.Action, "item_type", msg.ItemType,
		"item_id", msg.ItemID, "user_id", msg.UserID)
	return nil
}
