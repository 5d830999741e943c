package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"nassets/internal/amqp"
	"nassets/internal/log"
	"nassets/internal/storage"
)

type fakeSource struct {
	messages []*amqp.ItemEventMessage
}

func (f *fakeSource) ConsumeItemEvents(ctx context.Context, handler func(*amqp.ItemEventMessage) error) error {
	for _, msg := range f.messages {
		if err := handler(msg); err != nil {
			return err
		}
	}
	return nil
}

type fakeAuditStore struct {
	recorded []storage.AuditEvent
	err      error
}

func (f *fakeAuditStore) RecordAuditEvent(ctx context.Context, ev storage.AuditEvent) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, ev)
	return nil
}

func testLogger() *log.Logger {
	return log.New(log.DefaultConfig())
}

func TestAuditWorkerRecordsEvents(t *testing.T) {
	now := time.Now().UTC()
	source := &fakeSource{messages: []*amqp.ItemEventMessage{
		{Action: amqp.ActionCreated, ItemType: amqp.ItemIncome, ItemID: 1, UserID: 7, Timestamp: now},
		{Action: amqp.ActionDeleted, ItemType: amqp.ItemAsset, ItemID: 3, UserID: 7, Timestamp: now},
	}}
	store := &fakeAuditStore{}

	w := NewAuditWorker(source, store, testLogger())
	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(store.recorded) != 2 {
		t.Fatalf("recorded %d events, want 2", len(store.recorded))
	}
	first := store.recorded[0]
	if first.Action != amqp.ActionCreated || first.ItemType != amqp.ItemIncome || first.ItemID != 1 || first.UserID != 7 {
		t.Errorf("first event = %+v", first)
	}
	if !first.OccurredAt.Equal(now) {
		t.Errorf("occurred at = %v, want %v", first.OccurredAt, now)
	}
}

func TestAuditWorkerSkipsIncompleteEvents(t *testing.T) {
	source := &fakeSource{messages: []*amqp.ItemEventMessage{
		{Action: amqp.ActionCreated, ItemType: amqp.ItemIncome}, // no ids
		{Action: "", ItemType: amqp.ItemIncome, ItemID: 1, UserID: 7},
	}}
	store := &fakeAuditStore{}

	w := NewAuditWorker(source, store, testLogger())
	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(store.recorded) != 0 {
		t.Errorf("recorded %d events, want 0", len(store.recorded))
	}
}

func TestAuditWorkerPropagatesStoreError(t *testing.T) {
	boom := errors.New("db locked")
	source := &fakeSource{messages: []*amqp.ItemEventMessage{
		{Action: amqp.ActionCreated, ItemType: amqp.ItemIncome, ItemID: 1, UserID: 7, Timestamp: time.Now()},
	}}

	w := NewAuditWorker(source, &fakeAuditStore{err: boom}, testLogger())
	if err := w.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Run error = %v, want wrapped boom", err)
	}
}
