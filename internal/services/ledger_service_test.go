package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"nassets/internal/amqp"
	"nassets/internal/core"
)

// fakeStore records the last item it was asked to persist and assigns
// incrementing ids.
type fakeStore struct {
	nextID     int64
	lastIncome core.Income
	deleted    []int64
	err        error
}

func (f *fakeStore) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	if f.err != nil {
		return core.Income{}, f.err
	}
	f.nextID++
	in.ID = f.nextID
	f.lastIncome = in
	return in, nil
}

func (f *fakeStore) UpdateIncome(ctx context.Context, userID, id int64, patch core.IncomePatch) (core.Income, error) {
	if f.err != nil {
		return core.Income{}, f.err
	}
	in := f.lastIncome
	patch.Apply(&in)
	f.lastIncome = in
	return in, nil
}

func (f *fakeStore) DeleteIncome(ctx context.Context, userID, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) CreateExpense(ctx context.Context, ex core.Expense) (core.Expense, error) {
	f.nextID++
	ex.ID = f.nextID
	return ex, f.err
}

func (f *fakeStore) UpdateExpense(ctx context.Context, userID, id int64, patch core.ExpensePatch) (core.Expense, error) {
	return core.Expense{ID: id, UserID: userID}, f.err
}

func (f *fakeStore) DeleteExpense(ctx context.Context, userID, id int64) error { return f.err }

func (f *fakeStore) CreateSaving(ctx context.Context, sv core.Saving) (core.Saving, error) {
	f.nextID++
	sv.ID = f.nextID
	return sv, f.err
}

func (f *fakeStore) UpdateSaving(ctx context.Context, userID, id int64, patch core.SavingPatch) (core.Saving, error) {
	return core.Saving{ID: id, UserID: userID}, f.err
}

func (f *fakeStore) DeleteSaving(ctx context.Context, userID, id int64) error { return f.err }

func (f *fakeStore) CreateAsset(ctx context.Context, a core.Asset) (core.Asset, error) {
	f.nextID++
	a.ID = f.nextID
	return a, f.err
}

func (f *fakeStore) UpdateAsset(ctx context.Context, userID, id int64, patch core.AssetPatch) (core.Asset, error) {
	return core.Asset{ID: id, UserID: userID}, f.err
}

func (f *fakeStore) DeleteAsset(ctx context.Context, userID, id int64) error { return f.err }

type fakePublisher struct {
	published []*amqp.ItemEventMessage
	err       error
}

func (f *fakePublisher) PublishItemEvent(ctx context.Context, msg *amqp.ItemEventMessage) error {
	f.published = append(f.published, msg)
	return f.err
}

func validIncome() core.Income {
	return core.Income{
		UserID:         7,
		Title:          "Salary",
		Amount:         decimal.RequireFromString("2500"),
		Date:           core.NewDate(2024, 1, 1),
		RecurrenceType: core.RecurrenceMonthly,
	}
}

func TestCreateIncomePublishesEvent(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	svc := NewLedgerService(store, pub)

	created, err := svc.CreateIncome(context.Background(), validIncome())
	if err != nil {
		t.Fatalf("CreateIncome: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected assigned id")
	}

	if len(pub.published) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.published))
	}
	msg := pub.published[0]
	if msg.Action != amqp.ActionCreated || msg.ItemType != amqp.ItemIncome {
		t.Errorf("event = %s %s", msg.Action, msg.ItemType)
	}
	if msg.ItemID != created.ID || msg.UserID != 7 {
		t.Errorf("event ids = item %d user %d", msg.ItemID, msg.UserID)
	}
}

func TestCreateIncomeNormalizesAmount(t *testing.T) {
	store := &fakeStore{}
	svc := NewLedgerService(store, nil)

	in := validIncome()
	in.Amount = decimal.RequireFromString("12.345")
	created, err := svc.CreateIncome(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateIncome: %v", err)
	}
	if created.Amount.String() != "12.35" {
		t.Errorf("amount = %s, want 12.35", created.Amount)
	}
}

func TestCreateIncomeRejectsInvalid(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	svc := NewLedgerService(store, pub)

	in := validIncome()
	in.Amount = decimal.Zero
	if _, err := svc.CreateIncome(context.Background(), in); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("error = %v, want ErrInvalidAmount", err)
	}
	if len(pub.published) != 0 {
		t.Error("rejected create must not publish")
	}
	if store.nextID != 0 {
		t.Error("rejected create must not persist")
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewLedgerService(store, pub)

	if _, err := svc.CreateIncome(context.Background(), validIncome()); err != nil {
		t.Fatalf("create should survive publish failure, got %v", err)
	}
	if err := svc.DeleteIncome(context.Background(), 7, 1); err != nil {
		t.Fatalf("delete should survive publish failure, got %v", err)
	}
}

func TestNilPublisherSkipsEvents(t *testing.T) {
	svc := NewLedgerService(&fakeStore{}, nil)

	if _, err := svc.CreateIncome(context.Background(), validIncome()); err != nil {
		t.Fatalf("CreateIncome with nil publisher: %v", err)
	}
}

func TestUpdateIncomeNormalizesPatchAmount(t *testing.T) {
	store := &fakeStore{}
	svc := NewLedgerService(store, nil)

	if _, err := svc.CreateIncome(context.Background(), validIncome()); err != nil {
		t.Fatalf("CreateIncome: %v", err)
	}

	bad := decimal.RequireFromString("-3")
	if _, err := svc.UpdateIncome(context.Background(), 7, 1, core.IncomePatch{Amount: &bad}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("error = %v, want ErrInvalidAmount", err)
	}

	rounded := decimal.RequireFromString("99.999")
	updated, err := svc.UpdateIncome(context.Background(), 7, 1, core.IncomePatch{Amount: &rounded})
	if err != nil {
		t.Fatalf("UpdateIncome: %v", err)
	}
	if updated.Amount.String() != "100" {
		t.Errorf("amount = %s, want 100", updated.Amount)
	}
}

func TestStoreErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	pub := &fakePublisher{}
	svc := NewLedgerService(&fakeStore{err: boom}, pub)

	if _, err := svc.CreateIncome(context.Background(), validIncome()); !errors.Is(err, boom) {
		t.Errorf("create error = %v, want boom", err)
	}
	if err := svc.DeleteIncome(context.Background(), 7, 1); !errors.Is(err, boom) {
		t.Errorf("delete error = %v, want boom", err)
	}
	if len(pub.published) != 0 {
		t.Error("failed mutations must not publish")
	}
}
