// Package services orchestrates mutations to financial items: persist
// first, then publish a best-effort event for downstream consumers. A
// broker outage never fails the caller's request.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"nassets/internal/amqp"
	"nassets/internal/core"
)

// Store is the mutation surface the service persists through.
type Store interface {
	CreateIncome(ctx context.Context, in core.Income) (core.Income, error)
	UpdateIncome(ctx context.Context, userID, id int64, patch core.IncomePatch) (core.Income, error)
	DeleteIncome(ctx context.Context, userID, id int64) error

	CreateExpense(ctx context.Context, ex core.Expense) (core.Expense, error)
	UpdateExpense(ctx context.Context, userID, id int64, patch core.ExpensePatch) (core.Expense, error)
	DeleteExpense(ctx context.Context, userID, id int64) error

	CreateSaving(ctx context.Context, sv core.Saving) (core.Saving, error)
	UpdateSaving(ctx context.Context, userID, id int64, patch core.SavingPatch) (core.Saving, error)
	DeleteSaving(ctx context.Context, userID, id int64) error

	CreateAsset(ctx context.Context, a core.Asset) (core.Asset, error)
	UpdateAsset(ctx context.Context, userID, id int64, patch core.AssetPatch) (core.Asset, error)
	DeleteAsset(ctx context.Context, userID, id int64) error
}

// Publisher emits item mutation events. Implemented by *amqp.Client.
type Publisher interface {
	PublishItemEvent(ctx context.Context, msg *amqp.ItemEventMessage) error
}

// LedgerService is the write path for incomes, expenses, savings and
// assets.
type LedgerService struct {
	store     Store
	publisher Publisher
}

// NewLedgerService creates the service. publisher may be nil when no
// broker is configured; events are then skipped.
func NewLedgerService(store Store, publisher Publisher) *LedgerService {
	return &LedgerService{store: store, publisher: publisher}
}

func (s *LedgerService) publish(ctx context.Context, action, itemType string, itemID, userID int64) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewItemEventMessage(action, itemType, itemID, userID)
	if err := s.publisher.PublishItemEvent(ctx, msg); err != nil {
		// The mutation already committed; losing the event is acceptable.
		slog.ErrorContext(ctx, "Failed to publish item event",
			"error", err,
			"action", action,
			"item_type", itemType,
			"item_id", itemID)
	}
}

func (s *LedgerService) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	amount, err := core.NormalizeAmount(in.Amount)
	if err != nil {
		return core.Income{}, err
	}
	in.Amount = amount
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}
	created, err := s.store.CreateIncome(ctx, in)
	if err != nil {
		return core.Income{}, fmt.Errorf("create income: %w", err)
	}
	s.publish(ctx, amqp.ActionCreated, amqp.ItemIncome, created.ID, created.UserID)
	return created, nil
}

func (s *LedgerService) UpdateIncome(ctx context.Context, userID, id int64, patch core.IncomePatch) (core.Income, error) {
	if patch.Amount != nil {
		amount, err := core.NormalizeAmount(*patch.Amount)
		if err != nil {
			return core.Income{}, err
		}
		patch.Amount = &amount
	}
	updated, err := s.store.UpdateIncome(ctx, userID, id, patch)
	if err != nil {
		return core.Income{}, err
	}
	s.publish(ctx, amqp.ActionUpdated, amqp.ItemIncome, id, userID)
	return updated, nil
}

func (s *LedgerService) DeleteIncome(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteIncome(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.ActionDeleted, amqp.ItemIncome, id, userID)
	return nil
}

func (s *LedgerService) CreateExpense(ctx context.Context, ex core.Expense) (core.Expense, error) {
	amount, err := core.NormalizeAmount(ex.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	ex.Amount = amount
	if err := ex.Validate(); err != nil {
		return core.Expense{}, err
	}
	created, err := s.store.CreateExpense(ctx, ex)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	s.publish(ctx, amqp.ActionCreated, amqp.ItemExpense, created.ID, created.UserID)
	return created, nil
}

func (s *LedgerService) UpdateExpense(ctx context.Context, userID, id int64, patch core.ExpensePatch) (core.Expense, error) {
	if patch.Amount != nil {
		amount, err := core.NormalizeAmount(*patch.Amount)
		if err != nil {
			return core.Expense{}, err
		}
		patch.Amount = &amount
	}
	updated, err := s.store.UpdateExpense(ctx, userID, id, patch)
	if err != nil {
		return core.Expense{}, err
	}
	s.publish(ctx, amqp.ActionUpdated, amqp.ItemExpense, id, userID)
	return updated, nil
}

func (s *LedgerService) DeleteExpense(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteExpense(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.ActionDeleted, amqp.ItemExpense, id, userID)
	return nil
}

func (s *LedgerService) CreateSaving(ctx context.Context, sv core.Saving) (core.Saving, error) {
	amount, err := core.NormalizeAmount(sv.Amount)
	if err != nil {
		return core.Saving{}, err
	}
	sv.Amount = amount
	if err := sv.Validate(); err != nil {
		return core.Saving{}, err
	}
	created, err := s.store.CreateSaving(ctx, sv)
	if err != nil {
		return core.Saving{}, err
	}
	s.publish(ctx, amqp.ActionCreated, amqp.ItemSaving, created.ID, created.UserID)
	return created, nil
}

func (s *LedgerService) UpdateSaving(ctx context.Context, userID, id int64, patch core.SavingPatch) (core.Saving, error) {
	if patch.Amount != nil {
		amount, err := core.NormalizeAmount(*patch.Amount)
		if err != nil {
			return core.Saving{}, err
		}
		patch.Amount = &amount
	}
	updated, err := s.store.UpdateSaving(ctx, userID, id, patch)
	if err != nil {
		return core.Saving{}, err
	}
	s.publish(ctx, amqp.ActionUpdated, amqp.ItemSaving, id, userID)
	return updated, nil
}

func (s *LedgerService) DeleteSaving(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteSaving(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.ActionDeleted, amqp.ItemSaving, id, userID)
	return nil
}

func (s *LedgerService) CreateAsset(ctx context.Context, a core.Asset) (core.Asset, error) {
	amount, err := core.NormalizeAmount(a.Amount)
	if err != nil {
		return core.Asset{}, err
	}
	a.Amount = amount
	if err := a.Validate(); err != nil {
		return core.Asset{}, err
	}
	created, err := s.store.CreateAsset(ctx, a)
	if err != nil {
		return core.Asset{}, fmt.Errorf("create asset: %w", err)
	}
	s.publish(ctx, amqp.ActionCreated, amqp.ItemAsset, created.ID, created.UserID)
	return created, nil
}

func (s *LedgerService) UpdateAsset(ctx context.Context, userID, id int64, patch core.AssetPatch) (core.Asset, error) {
	if patch.Amount != nil {
		amount, err := core.NormalizeAmount(*patch.Amount)
		if err != nil {
			return core.Asset{}, err
		}
		patch.Amount = &amount
	}
	updated, err := s.store.UpdateAsset(ctx, userID, id, patch)
	if err != nil {
		return core.Asset{}, err
	}
	s.publish(ctx, amqp.ActionUpdated, amqp.ItemAsset, id, userID)
	return updated, nil
}

func (s *LedgerService) DeleteAsset(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteAsset(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.ActionDeleted, amqp.ItemAsset, id, userID)
	return nil
}
