package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nassets/internal/core"
)

// CreateSaving records a saving and, when it targets an asset, adds its
// amount to that asset's contributed total in the same transaction.
func (r *Repository) CreateSaving(ctx context.Context, sv core.Saving) (core.Saving, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Saving{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if sv.AssetID != nil {
		if err := assetOwned(ctx, tx, sv.UserID, *sv.AssetID); err != nil {
			return core.Saving{}, err
		}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO savings (user_id, asset_id, title, amount, date, recurrence_type, recurrence_end_date, description, percentage)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sv.UserID, nullInt(sv.AssetID), sv.Title, sv.Amount.String(), sv.Date.String(),
		string(sv.RecurrenceType), nullDate(sv.RecurrenceEndDate), nullString(sv.Description), sv.Percentage,
	)
	if err != nil {
		return core.Saving{}, fmt.Errorf("insert saving: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Saving{}, fmt.Errorf("saving id: %w", err)
	}

	if sv.AssetID != nil {
		if err := adjustContributed(ctx, tx, sv.UserID, *sv.AssetID, sv.Amount); err != nil {
			return core.Saving{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return core.Saving{}, fmt.Errorf("commit: %w", err)
	}
	return r.GetSaving(ctx, sv.UserID, id)
}

func (r *Repository) GetSaving(ctx context.Context, userID, id int64) (core.Saving, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, asset_id, title, amount, date, recurrence_type, recurrence_end_date, description, percentage
		 FROM savings WHERE id = ? AND user_id = ?`, id, userID)
	sv, err := scanSaving(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Saving{}, core.ErrNotFound
	}
	return sv, err
}

func (r *Repository) ListSavings(ctx context.Context, userID int64) ([]core.Saving, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, asset_id, title, amount, date, recurrence_type, recurrence_end_date, description, percentage
		 FROM savings WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list savings: %w", err)
	}
	defer rows.Close()

	savings := make([]core.Saving, 0)
	for rows.Next() {
		sv, err := scanSaving(rows.Scan)
		if err != nil {
			return nil, err
		}
		savings = append(savings, sv)
	}
	return savings, rows.Err()
}

// UpdateSaving applies a partial update and rebalances asset contributed
// totals: the old amount leaves the old asset, the new amount joins the
// new one, with only the delta moved when the asset stays the same.
func (r *Repository) UpdateSaving(ctx context.Context, userID, id int64, patch core.SavingPatch) (core.Saving, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Saving{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, user_id, asset_id, title, amount, date, recurrence_type, recurrence_end_date, description, percentage
		 FROM savings WHERE id = ? AND user_id = ?`, id, userID)
	old, err := scanSaving(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Saving{}, core.ErrNotFound
	}
	if err != nil {
		return core.Saving{}, err
	}

	sv := old
	patch.Apply(&sv)
	if err := sv.Validate(); err != nil {
		return core.Saving{}, err
	}
	if sv.AssetID != nil && (old.AssetID == nil || *old.AssetID != *sv.AssetID) {
		if err := assetOwned(ctx, tx, userID, *sv.AssetID); err != nil {
			return core.Saving{}, err
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE savings SET asset_id = ?, title = ?, amount = ?, date = ?, recurrence_type = ?,
		 recurrence_end_date = ?, description = ?, percentage = ?, updated_at = datetime('now')
		 WHERE id = ? AND user_id = ?`,
		nullInt(sv.AssetID), sv.Title, sv.Amount.String(), sv.Date.String(), string(sv.RecurrenceType),
		nullDate(sv.RecurrenceEndDate), nullString(sv.Description), sv.Percentage, id, userID,
	)
	if err != nil {
		return core.Saving{}, fmt.Errorf("update saving: %w", err)
	}

	sameAsset := old.AssetID != nil && sv.AssetID != nil && *old.AssetID == *sv.AssetID
	switch {
	case sameAsset:
		delta := sv.Amount.Sub(old.Amount)
		if !delta.IsZero() {
			if err := adjustContributed(ctx, tx, userID, *sv.AssetID, delta); err != nil {
				return core.Saving{}, err
			}
		}
	default:
		if old.AssetID != nil {
			if err := adjustContributed(ctx, tx, userID, *old.AssetID, old.Amount.Neg()); err != nil {
				return core.Saving{}, err
			}
		}
		if sv.AssetID != nil {
			if err := adjustContributed(ctx, tx, userID, *sv.AssetID, sv.Amount); err != nil {
				return core.Saving{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return core.Saving{}, fmt.Errorf("commit: %w", err)
	}
	return sv, nil
}

// DeleteSaving removes a saving and returns its amount to the linked
// asset's contributed total.
func (r *Repository) DeleteSaving(ctx context.Context, userID, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, user_id, asset_id, title, amount, date, recurrence_type, recurrence_end_date, description, percentage
		 FROM savings WHERE id = ? AND user_id = ?`, id, userID)
	sv, err := scanSaving(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM savings WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("delete saving: %w", err)
	}

	if sv.AssetID != nil {
		if err := adjustContributed(ctx, tx, userID, *sv.AssetID, sv.Amount.Neg()); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// assetOwned verifies the asset exists and belongs to the user.
func assetOwned(ctx context.Context, tx *sql.Tx, userID, assetID int64) error {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM assets WHERE id = ? AND user_id = ?`, assetID, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check asset: %w", err)
	}
	return nil
}

func scanSaving(scan func(dest ...any) error) (core.Saving, error) {
	var sv core.Saving
	var assetID sql.NullInt64
	var amount, date, recurrence string
	var endDate, description sql.NullString
	if err := scan(&sv.ID, &sv.UserID, &assetID, &sv.Title, &amount, &date, &recurrence, &endDate, &description, &sv.Percentage); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Saving{}, err
		}
		return core.Saving{}, fmt.Errorf("scan saving: %w", err)
	}

	var err error
	sv.AssetID = intPtr(assetID)
	if sv.Amount, err = scanAmount(amount); err != nil {
		return core.Saving{}, err
	}
	if sv.Date, err = core.ParseDate(date); err != nil {
		return core.Saving{}, err
	}
	sv.RecurrenceType = core.RecurrenceType(recurrence)
	if sv.RecurrenceEndDate, err = datePtr(endDate); err != nil {
		return core.Saving{}, err
	}
	sv.Description = stringPtr(description)
	return sv, nil
}
