package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"nassets/internal/core"
)

func (r *Repository) CreateAsset(ctx context.Context, a core.Asset) (core.Asset, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO assets (user_id, name, amount, contributed, target_date, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.UserID, a.Name, a.Amount.String(), a.Contributed.String(),
		nullDate(a.TargetDate), nullString(a.Description),
	)
	if err != nil {
		return core.Asset{}, fmt.Errorf("insert asset: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Asset{}, fmt.Errorf("asset id: %w", err)
	}
	return r.GetAsset(ctx, a.UserID, id)
}

func (r *Repository) GetAsset(ctx context.Context, userID, id int64) (core.Asset, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, amount, contributed, target_date, description
		 FROM assets WHERE id = ? AND user_id = ?`, id, userID)
	a, err := scanAsset(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Asset{}, core.ErrNotFound
	}
	return a, err
}

func (r *Repository) ListAssets(ctx context.Context, userID int64) ([]core.Asset, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, amount, contributed, target_date, description
		 FROM assets WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	assets := make([]core.Asset, 0)
	for rows.Next() {
		a, err := scanAsset(rows.Scan)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (r *Repository) UpdateAsset(ctx context.Context, userID, id int64, patch core.AssetPatch) (core.Asset, error) {
	a, err := r.GetAsset(ctx, userID, id)
	if err != nil {
		return core.Asset{}, err
	}
	patch.Apply(&a)
	if err := a.Validate(); err != nil {
		return core.Asset{}, err
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE assets SET name = ?, amount = ?, contributed = ?, target_date = ?,
		 description = ?, updated_at = datetime('now')
		 WHERE id = ? AND user_id = ?`,
		a.Name, a.Amount.String(), a.Contributed.String(), nullDate(a.TargetDate),
		nullString(a.Description), id, userID,
	)
	if err != nil {
		return core.Asset{}, fmt.Errorf("update asset: %w", err)
	}
	return a, nil
}

func (r *Repository) DeleteAsset(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete asset rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// adjustContributed shifts an asset's contributed total by delta within
// an existing transaction. Overshoot past the target amount is kept; the
// total never silently clamps.
func adjustContributed(ctx context.Context, tx *sql.Tx, userID, assetID int64, delta decimal.Decimal) error {
	var contributed string
	err := tx.QueryRowContext(ctx,
		`SELECT contributed FROM assets WHERE id = ? AND user_id = ?`, assetID, userID,
	).Scan(&contributed)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read contributed: %w", err)
	}

	cur, err := scanAmount(contributed)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE assets SET contributed = ?, updated_at = datetime('now') WHERE id = ? AND user_id = ?`,
		cur.Add(delta).String(), assetID, userID,
	)
	if err != nil {
		return fmt.Errorf("update contributed: %w", err)
	}
	return nil
}

func scanAsset(scan func(dest ...any) error) (core.Asset, error) {
	var a core.Asset
	var amount, contributed string
	var targetDate, description sql.NullString
	if err := scan(&a.ID, &a.UserID, &a.Name, &amount, &contributed, &targetDate, &description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Asset{}, err
		}
		return core.Asset{}, fmt.Errorf("scan asset: %w", err)
	}

	var err error
	if a.Amount, err = scanAmount(amount); err != nil {
		return core.Asset{}, err
	}
	if a.Contributed, err = scanAmount(contributed); err != nil {
		return core.Asset{}, err
	}
	if a.TargetDate, err = datePtr(targetDate); err != nil {
		return core.Asset{}, err
	}
	a.Description = stringPtr(description)
	return a, nil
}
