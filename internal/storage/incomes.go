package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nassets/internal/core"
)

func (r *Repository) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO incomes (user_id, title, amount, date, recurrence_type, recurrence_end_date, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.UserID, in.Title, in.Amount.String(), in.Date.String(),
		string(in.RecurrenceType), nullDate(in.RecurrenceEndDate), nullString(in.Description),
	)
	if err != nil {
		return core.Income{}, fmt.Errorf("insert income: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Income{}, fmt.Errorf("income id: %w", err)
	}
	return r.GetIncome(ctx, in.UserID, id)
}

func (r *Repository) GetIncome(ctx context.Context, userID, id int64) (core.Income, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, amount, date, recurrence_type, recurrence_end_date, description
		 FROM incomes WHERE id = ? AND user_id = ?`, id, userID)
	in, err := scanIncome(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, core.ErrNotFound
	}
	return in, err
}

func (r *Repository) ListIncomes(ctx context.Context, userID int64) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, amount, date, recurrence_type, recurrence_end_date, description
		 FROM incomes WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	incomes := make([]core.Income, 0)
	for rows.Next() {
		in, err := scanIncome(rows.Scan)
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, in)
	}
	return incomes, rows.Err()
}

// UpdateIncome applies a partial update to an owner's income and returns
// the stored result.
func (r *Repository) UpdateIncome(ctx context.Context, userID, id int64, patch core.IncomePatch) (core.Income, error) {
	in, err := r.GetIncome(ctx, userID, id)
	if err != nil {
		return core.Income{}, err
	}
	patch.Apply(&in)
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE incomes SET title = ?, amount = ?, date = ?, recurrence_type = ?,
		 recurrence_end_date = ?, description = ?, updated_at = datetime('now')
		 WHERE id = ? AND user_id = ?`,
		in.Title, in.Amount.String(), in.Date.String(), string(in.RecurrenceType),
		nullDate(in.RecurrenceEndDate), nullString(in.Description), id, userID,
	)
	if err != nil {
		return core.Income{}, fmt.Errorf("update income: %w", err)
	}
	return in, nil
}

func (r *Repository) DeleteIncome(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete income rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func scanIncome(scan func(dest ...any) error) (core.Income, error) {
	var in core.Income
	var amount, date, recurrence string
	var endDate, description sql.NullString
	if err := scan(&in.ID, &in.UserID, &in.Title, &amount, &date, &recurrence, &endDate, &description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Income{}, err
		}
		return core.Income{}, fmt.Errorf("scan income: %w", err)
	}

	var err error
	if in.Amount, err = scanAmount(amount); err != nil {
		return core.Income{}, err
	}
	if in.Date, err = core.ParseDate(date); err != nil {
		return core.Income{}, err
	}
	in.RecurrenceType = core.RecurrenceType(recurrence)
	if in.RecurrenceEndDate, err = datePtr(endDate); err != nil {
		return core.Income{}, err
	}
	in.Description = stringPtr(description)
	return in, nil
}
