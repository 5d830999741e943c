package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nassets/internal/core"
)

func (r *Repository) CreateExpense(ctx context.Context, ex core.Expense) (core.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, title, amount, date, category, recurrence_type, recurrence_end_date, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.UserID, ex.Title, ex.Amount.String(), ex.Date.String(), nullString(ex.Category),
		string(ex.RecurrenceType), nullDate(ex.RecurrenceEndDate), nullString(ex.Description),
	)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense id: %w", err)
	}
	return r.GetExpense(ctx, ex.UserID, id)
}

func (r *Repository) GetExpense(ctx context.Context, userID, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, amount, date, category, recurrence_type, recurrence_end_date, description
		 FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	ex, err := scanExpense(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	return ex, err
}

func (r *Repository) ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, amount, date, category, recurrence_type, recurrence_end_date, description
		 FROM expenses WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]core.Expense, 0)
	for rows.Next() {
		ex, err := scanExpense(rows.Scan)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, ex)
	}
	return expenses, rows.Err()
}

func (r *Repository) UpdateExpense(ctx context.Context, userID, id int64, patch core.ExpensePatch) (core.Expense, error) {
	ex, err := r.GetExpense(ctx, userID, id)
	if err != nil {
		return core.Expense{}, err
	}
	patch.Apply(&ex)
	if err := ex.Validate(); err != nil {
		return core.Expense{}, err
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE expenses SET title = ?, amount = ?, date = ?, category = ?, recurrence_type = ?,
		 recurrence_end_date = ?, description = ?, updated_at = datetime('now')
		 WHERE id = ? AND user_id = ?`,
		ex.Title, ex.Amount.String(), ex.Date.String(), nullString(ex.Category), string(ex.RecurrenceType),
		nullDate(ex.RecurrenceEndDate), nullString(ex.Description), id, userID,
	)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	return ex, nil
}

func (r *Repository) DeleteExpense(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func scanExpense(scan func(dest ...any) error) (core.Expense, error) {
	var ex core.Expense
	var amount, date, recurrence string
	var category, endDate, description sql.NullString
	if err := scan(&ex.ID, &ex.UserID, &ex.Title, &amount, &date, &category, &recurrence, &endDate, &description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, err
		}
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}

	var err error
	if ex.Amount, err = scanAmount(amount); err != nil {
		return core.Expense{}, err
	}
	if ex.Date, err = core.ParseDate(date); err != nil {
		return core.Expense{}, err
	}
	ex.Category = stringPtr(category)
	ex.RecurrenceType = core.RecurrenceType(recurrence)
	if ex.RecurrenceEndDate, err = datePtr(endDate); err != nil {
		return core.Expense{}, err
	}
	ex.Description = stringPtr(description)
	return ex, nil
}
