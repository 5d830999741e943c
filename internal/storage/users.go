package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nassets/internal/core"
)

// CreateUser inserts a new account. Returns core.ErrAlreadyExists when
// the email or username is taken.
func (r *Repository) CreateUser(ctx context.Context, email, username, hashedPassword string, fullName *string) (core.User, error) {
	var taken int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ? OR username = ?`,
		email, username,
	).Scan(&taken)
	if err != nil {
		return core.User{}, fmt.Errorf("check existing user: %w", err)
	}
	if taken > 0 {
		return core.User{}, core.ErrAlreadyExists
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, username, hashed_password, full_name) VALUES (?, ?, ?, ?)`,
		email, username, hashedPassword, nullString(fullName),
	)
	if err != nil {
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("user id: %w", err)
	}
	return r.UserByID(ctx, id)
}

func (r *Repository) UserByID(ctx context.Context, id int64) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, email, username, hashed_password, full_name, is_active FROM users WHERE id = ?`, id))
}

func (r *Repository) UserByUsername(ctx context.Context, username string) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, email, username, hashed_password, full_name, is_active FROM users WHERE username = ?`, username))
}

func (r *Repository) scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	var fullName sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.HashedPassword, &fullName, &u.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.FullName = stringPtr(fullName)
	return u, nil
}

// CreateSession stores an opaque bearer token for the user.
func (r *Repository) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		token, userID, expiresAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// UserByToken resolves a bearer token to its active, unexpired user.
// Returns core.ErrNotFound for unknown, expired or deactivated sessions.
func (r *Repository) UserByToken(ctx context.Context, token string, now time.Time) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT u.id, u.email, u.username, u.hashed_password, u.full_name, u.is_active, s.expires_at
		 FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE s.token = ?`, token)

	var u core.User
	var fullName sql.NullString
	var expiresAt string
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.HashedPassword, &fullName, &u.IsActive, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan session: %w", err)
	}

	exp, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return core.User{}, fmt.Errorf("parse session expiry: %w", err)
	}
	if !u.IsActive || now.After(exp) {
		return core.User{}, core.ErrNotFound
	}
	u.FullName = stringPtr(fullName)
	return u, nil
}

// DeleteSession revokes a bearer token. Deleting an unknown token is not
// an error.
func (r *Repository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
