package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

// CreateUser maps a unique email violation to domain.ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, cred domain.Credentials) error {
	const q = `
		INSERT INTO users (id, email, full_name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`

	u := cred.User
	_, err := s.db.ExecContext(ctx, q, u.ID, u.Email, u.FullName, cred.PasswordHash, formatTime(u.CreatedAt))
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return domain.Unavailable("sqlite: create user", err)
	}
	return nil
}

// UserByEmail loads the user with their password hash.
func (s *Store) UserByEmail(ctx context.Context, email string) (domain.Credentials, error) {
	const q = `SELECT id, email, full_name, created_at, password_hash FROM users WHERE email = ?`

	var cred domain.Credentials
	user, err := scanUser(s.db.QueryRowContext(ctx, q, email), &cred.PasswordHash)
	if err != nil {
		return domain.Credentials{}, err
	}
	cred.User = user
	return cred, nil
}

// UserByID loads the public user record.
func (s *Store) UserByID(ctx context.Context, id string) (domain.User, error) {
	const q = `SELECT id, email, full_name, created_at FROM users WHERE id = ?`
	return scanUser(s.db.QueryRowContext(ctx, q, id))
}

func scanUser(row scanner, extra ...any) (domain.User, error) {
	var u domain.User
	var createdAt string

	dest := append([]any{&u.ID, &u.Email, &u.FullName, &createdAt}, extra...)
	err := row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, domain.Unavailable("sqlite: get user", err)
	}

	u.CreatedAt, err = parseRFC3339(createdAt)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
