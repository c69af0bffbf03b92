// internal/store/accounts.go
package store

import (
	"context"

	"qbit-backend/internal/common/errors"
	"qbit-backend/internal/models"
)

// FindAccount loads an admin console account by username.
func (s *Store) FindAccount(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, COALESCE(email, ''), password, role
		FROM users
		WHERE username = $1`, username).Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Role)
	if isNoRows(err) {
		return nil, errors.NewNotFoundError("User not found")
	}
	if err != nil {
		return nil, wrap("find account", err)
	}
	return &u, nil
}

// EnsureAccount inserts the account unless the username already exists.
// created is false when nothing was written.
func (s *Store) EnsureAccount(ctx context.Context, u models.User) (created bool, err error) {
	role := u.Role
	if role == "" {
		role = models.DefaultUserRole
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password, role)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		ON CONFLICT (username) DO NOTHING`, u.Username, u.Email, u.Password, role)
	if err != nil {
		return false, wrap("ensure account", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrap("ensure account", err)
	}
	return n > 0, nil
}
