// internal/store/users.go
package store

import (
	"context"

	"qbit-backend/internal/common/errors"
	"qbit-backend/internal/models"
)

const userNotFound = "User not found"

func (s *Store) ListUsers(ctx context.Context) ([]models.UserDetails, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, gender, dob, role, email, phone, is_active
		FROM user_management
		ORDER BY id`)
	if err != nil {
		return nil, wrap("list users", err)
	}
	defer rows.Close()

	users := []models.UserDetails{}
	for rows.Next() {
		var u models.UserDetails
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Gender, &u.DOB, &u.Role, &u.Email, &u.Phone, &u.IsActive); err != nil {
			return nil, wrap("list users", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list users", err)
	}
	return users, nil
}

// CreateUser inserts an active user. Password must already be hashed.
func (s *Store) CreateUser(ctx context.Context, u models.UserDetails) (int, error) {
	var id int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO user_management (first_name, last_name, gender, dob, role, email, phone, password, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		RETURNING id`,
		u.FirstName, u.LastName, u.Gender, u.DOB, u.Role, u.Email, u.Phone, u.Password,
	).Scan(&id)
	if err != nil {
		return 0, wrap("create user", err)
	}
	return id, nil
}

// UpdateUser overwrites the profile fields. The password is only replaced when non-empty.
func (s *Store) UpdateUser(ctx context.Context, id int, u models.UserDetails) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE user_management
		SET first_name = $1, last_name = $2, gender = $3, dob = $4, role = $5,
		    email = $6, phone = $7, password = COALESCE(NULLIF($8, ''), password)
		WHERE id = $9`,
		u.FirstName, u.LastName, u.Gender, u.DOB, u.Role, u.Email, u.Phone, u.Password, id,
	)
	if err != nil {
		return wrap("update user", err)
	}
	return requireAffected(res, "update user")
}

func (s *Store) DeleteUser(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM user_management WHERE id = $1`, id)
	if err != nil {
		return wrap("delete user", err)
	}
	return requireAffected(res, "delete user")
}

// ToggleUser flips is_active and returns the new value.
func (s *Store) ToggleUser(ctx context.Context, id int) (bool, error) {
	var active bool
	err := s.db.QueryRowContext(ctx, `
		UPDATE user_management
		SET is_active = NOT is_active
		WHERE id = $1
		RETURNING is_active`, id).Scan(&active)
	if isNoRows(err) {
		return false, errors.NewNotFoundError(userNotFound)
	}
	if err != nil {
		return false, wrap("toggle user", err)
	}
	return active, nil
}

// FindPhoneByEmail returns the phone number on file for a managed user, or "" when none is.
func (s *Store) FindPhoneByEmail(ctx context.Context, email string) (string, error) {
	var phone string
	err := s.db.QueryRowContext(ctx, `
		SELECT phone FROM user_management WHERE email = $1`, email).Scan(&phone)
	if isNoRows(err) {
		return "", nil
	}
	if err != nil {
		return "", wrap("find phone", err)
	}
	return phone, nil
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func requireAffected(res rowsAffected, operation string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrap(operation, err)
	}
	if n == 0 {
		return errors.NewNotFoundError(userNotFound)
	}
	return nil
}
