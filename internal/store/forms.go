// internal/store/forms.go
package store

import (
	"context"
	"database/sql"

	"qbit-backend/internal/common/errors"
	"qbit-backend/internal/models"
)

// CreateForm stores a registration. Password must already be hashed.
func (s *Store) CreateForm(ctx context.Context, f models.UserForm) (int, error) {
	var id int
	err := s.withTx(ctx, "create form", func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO user_forms (
				first_name, middle_name, last_name, gender, dob, national_id, role,
				email, phone, street, city, state, postal_code, country, password
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING id`,
			f.FirstName, f.MiddleName, f.LastName, f.Gender, f.DOB, f.NationalID, f.Role,
			f.Email, f.Phone, f.Street, f.City, f.State, f.PostalCode, f.Country, f.Password,
		).Scan(&id)
		if err != nil {
			return wrap("create form", err)
		}
		return nil
	})
	return id, err
}

// FindFormByEmail returns the registration used for login.
func (s *Store) FindFormByEmail(ctx context.Context, email string) (*models.UserForm, error) {
	var f models.UserForm
	err := s.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(role, ''),
		       email, COALESCE(password, '')
		FROM user_forms
		WHERE email = $1`, email).Scan(&f.ID, &f.FirstName, &f.LastName, &f.Role, &f.Email, &f.Password)
	if isNoRows(err) {
		return nil, errors.NewNotFoundError("User not found")
	}
	if err != nil {
		return nil, wrap("find form", err)
	}
	return &f, nil
}
