// internal/store/store.go
package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/lib/pq"

	"qbit-backend/internal/common/errors"
)

// Store is the SQL repository over users, user_forms, user_management and report_requests.
// It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sql.DB { return s.db }

// withTx runs fn inside a transaction, rolling back when fn or the commit fails.
func (s *Store) withTx(ctx context.Context, operation string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStoreError(operation, fmt.Errorf("begin transaction: %w", err))
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return errors.NewStoreError(operation, fmt.Errorf("commit: %w", err))
	}
	return nil
}

const uniqueViolation = "23505"

// wrap converts driver errors into the taxonomy.
func wrap(operation string, err error) error {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return errors.NewInvalidArgumentError(
			fmt.Sprintf("duplicate value violates unique constraint %q", pqErr.Constraint),
			pqErr.Detail,
		)
	}
	return errors.NewStoreError(operation, err)
}

func isNoRows(err error) bool {
	return stderrors.Is(err, sql.ErrNoRows)
}
