// internal/store/reports.go
package store

import (
	"context"
	"database/sql"

	"qbit-backend/internal/common/errors"
	"qbit-backend/internal/models"
)

// ListReports returns all report requests newest first, with the assignee's full name resolved.
func (s *Store) ListReports(ctx context.Context) ([]models.ReportRequestView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.request_id, r.category, r.product, r.status, r.report, r.download,
		       COALESCE(u.first_name || ' ' || u.last_name, '')
		FROM report_requests r
		LEFT JOIN user_management u ON u.id = r.assigned_to_id
		ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, wrap("list reports", err)
	}
	defer rows.Close()

	reports := []models.ReportRequestView{}
	for rows.Next() {
		var v models.ReportRequestView
		if err := rows.Scan(&v.RequestID, &v.Category, &v.Product, &v.Status, &v.Report, &v.Download, &v.AssignedTo); err != nil {
			return nil, wrap("list reports", err)
		}
		v.Locked = v.AssignedTo != ""
		reports = append(reports, v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list reports", err)
	}
	return reports, nil
}

// CreateReport inserts r. assignee is a "First Last" name; when it matches a managed user
// the request is linked to them, otherwise it is stored unassigned.
func (s *Store) CreateReport(ctx context.Context, r models.ReportRequest, assignee string) error {
	if r.Status == "" {
		r.Status = models.ReportStatusUnassigned
	}

	return s.withTx(ctx, "create report", func(tx *sql.Tx) error {
		var assignedTo *int
		if first, last, ok := models.SplitFullName(assignee); ok {
			var id int
			err := tx.QueryRowContext(ctx, `
				SELECT id FROM user_management
				WHERE first_name = $1 AND last_name = $2
				ORDER BY id LIMIT 1`, first, last).Scan(&id)
			switch {
			case err == nil:
				assignedTo = &id
			case !isNoRows(err):
				return wrap("create report", err)
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO report_requests (request_id, category, product, status, report, download, assigned_to_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			r.RequestID, r.Category, r.Product, r.Status, r.Report, r.Download, assignedTo,
		)
		if err != nil {
			return wrap("create report", err)
		}
		return nil
	})
}

// AssignReport links the request to a managed user and marks it Assigned.
// Nothing changes when either side is missing.
func (s *Store) AssignReport(ctx context.Context, requestID string, userID int) error {
	return s.withTx(ctx, "assign report", func(tx *sql.Tx) error {
		var reportPK int
		err := tx.QueryRowContext(ctx, `
			SELECT id FROM report_requests WHERE request_id = $1 FOR UPDATE`, requestID).Scan(&reportPK)
		if isNoRows(err) {
			return errors.NewNotFoundError("ReportRequest not found")
		}
		if err != nil {
			return wrap("assign report", err)
		}

		var exists int
		err = tx.QueryRowContext(ctx, `
			SELECT 1 FROM user_management WHERE id = $1`, userID).Scan(&exists)
		if isNoRows(err) {
			return errors.NewNotFoundError(userNotFound)
		}
		if err != nil {
			return wrap("assign report", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE report_requests SET assigned_to_id = $1, status = $2 WHERE id = $3`,
			userID, models.ReportStatusAssigned, reportPK)
		if err != nil {
			return wrap("assign report", err)
		}
		return nil
	})
}
