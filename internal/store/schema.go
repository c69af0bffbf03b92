// internal/store/schema.go
package store

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(100) UNIQUE NOT NULL,
		email VARCHAR(120),
		password VARCHAR(100) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'viewer'
	)`,
	`CREATE TABLE IF NOT EXISTS user_forms (
		id SERIAL PRIMARY KEY,
		first_name VARCHAR(100),
		middle_name VARCHAR(100),
		last_name VARCHAR(100),
		gender VARCHAR(10),
		dob VARCHAR(20),
		national_id VARCHAR(50),
		role VARCHAR(50),
		email VARCHAR(100) UNIQUE,
		phone VARCHAR(20),
		street VARCHAR(200),
		city VARCHAR(100),
		state VARCHAR(100),
		postal_code VARCHAR(20),
		country VARCHAR(100),
		password VARCHAR(200)
	)`,
	`CREATE TABLE IF NOT EXISTS user_management (
		id SERIAL PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		gender VARCHAR(10) NOT NULL,
		dob VARCHAR(20) NOT NULL,
		role VARCHAR(20) NOT NULL,
		email VARCHAR(120) UNIQUE NOT NULL,
		phone VARCHAR(20) NOT NULL,
		password VARCHAR(100) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS report_requests (
		id SERIAL PRIMARY KEY,
		request_id VARCHAR(50) UNIQUE NOT NULL,
		category VARCHAR(50) NOT NULL,
		product VARCHAR(100) NOT NULL DEFAULT '',
		status VARCHAR(50) NOT NULL DEFAULT 'Unassigned',
		report VARCHAR(100) NOT NULL DEFAULT '',
		download BOOLEAN NOT NULL DEFAULT FALSE,
		assigned_to_id INTEGER REFERENCES user_management(id) ON DELETE SET NULL,
		created_at TIMESTAMP NOT NULL DEFAULT (NOW() AT TIME ZONE 'utc')
	)`,
	`CREATE INDEX IF NOT EXISTS idx_report_requests_created_at ON report_requests (created_at DESC)`,
}

// Migrate creates all tables that do not exist yet. It is safe to run repeatedly.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d failed: %w", i+1, err)
		}
	}
	return nil
}
