package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qbit-backend/internal/common/errors"
	"qbit-backend/internal/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func createValidUser() models.UserDetails {
	return models.UserDetails{
		FirstName: "Jane",
		LastName:  "Doe",
		Gender:    "female",
		DOB:       "1990-04-12",
		Role:      "analyst",
		Email:     "jane@example.com",
		Phone:     "+27820000000",
		Password:  "$2a$10$hash",
	}
}

// ==========================
// Schema Tests
// ==========================

func TestMigrate(t *testing.T) {
	s, mock := newMockStore(t)
	for range schemaStatements {
		mock.ExpectExec(`CREATE`).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, Migrate(context.Background(), s.DB()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_StopsOnFailure(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).WillReturnError(stderrors.New("permission denied"))

	err := Migrate(context.Background(), s.DB())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statement 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Account & Form Tests
// ==========================

func TestEnsureAccount(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("admin", "", "hash", "admin").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("admin", "", "hash", "admin").
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := s.EnsureAccount(context.Background(), models.User{Username: "admin", Password: "hash", Role: "admin"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.EnsureAccount(context.Background(), models.User{Username: "admin", Password: "hash", Role: "admin"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAccount(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password", "role"}).
			AddRow(1, "admin", "", "$2a$10$hash", "admin"))
	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	u, err := s.FindAccount(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)
	assert.Equal(t, "admin", u.Role)

	_, err = s.FindAccount(context.Background(), "nobody")
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateForm_RollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO user_forms`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "user_forms_email_key"})
	mock.ExpectRollback()

	_, err := s.CreateForm(context.Background(), models.UserForm{Email: "jane@example.com"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidArgument))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateForm_Success(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO user_forms`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit()

	id, err := s.CreateForm(context.Background(), models.UserForm{Email: "jane@example.com", Password: "hash"})
	require.NoError(t, err)
	assert.Equal(t, 3, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindFormByEmail(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`FROM user_forms WHERE email = \$1`).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "role", "email", "password"}).
			AddRow(7, "Jane", "Doe", "admin", "jane@example.com", "$2a$10$hash"))
	mock.ExpectQuery(`FROM user_forms WHERE email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	f, err := s.FindFormByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, 7, f.ID)
	assert.Equal(t, "admin", f.Role)

	_, err = s.FindFormByEmail(context.Background(), "ghost@example.com")
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// User Management Tests
// ==========================

func TestListUsers(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT (.+) FROM user_management`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "gender", "dob", "role", "email", "phone", "is_active"}).
			AddRow(1, "Jane", "Doe", "female", "1990-04-12", "analyst", "jane@example.com", "+2782", true).
			AddRow(2, "John", "Roe", "male", "1988-01-01", "viewer", "john@example.com", "+2783", false))

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Jane Doe", users[0].FullName())
	assert.False(t, users[1].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser(t *testing.T) {
	s, mock := newMockStore(t)
	u := createValidUser()
	mock.ExpectQuery(`INSERT INTO user_management`).
		WithArgs(u.FirstName, u.LastName, u.Gender, u.DOB, u.Role, u.Email, u.Phone, u.Password).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	id, err := s.CreateUser(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, 11, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAndDeleteUser_NotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`UPDATE user_management`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM user_management WHERE id = \$1`).WithArgs(99).WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateUser(context.Background(), 99, createValidUser())
	require.Error(t, err)
	assert.Equal(t, "User not found", errors.AsStandardError(err).Message)

	err = s.DeleteUser(context.Background(), 99)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleUser(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`UPDATE user_management SET is_active = NOT is_active`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"is_active"}).AddRow(false))
	mock.ExpectQuery(`UPDATE user_management SET is_active = NOT is_active`).
		WithArgs(2).
		WillReturnError(sql.ErrNoRows)

	active, err := s.ToggleUser(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, active)

	_, err = s.ToggleUser(context.Background(), 2)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindPhoneByEmail(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT phone FROM user_management`).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"phone"}).AddRow("+27820000000"))
	mock.ExpectQuery(`SELECT phone FROM user_management`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	phone, err := s.FindPhoneByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "+27820000000", phone)

	phone, err = s.FindPhoneByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, phone)
}

// ==========================
// Report Request Tests
// ==========================

func TestListReports(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`FROM report_requests r LEFT JOIN user_management u (.+) ORDER BY r.created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"request_id", "category", "product", "status", "report", "download", "assigned"}).
			AddRow("REQ_office_42", "office", "Chairs", "Assigned", "", false, "Jane Doe").
			AddRow("RPT-1", "tech", "Laptops", "Unassigned", "", false, ""))

	reports, err := s.ListReports(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.True(t, reports[0].Locked)
	assert.Equal(t, "Jane Doe", reports[0].AssignedTo)
	assert.False(t, reports[1].Locked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReport(t *testing.T) {
	tests := []struct {
		name     string
		assignee string
		setup    func(mock sqlmock.Sqlmock)
	}{
		{
			name:     "resolves full name",
			assignee: "Jane Doe",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id FROM user_management WHERE first_name = \$1 AND last_name = \$2`).
					WithArgs("Jane", "Doe").
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
				mock.ExpectExec(`INSERT INTO report_requests`).
					WithArgs("RPT-9", "tech", "Laptops", "Unassigned", "", false, 4).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name:     "unknown name stays unassigned",
			assignee: "Nobody Here",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id FROM user_management`).
					WithArgs("Nobody", "Here").
					WillReturnError(sql.ErrNoRows)
				mock.ExpectExec(`INSERT INTO report_requests`).
					WithArgs("RPT-9", "tech", "Laptops", "Unassigned", "", false, nil).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name:     "single-word name skips lookup",
			assignee: "Jane",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO report_requests`).
					WithArgs("RPT-9", "tech", "Laptops", "Unassigned", "", false, nil).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			mock.ExpectBegin()
			tt.setup(mock)
			mock.ExpectCommit()

			err := s.CreateReport(context.Background(), models.ReportRequest{
				RequestID: "RPT-9", Category: "tech", Product: "Laptops", CreatedAt: time.Now(),
			}, tt.assignee)
			require.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAssignReport(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(mock sqlmock.Sqlmock)
		wantCode    errors.ErrorCode
		wantMessage string
	}{
		{
			name: "success",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id FROM report_requests WHERE request_id = \$1 FOR UPDATE`).
					WithArgs("RPT-1").
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
				mock.ExpectQuery(`SELECT 1 FROM user_management WHERE id = \$1`).
					WithArgs(4).
					WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
				mock.ExpectExec(`UPDATE report_requests SET assigned_to_id = \$1, status = \$2 WHERE id = \$3`).
					WithArgs(4, "Assigned", 1).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "unknown report",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id FROM report_requests`).
					WithArgs("RPT-1").
					WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			wantCode:    errors.ErrCodeNotFound,
			wantMessage: "ReportRequest not found",
		},
		{
			name: "unknown user leaves report untouched",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id FROM report_requests`).
					WithArgs("RPT-1").
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
				mock.ExpectQuery(`SELECT 1 FROM user_management`).
					WithArgs(4).
					WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			wantCode:    errors.ErrCodeNotFound,
			wantMessage: "User not found",
		},
		{
			name: "commit failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id FROM report_requests`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
				mock.ExpectQuery(`SELECT 1 FROM user_management`).
					WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
				mock.ExpectExec(`UPDATE report_requests`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit().WillReturnError(stderrors.New("connection reset"))
			},
			wantCode: errors.ErrCodeStoreError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			mock.ExpectBegin()
			tt.setup(mock)

			err := s.AssignReport(context.Background(), "RPT-1", 4)
			if tt.wantCode == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, tt.wantCode))
				if tt.wantMessage != "" {
					assert.Equal(t, tt.wantMessage, errors.AsStandardError(err).Message)
				}
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
