package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/energydash/energydash-go/internal/model"
)

func newUserRepoWithMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db), mock
}

func TestUserCreate_Success(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectExec(`^INSERT INTO users \(email, username, hashed_password\) VALUES \(\?, \?, \?\)$`).
		WithArgs("alice@example.com", "alice", "hash").
		WillReturnResult(sqlmock.NewResult(5, 1))

	u := &model.User{Email: "alice@example.com", Username: "alice", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, int64(5), u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreate_DuplicateKeys(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    error
	}{
		{"email", "Duplicate entry 'username@example.com' for key 'users.uq_users_email'", ErrDuplicateEmail},
		{"username", "Duplicate entry 'alice' for key 'users.uq_users_username'", ErrDuplicateUsername},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newUserRepoWithMock(t)
			mock.ExpectExec(`INSERT INTO users`).
				WillReturnError(&mysql.MySQLError{Number: mysqlErrDuplicateEntry, Message: tt.message})

			err := repo.Create(context.Background(), &model.User{Email: "username@example.com", Username: "alice"})
			assert.ErrorIs(t, err, tt.want)
			assert.NotErrorIs(t, err, ErrStorage)
		})
	}
}

func TestUserCreate_StorageError(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	mock.ExpectExec(`INSERT INTO users`).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &model.User{})
	assert.ErrorIs(t, err, ErrStorage)
	assert.Contains(t, err.Error(), "db down")
}

func TestUserCreate_OtherMySQLError(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&mysql.MySQLError{Number: 1146, Message: "Table 'users' doesn't exist"})

	assert.ErrorIs(t, repo.Create(context.Background(), &model.User{}), ErrStorage)
}

func TestUserExists(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`^SELECT EXISTS\(SELECT 1 FROM users WHERE email = \?\)$`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`^SELECT EXISTS\(SELECT 1 FROM users WHERE username = \?\)$`).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	found, err := repo.EmailExists(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.UsernameExists(context.Background(), "bob")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserExists_StorageError(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnError(errors.New("timeout"))

	_, err := repo.EmailExists(context.Background(), "x@y.z")
	assert.ErrorIs(t, err, ErrStorage)
}

func TestUserGetByEmail_Found(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`^SELECT id, email, username, hashed_password, created_at FROM users WHERE email = \?$`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "username", "hashed_password", "created_at"}).
			AddRow(int64(1), "alice@example.com", "alice", "hash", created))

	u, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, &model.User{ID: 1, Email: "alice@example.com", Username: "alice", PasswordHash: "hash", CreatedAt: created}, u)
}

func TestUserGetByID_NotFound(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)

	mock.ExpectQuery(`FROM users WHERE id = \?`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "username", "hashed_password", "created_at"}))

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserGetByID_StorageError(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	mock.ExpectQuery(`FROM users WHERE id = \?`).WillReturnError(sql.ErrConnDone)

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrStorage)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestDuplicateKeyError_IgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, duplicateKeyError(nil))
	assert.Nil(t, duplicateKeyError(errors.New("Duplicate entry")))
	assert.Nil(t, duplicateKeyError(&mysql.MySQLError{Number: 1452, Message: "foreign key"}))
}
