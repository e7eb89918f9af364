package users

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/memoryengine/backend/internal/common"
	"github.com/memoryengine/backend/internal/server/models"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func userRows(u *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "name", "username", "password_hash", "role", "created_at", "updated_at"}).
		AddRow(u.ID, u.Email, u.Name, u.Username, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)
}

func TestPostgresRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	u := &models.User{
		ID: "u1", Email: "a@example.com", Name: "Ann", Username: "ann",
		PasswordHash: "hash", Role: models.RoleUser, CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(u.ID, u.Email, u.Name, u.Username, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	require.Equal(t, u, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	u := &models.User{ID: "u1", Email: "a@example.com", PasswordHash: "hash", Role: models.RoleUser, CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs("u1").
		WillReturnRows(userRows(u))

	got, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, u, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetByEmailCaseInsensitive(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	u := &models.User{ID: "u1", Email: "a@example.com", PasswordHash: "hash", Role: models.RoleUser, CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE LOWER(email) = LOWER($1)`)).
		WithArgs("A@Example.com").
		WillReturnRows(userRows(u))

	got, err := repo.GetByEmail(context.Background(), "A@Example.com")
	require.NoError(t, err)
	require.Equal(t, "a@example.com", got.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_UsernameTaken(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WithArgs("ann", "u1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	taken, err := repo.UsernameTaken(context.Background(), "ann", "u1")
	require.NoError(t, err)
	require.True(t, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_UpdateNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	u := &models.User{ID: "missing", Name: "Ann", Username: "ann", UpdatedAt: now}

	mock.ExpectExec(`UPDATE users`).
		WithArgs(u.Name, u.Username, u.UpdatedAt, u.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), u)
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "u1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
