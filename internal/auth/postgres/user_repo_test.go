// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depot-store/depot/internal/auth"
)

func storedUser() *auth.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &auth.User{
		ID:           ulid.Make(),
		EmailAddress: "dave@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_Create(t *testing.T) {
	t.Run("successful insert", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		user := storedUser()
		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(user.ID.String(), user.EmailAddress, user.PasswordHash,
				user.CreatedAt, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewUserRepository(mock)
		require.NoError(t, repo.Create(context.Background(), user))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrEmailTaken", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		user := storedUser()
		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(user.ID.String(), user.EmailAddress, user.PasswordHash,
				user.CreatedAt, user.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		repo := NewUserRepository(mock)
		require.ErrorIs(t, repo.Create(context.Background(), user), auth.ErrEmailTaken)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	t.Run("returns user", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		want := storedUser()
		rows := pgxmock.NewRows([]string{"id", "email_address", "password_digest", "created_at", "updated_at"}).
			AddRow(want.ID.String(), want.EmailAddress, want.PasswordHash, want.CreatedAt, want.UpdatedAt)
		mock.ExpectQuery(`SELECT id, email_address, password_digest`).
			WithArgs(want.EmailAddress).
			WillReturnRows(rows)

		repo := NewUserRepository(mock)
		got, err := repo.GetByEmail(context.Background(), want.EmailAddress)
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.PasswordHash, got.PasswordHash)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, email_address, password_digest`).
			WithArgs("ghost@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"id", "email_address", "password_digest", "created_at", "updated_at"}))

		repo := NewUserRepository(mock)
		_, err = repo.GetByEmail(context.Background(), "ghost@example.com")
		require.ErrorIs(t, err, auth.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	want := storedUser()
	rows := pgxmock.NewRows([]string{"id", "email_address", "password_digest", "created_at", "updated_at"}).
		AddRow(want.ID.String(), want.EmailAddress, want.PasswordHash, want.CreatedAt, want.UpdatedAt)
	mock.ExpectQuery(`SELECT id, email_address, password_digest`).
		WithArgs(want.ID.String()).
		WillReturnRows(rows)

	repo := NewUserRepository(mock)
	got, err := repo.GetByID(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.EmailAddress, got.EmailAddress)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	t.Run("updates hash", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectExec(`UPDATE users`).
			WithArgs(id.String(), "$argon2id$new").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := NewUserRepository(mock)
		require.NoError(t, repo.UpdatePassword(context.Background(), id, "$argon2id$new"))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows maps to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectExec(`UPDATE users`).
			WithArgs(id.String(), "$argon2id$new").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewUserRepository(mock)
		require.ErrorIs(t, repo.UpdatePassword(context.Background(), id, "$argon2id$new"), auth.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Delete(t *testing.T) {
	t.Run("deletes user", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectExec(`DELETE FROM users`).
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := NewUserRepository(mock)
		require.NoError(t, repo.Delete(context.Background(), id))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows maps to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectExec(`DELETE FROM users`).
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := NewUserRepository(mock)
		require.ErrorIs(t, repo.Delete(context.Background(), id), auth.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectExec(`DELETE FROM users`).
			WithArgs(id.String()).
			WillReturnError(errors.New("connection refused"))

		repo := NewUserRepository(mock)
		require.Error(t, repo.Delete(context.Background(), id))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
