package repo

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresDB(db), mock
}

func TestCreateUser(t *testing.T) {
	r, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id")).
		WithArgs("sparky", "s@example.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	id, err := r.CreateUser(context.Background(), "sparky", "s@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, 7, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByLogin(t *testing.T) {
	query := regexp.QuoteMeta("SELECT id, password FROM users WHERE login=$1")

	t.Run("found", func(t *testing.T) {
		r, mock := newMock(t)
		mock.ExpectQuery(query).WithArgs("sparky").
			WillReturnRows(sqlmock.NewRows([]string{"id", "password"}).AddRow(3, "hash"))
		id, hash, err := r.GetByLogin(context.Background(), "sparky")
		require.NoError(t, err)
		assert.Equal(t, 3, id)
		assert.Equal(t, "hash", hash)
	})
	t.Run("unknown login", func(t *testing.T) {
		r, mock := newMock(t)
		mock.ExpectQuery(query).WithArgs("ghost").WillReturnError(sql.ErrNoRows)
		id, _, err := r.GetByLogin(context.Background(), "ghost")
		require.NoError(t, err)
		assert.Zero(t, id)
	})
	t.Run("db error", func(t *testing.T) {
		r, mock := newMock(t)
		mock.ExpectQuery(query).WithArgs("sparky").WillReturnError(errors.New("conn reset"))
		_, _, err := r.GetByLogin(context.Background(), "sparky")
		assert.Error(t, err)
	})
}

func TestPremium(t *testing.T) {
	r, mock := newMock(t)
	until := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET premium_until=$1 WHERE id=$2")).
		WithArgs(until, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT premium_until FROM users WHERE id=$1")).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"premium_until"}).AddRow(until))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT premium_until FROM users WHERE id=$1")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"premium_until"}).AddRow(nil))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET premium_until=$1 WHERE id=$2")).
		WithArgs(until, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	require.NoError(t, r.SetPremiumUntil(ctx, 4, until))

	got, err := r.PremiumUntil(ctx, 4)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, until.Equal(*got))

	got, err = r.PremiumUntil(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, r.SetPremiumUntil(ctx, 99, until), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordCalculation(t *testing.T) {
	r, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO calculations")).
		WithArgs(sqlmock.AnyArg(), 2, "cable", 200, int64(12), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := r.RecordCalculation(context.Background(), Calculation{UserID: 2, Tool: "cable", Status: 200, Duration: 12 * time.Millisecond})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCalculations(t *testing.T) {
	r, mock := newMock(t)
	id := uuid.New()
	at := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM calculations WHERE user_id=$1 ORDER BY occurred_at DESC LIMIT $2")).
		WithArgs(2, 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "tool", "status", "duration_ms", "occurred_at"}).
			AddRow(id.String(), 2, "demand", 200, 3, at).
			AddRow(uuid.New().String(), 2, "cable", 400, 1, at.Add(-time.Hour)))

	got, err := r.ListCalculations(context.Background(), 2, 50)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, "demand", got[0].Tool)
	assert.Equal(t, 3*time.Millisecond, got[0].Duration)
	assert.Equal(t, 400, got[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
