package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Repository is the user store behind login, registration and premium access.
type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)
	PremiumUntil(ctx context.Context, userID int) (*time.Time, error)
	SetPremiumUntil(ctx context.Context, userID int, until time.Time) error
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

// GetByLogin returns id 0 and no error when the login is unknown.
func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"
	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", nil
	}
	if err != nil {
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresRepository) PremiumUntil(ctx context.Context, userID int) (*time.Time, error) {
	var until sql.NullTime
	query := "SELECT premium_until FROM users WHERE id=$1"
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&until); err != nil {
		return nil, err
	}
	if !until.Valid {
		return nil, nil
	}
	return &until.Time, nil
}

func (r *PostgresRepository) SetPremiumUntil(ctx context.Context, userID int, until time.Time) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET premium_until=$1 WHERE id=$2", until, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
