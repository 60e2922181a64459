package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Calculation is one recorded calculator call.
type Calculation struct {
	ID         uuid.UUID     `json:"id"`
	UserID     int           `json:"user_id"`
	Tool       string        `json:"tool"`
	Status     int           `json:"status"`
	Duration   time.Duration `json:"duration_ns"`
	OccurredAt time.Time     `json:"occurred_at"`
}

type HistoryRepository interface {
	RecordCalculation(ctx context.Context, c Calculation) error
	ListCalculations(ctx context.Context, userID, limit int) ([]Calculation, error)
}

// RecordCalculation stores c, assigning an id and timestamp when unset.
func (r *PostgresRepository) RecordCalculation(ctx context.Context, c Calculation) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.OccurredAt.IsZero() {
		c.OccurredAt = time.Now().UTC()
	}
	query := `INSERT INTO calculations (id, user_id, tool, status, duration_ms, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.UserID, c.Tool, c.Status, c.Duration.Milliseconds(), c.OccurredAt)
	return err
}

// ListCalculations returns the newest calls of a user first.
func (r *PostgresRepository) ListCalculations(ctx context.Context, userID, limit int) ([]Calculation, error) {
	query := `SELECT id, user_id, tool, status, duration_ms, occurred_at
		FROM calculations WHERE user_id=$1 ORDER BY occurred_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Calculation, 0, limit)
	for rows.Next() {
		var c Calculation
		var ms int64
		if err := rows.Scan(&c.ID, &c.UserID, &c.Tool, &c.Status, &ms, &c.OccurredAt); err != nil {
			return nil, err
		}
		c.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, c)
	}
	return out, rows.Err()
}
