package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/alizada/flightbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the seat
// primitives below can run standalone or inside a reservation transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// tryReserveSeats is the atomic check-and-decrement: the availability test
// and the write are one conditional UPDATE, so concurrent attempts against
// the same flight serialize on the row and can never both pass a stale check.
// Attempts against different flights touch different rows and do not contend.
func tryReserveSeats(ctx context.Context, q querier, flightID int64, n int) error {
	cmd, err := q.Exec(ctx, `UPDATE flights SET available_seats = available_seats - $2, updated_at = now()
		WHERE id = $1 AND status <> $3 AND available_seats >= $2`,
		flightID, n, domain.FlightStatusCancelled)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	var status domain.FlightStatus
	err = q.QueryRow(ctx, `SELECT status FROM flights WHERE id = $1`, flightID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("flight %d: %w", flightID, domain.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if status == domain.FlightStatusCancelled {
		return fmt.Errorf("flight %d is cancelled: %w", flightID, domain.ErrNotFound)
	}
	return domain.ErrInsufficientSeats
}

// releaseSeats is the atomic bounded increment. A release that would push
// available_seats past total_seats means the counters were already corrupted
// somewhere else, so it fails instead of widening the damage.
func releaseSeats(ctx context.Context, q querier, flightID int64, n int) error {
	cmd, err := q.Exec(ctx, `UPDATE flights SET available_seats = available_seats + $2, updated_at = now()
		WHERE id = $1 AND available_seats + $2 <= total_seats`,
		flightID, n)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM flights WHERE id = $1)`, flightID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("flight %d: %w", flightID, domain.ErrNotFound)
	}
	return fmt.Errorf("releasing %d seats on flight %d would exceed capacity: %w", n, flightID, domain.ErrConflict)
}
