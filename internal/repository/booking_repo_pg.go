package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/alizada/flightbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	// CreateWithReservation reserves booking.SeatCount seats on the flight and
	// inserts the ledger row in one transaction: both happen or neither does.
	CreateWithReservation(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByAccount(ctx context.Context, accountID int64) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	// TransitionWithRelease moves the booking to the given status, guarded by
	// the set of statuses the caller observed, and optionally releases the
	// booking's seats in the same transaction.
	TransitionWithRelease(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus, release bool) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, flight_id, account_id, seat_count, status, created_at, updated_at`

func (r *PGBookingRepository) CreateWithReservation(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tryReserveSeats(ctx, tx, booking.FlightID, booking.SeatCount); err != nil {
		return err
	}

	booking.Status = domain.BookingStatusPending
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (flight_id, account_id, seat_count, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		booking.FlightID, booking.AccountID, booking.SeatCount, booking.Status).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	return b, err
}

func (r *PGBookingRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE account_id = $1 ORDER BY created_at DESC`, accountID)
}

func (r *PGBookingRepository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`)
}

func (r *PGBookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) TransitionWithRelease(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus, release bool) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	row := tx.QueryRow(ctx, `UPDATE bookings SET status = $2, updated_at = now()
		WHERE id = $1 AND status = ANY($3) RETURNING `+bookingColumns, id, to, allowed)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// Lost a race or the booking is gone; re-read to tell which.
		current, readErr := scanBooking(tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
		if errors.Is(readErr, pgx.ErrNoRows) {
			return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
		}
		if readErr != nil {
			return nil, readErr
		}
		return nil, fmt.Errorf("booking %d is %s: %w", id, current.Status, domain.ErrInvalidTransition)
	}
	if err != nil {
		return nil, err
	}

	if release {
		if err := releaseSeats(ctx, tx, b.FlightID, b.SeatCount); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.FlightID, &b.AccountID, &b.SeatCount, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
