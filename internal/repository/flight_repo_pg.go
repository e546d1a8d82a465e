package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alizada/flightbook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	GetByNumber(ctx context.Context, flightNumber string) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, id int64, update FlightUpdate) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
}

// FlightUpdate is a partial catalog edit; nil fields are left out of the
// UPDATE entirely. Seat columns in particular are written only when the
// caller supplies them, so an edit of unrelated fields cannot overwrite a
// reservation that committed after the caller read the flight.
type FlightUpdate struct {
	Airline        *string
	FlightNumber   *string
	Origin         *string
	Destination    *string
	DepartureTime  *time.Time
	ArrivalTime    *time.Time
	PriceCents     *int64
	TotalSeats     *int
	AvailableSeats *int
	Status         *domain.FlightStatus
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, airline, flight_number, origin, destination, departure_time, arrival_time, price_cents, total_seats, available_seats, status, created_at, updated_at`

var flightSortColumns = map[string]string{
	"departure_time": "departure_time",
	"arrival_time":   "arrival_time",
	"price":          "price_cents",
	"airline":        "airline",
}

func (r *PGFlightRepository) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Origin != "" {
		conds = append(conds, "origin ILIKE '%' || "+arg(filter.Origin)+" || '%'")
	}
	if filter.Destination != "" {
		conds = append(conds, "destination ILIKE '%' || "+arg(filter.Destination)+" || '%'")
	}
	if filter.Airline != "" {
		conds = append(conds, "airline ILIKE '%' || "+arg(filter.Airline)+" || '%'")
	}
	if filter.DepartureDate != nil {
		d := *filter.DepartureDate
		start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		conds = append(conds, "departure_time >= "+arg(start))
		conds = append(conds, "departure_time < "+arg(start.AddDate(0, 0, 1)))
	}
	if filter.MinPriceCents != nil {
		conds = append(conds, "price_cents >= "+arg(*filter.MinPriceCents))
	}
	if filter.MaxPriceCents != nil {
		conds = append(conds, "price_cents <= "+arg(*filter.MaxPriceCents))
	}

	query := `SELECT ` + flightColumns + ` FROM flights`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	sortCol, ok := flightSortColumns[filter.SortBy]
	if !ok {
		sortCol = "departure_time"
	}
	query += " ORDER BY " + sortCol
	if filter.SortDesc {
		query += " DESC"
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id = $1`, id)
	f, err := scanFlight(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("flight %d: %w", id, domain.ErrNotFound)
	}
	return f, err
}

func (r *PGFlightRepository) GetByNumber(ctx context.Context, flightNumber string) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE flight_number = $1`, flightNumber)
	f, err := scanFlight(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("flight %s: %w", flightNumber, domain.ErrNotFound)
	}
	return f, err
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	return r.db.QueryRow(ctx, `INSERT INTO flights (airline, flight_number, origin, destination, departure_time, arrival_time, price_cents, total_seats, available_seats, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		flight.Airline, flight.FlightNumber, flight.Origin, flight.Destination, flight.DepartureTime, flight.ArrivalTime,
		flight.PriceCents, flight.TotalSeats, flight.AvailableSeats, flight.Status).
		Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt)
}

func (r *PGFlightRepository) Update(ctx context.Context, id int64, update FlightUpdate) (*domain.Flight, error) {
	var (
		sets []string
		args []any
	)
	args = append(args, id)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Airline != nil {
		set("airline", *update.Airline)
	}
	if update.FlightNumber != nil {
		set("flight_number", *update.FlightNumber)
	}
	if update.Origin != nil {
		set("origin", *update.Origin)
	}
	if update.Destination != nil {
		set("destination", *update.Destination)
	}
	if update.DepartureTime != nil {
		set("departure_time", *update.DepartureTime)
	}
	if update.ArrivalTime != nil {
		set("arrival_time", *update.ArrivalTime)
	}
	if update.PriceCents != nil {
		set("price_cents", *update.PriceCents)
	}
	if update.TotalSeats != nil {
		set("total_seats", *update.TotalSeats)
	}
	if update.AvailableSeats != nil {
		set("available_seats", *update.AvailableSeats)
	}
	if update.Status != nil {
		set("status", *update.Status)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = now()")

	query := `UPDATE flights SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + flightColumns
	f, err := scanFlight(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("flight %d: %w", id, domain.ErrNotFound)
	}
	return f, err
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("flight %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.Airline, &f.FlightNumber, &f.Origin, &f.Destination, &f.DepartureTime, &f.ArrivalTime,
		&f.PriceCents, &f.TotalSeats, &f.AvailableSeats, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// IsUniqueViolation reports whether err is the unique-constraint error raised
// for a duplicate flight_number or email.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ FlightRepository = (*PGFlightRepository)(nil)
