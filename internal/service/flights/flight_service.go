package flights

import (
	"context"
	"fmt"
	"time"

	"github.com/alizada/flightbook/internal/domain"
	"github.com/alizada/flightbook/internal/repository"
)

type FlightUseCase interface {
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	Update(ctx context.Context, id int64, input UpdateFlightInput) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
}

type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache Cache
}

type CreateFlightInput struct {
	Airline       string
	FlightNumber  string
	Origin        string
	Destination   string
	DepartureTime time.Time
	ArrivalTime   time.Time
	PriceCents    int64
	TotalSeats    int
}

// UpdateFlightInput is a partial update; nil fields keep their current value.
// AvailableSeats here is the administrative override described in the flight
// catalog contract, not a booking-driven mutation.
type UpdateFlightInput struct {
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

func NewFlightService(repo repository.FlightRepository, cache Cache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

// Search hits the cache only for the unfiltered list; filtered queries go to
// the database every time.
func (s *FlightService) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	if s.cache != nil && filter.Empty() {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && filter.Empty() {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	if input.Airline == "" || input.FlightNumber == "" || input.Origin == "" || input.Destination == "" {
		return nil, fmt.Errorf("airline, flight number, origin and destination are required: %w", domain.ErrInvalidInput)
	}
	if input.TotalSeats < 1 {
		return nil, fmt.Errorf("total seats must be at least 1: %w", domain.ErrInvalidInput)
	}
	if !input.ArrivalTime.After(input.DepartureTime) {
		return nil, fmt.Errorf("arrival must be after departure: %w", domain.ErrInvalidInput)
	}
	if existing, err := s.repo.GetByNumber(ctx, input.FlightNumber); err == nil && existing != nil {
		return nil, fmt.Errorf("flight number %s already exists: %w", input.FlightNumber, domain.ErrInvalidInput)
	}

	flight := &domain.Flight{
		Airline:        input.Airline,
		FlightNumber:   input.FlightNumber,
		Origin:         input.Origin,
		Destination:    input.Destination,
		DepartureTime:  input.DepartureTime,
		ArrivalTime:    input.ArrivalTime,
		PriceCents:     input.PriceCents,
		TotalSeats:     input.TotalSeats,
		AvailableSeats: input.TotalSeats,
		Status:         domain.FlightStatusScheduled,
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("flight number %s already exists: %w", input.FlightNumber, domain.ErrInvalidInput)
		}
		return nil, err
	}

	s.invalidate(ctx)
	return flight, nil
}

// Update forwards only the supplied fields to the repository. Seat columns
// never ride along on an edit that does not mention them; the counters belong
// to the reservation path unless an admin overrides them explicitly.
func (s *FlightService) Update(ctx context.Context, id int64, input UpdateFlightInput) (*domain.Flight, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	total := current.TotalSeats
	if input.TotalSeats != nil {
		total = *input.TotalSeats
	}
	if total < 1 {
		return nil, fmt.Errorf("total seats must be at least 1: %w", domain.ErrInvalidInput)
	}
	available := current.AvailableSeats
	if input.AvailableSeats != nil {
		available = *input.AvailableSeats
	}
	if available < 0 || available > total {
		return nil, fmt.Errorf("available seats must stay within 0..%d: %w", total, domain.ErrInvalidInput)
	}

	updated, err := s.repo.Update(ctx, id, repository.FlightUpdate{
		Airline:        input.Airline,
		FlightNumber:   input.FlightNumber,
		Origin:         input.Origin,
		Destination:    input.Destination,
		DepartureTime:  input.DepartureTime,
		ArrivalTime:    input.ArrivalTime,
		PriceCents:     input.PriceCents,
		TotalSeats:     input.TotalSeats,
		AvailableSeats: input.AvailableSeats,
		Status:         input.Status,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("flight number already exists: %w", domain.ErrInvalidInput)
		}
		return nil, err
	}

	s.invalidate(ctx)
	return updated, nil
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
}

var _ FlightUseCase = (*FlightService)(nil)
