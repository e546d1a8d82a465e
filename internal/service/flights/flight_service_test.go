package flights

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alizada/flightbook/internal/domain"
	"github.com/alizada/flightbook/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByNumber(ctx context.Context, flightNumber string) (*domain.Flight, error) {
	args := m.Called(ctx, flightNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Update(ctx context.Context, id int64, update repository.FlightUpdate) (*domain.Flight, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	args := m.Called(ctx, flights)
	return args.Error(0)
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func sampleFlights() []domain.Flight {
	return []domain.Flight{
		{ID: 1, Airline: "AZAL", FlightNumber: "J2-101", Origin: "GYD", Destination: "IST", TotalSeats: 100, AvailableSeats: 50},
	}
}

func TestFlightService_Search_CacheHit(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)
	ctx := context.Background()

	mockCache.On("GetFlights", ctx).Return(sampleFlights(), nil).Once()

	flights, err := service.Search(ctx, domain.FlightFilter{})
	assert.NoError(t, err)
	assert.Len(t, flights, 1)
	mockRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	mockCache.AssertExpectations(t)
}

func TestFlightService_Search_CacheMissFallsThrough(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)
	ctx := context.Background()

	mockCache.On("GetFlights", ctx).Return(nil, nil).Once()
	mockRepo.On("Search", ctx, domain.FlightFilter{}).Return(sampleFlights(), nil).Once()
	mockCache.On("SetFlights", ctx, sampleFlights()).Return(nil).Once()

	flights, err := service.Search(ctx, domain.FlightFilter{})
	assert.NoError(t, err)
	assert.Len(t, flights, 1)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestFlightService_Search_FilteredBypassesCache(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)
	ctx := context.Background()

	filter := domain.FlightFilter{Origin: "GYD"}
	mockRepo.On("Search", ctx, filter).Return(sampleFlights(), nil).Once()

	flights, err := service.Search(ctx, filter)
	assert.NoError(t, err)
	assert.Len(t, flights, 1)
	mockCache.AssertNotCalled(t, "GetFlights", mock.Anything)
	mockCache.AssertNotCalled(t, "SetFlights", mock.Anything, mock.Anything)
}

func TestFlightService_Create_SetsAvailableToTotal(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)
	ctx := context.Background()

	mockRepo.On("GetByNumber", ctx, "J2-101").Return(nil, domain.ErrNotFound).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Flight")).Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	departure := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	flight, err := service.Create(ctx, CreateFlightInput{
		Airline:       "AZAL",
		FlightNumber:  "J2-101",
		Origin:        "GYD",
		Destination:   "IST",
		DepartureTime: departure,
		ArrivalTime:   departure.Add(3 * time.Hour),
		PriceCents:    12500,
		TotalSeats:    150,
	})

	assert.NoError(t, err)
	assert.Equal(t, 150, flight.AvailableSeats)
	assert.Equal(t, domain.FlightStatusScheduled, flight.Status)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestFlightService_Create_Validation(t *testing.T) {
	service := NewFlightService(&MockFlightRepository{}, nil)
	ctx := context.Background()
	departure := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	_, err := service.Create(ctx, CreateFlightInput{
		Airline: "AZAL", FlightNumber: "J2-101", Origin: "GYD", Destination: "IST",
		DepartureTime: departure, ArrivalTime: departure.Add(time.Hour), TotalSeats: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.Create(ctx, CreateFlightInput{
		Airline: "AZAL", FlightNumber: "J2-101", Origin: "GYD", Destination: "IST",
		DepartureTime: departure, ArrivalTime: departure.Add(-time.Hour), TotalSeats: 10,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.Create(ctx, CreateFlightInput{FlightNumber: "J2-101"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFlightService_Create_DuplicateNumber(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil)
	ctx := context.Background()
	departure := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	mockRepo.On("GetByNumber", ctx, "J2-101").Return(&sampleFlights()[0], nil).Once()

	_, err := service.Create(ctx, CreateFlightInput{
		Airline: "AZAL", FlightNumber: "J2-101", Origin: "GYD", Destination: "IST",
		DepartureTime: departure, ArrivalTime: departure.Add(time.Hour), TotalSeats: 10,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFlightService_Update_SeatOverrideBounds(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil)
	ctx := context.Background()

	current := &domain.Flight{ID: 1, Airline: "AZAL", FlightNumber: "J2-101", Origin: "GYD", Destination: "IST",
		TotalSeats: 100, AvailableSeats: 40, Status: domain.FlightStatusScheduled}
	mockRepo.On("GetByID", ctx, int64(1)).Return(current, nil)

	over := 120
	_, err := service.Update(ctx, 1, UpdateFlightInput{AvailableSeats: &over})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)

	valid := 80
	overridden := &domain.Flight{ID: 1, Airline: "AZAL", FlightNumber: "J2-101", Origin: "GYD", Destination: "IST",
		TotalSeats: 100, AvailableSeats: 80, Status: domain.FlightStatusScheduled}
	mockRepo.On("Update", ctx, int64(1), repository.FlightUpdate{AvailableSeats: &valid}).Return(overridden, nil).Once()
	flight, err := service.Update(ctx, 1, UpdateFlightInput{AvailableSeats: &valid})
	assert.NoError(t, err)
	assert.Equal(t, 80, flight.AvailableSeats)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_Update_OmitsSeatColumnsWhenNotSupplied(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil)
	ctx := context.Background()

	current := &domain.Flight{ID: 1, Airline: "AZAL", FlightNumber: "J2-101", Origin: "GYD", Destination: "IST",
		TotalSeats: 10, AvailableSeats: 10, Status: domain.FlightStatusScheduled}
	mockRepo.On("GetByID", ctx, int64(1)).Return(current, nil).Once()

	airline := "Buta Airways"
	renamed := &domain.Flight{ID: 1, Airline: airline, FlightNumber: "J2-101", Origin: "GYD", Destination: "IST",
		TotalSeats: 10, AvailableSeats: 10, Status: domain.FlightStatusScheduled}
	mockRepo.On("Update", ctx, int64(1), mock.MatchedBy(func(u repository.FlightUpdate) bool {
		return u.AvailableSeats == nil && u.TotalSeats == nil && u.Airline != nil && *u.Airline == airline
	})).Return(renamed, nil).Once()

	flight, err := service.Update(ctx, 1, UpdateFlightInput{Airline: &airline})
	assert.NoError(t, err)
	assert.Equal(t, airline, flight.Airline)
	mockRepo.AssertExpectations(t)
}

// fakeCatalog replays the repository contract in memory so the interleaving
// of a catalog edit with a committing reservation can be exercised.
type fakeCatalog struct {
	mu     sync.Mutex
	flight domain.Flight
	onRead func()
}

func (f *fakeCatalog) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	return nil, nil
}

func (f *fakeCatalog) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	f.mu.Lock()
	copied := f.flight
	f.mu.Unlock()
	if f.onRead != nil {
		f.onRead()
	}
	return &copied, nil
}

func (f *fakeCatalog) GetByNumber(ctx context.Context, flightNumber string) (*domain.Flight, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeCatalog) Create(ctx context.Context, flight *domain.Flight) error {
	return nil
}

func (f *fakeCatalog) Update(ctx context.Context, id int64, update repository.FlightUpdate) (*domain.Flight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if update.Airline != nil {
		f.flight.Airline = *update.Airline
	}
	if update.FlightNumber != nil {
		f.flight.FlightNumber = *update.FlightNumber
	}
	if update.Origin != nil {
		f.flight.Origin = *update.Origin
	}
	if update.Destination != nil {
		f.flight.Destination = *update.Destination
	}
	if update.DepartureTime != nil {
		f.flight.DepartureTime = *update.DepartureTime
	}
	if update.ArrivalTime != nil {
		f.flight.ArrivalTime = *update.ArrivalTime
	}
	if update.PriceCents != nil {
		f.flight.PriceCents = *update.PriceCents
	}
	if update.TotalSeats != nil {
		f.flight.TotalSeats = *update.TotalSeats
	}
	if update.AvailableSeats != nil {
		f.flight.AvailableSeats = *update.AvailableSeats
	}
	if update.Status != nil {
		f.flight.Status = *update.Status
	}
	copied := f.flight
	return &copied, nil
}

func (f *fakeCatalog) Delete(ctx context.Context, id int64) error {
	return nil
}

func TestFlightService_Update_DoesNotRevertConcurrentReservation(t *testing.T) {
	catalog := &fakeCatalog{flight: domain.Flight{ID: 1, Airline: "AZAL", FlightNumber: "J2-101",
		Origin: "GYD", Destination: "IST", TotalSeats: 10, AvailableSeats: 10, Status: domain.FlightStatusScheduled}}
	// A 2-seat reservation commits after the edit has read the flight.
	catalog.onRead = func() {
		catalog.mu.Lock()
		catalog.flight.AvailableSeats -= 2
		catalog.mu.Unlock()
	}
	service := NewFlightService(catalog, nil)

	airline := "Buta Airways"
	updated, err := service.Update(context.Background(), 1, UpdateFlightInput{Airline: &airline})
	assert.NoError(t, err)
	assert.Equal(t, airline, updated.Airline)
	assert.Equal(t, 8, updated.AvailableSeats)
	assert.Equal(t, 8, catalog.flight.AvailableSeats)
}

func TestFlightService_Delete_InvalidatesCache(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, int64(1)).Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	assert.NoError(t, service.Delete(ctx, 1))
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}
