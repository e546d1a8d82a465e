package booking

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/alizada/flightbook/internal/domain"
	"github.com/alizada/flightbook/internal/kafka"
	"github.com/alizada/flightbook/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	Cancel(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.Booking, error)
	GetByID(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error)
	ListByAccount(ctx context.Context, accountID int64) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	producer           Producer
	bookingTopic       string
	notificationsTopic string
}

type CreateBookingInput struct {
	AccountID int64
	FlightID  int64
	SeatCount int
}

type BookingServiceOption func(*BookingService)

func WithProducer(producer Producer, bookingTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = bookingTopic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(bookings repository.BookingRepository, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{bookings: bookings}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Create reserves seats and writes the ledger row as one unit. The repository
// performs the availability check and the decrement as a single conditional
// update, so two concurrent requests for the last seats cannot both succeed.
func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.SeatCount < 1 {
		return nil, fmt.Errorf("seat count must be at least 1: %w", domain.ErrInvalidInput)
	}

	booking := &domain.Booking{
		FlightID:  input.FlightID,
		AccountID: input.AccountID,
		SeatCount: input.SeatCount,
	}
	if err := s.bookings.CreateWithReservation(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

// Cancel moves a pending or confirmed booking to CANCELLED and hands its
// seats back. Cancelling an already-terminal booking is an error, not a
// no-op: the seat release must fire exactly once.
func (s *BookingService) Cancel(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(current) {
		return nil, fmt.Errorf("booking %d belongs to another account: %w", bookingID, domain.ErrForbidden)
	}
	if current.Status.Terminal() {
		return nil, fmt.Errorf("booking %d is already %s: %w", bookingID, current.Status, domain.ErrInvalidTransition)
	}

	updated, err := s.bookings.TransitionWithRelease(ctx, bookingID,
		[]domain.BookingStatus{domain.BookingStatusPending, domain.BookingStatusConfirmed},
		domain.BookingStatusCancelled, true)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_cancelled", updated)
	return updated, nil
}

// UpdateStatus applies an admin transition. Confirming a pending booking does
// not touch inventory (the seats were reserved at creation); rejecting a
// live booking releases them; re-asserting a terminal status is a no-op.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.Status == status && status.Terminal() {
		return current, nil
	}
	if !domain.CanTransition(current.Status, status) {
		return nil, fmt.Errorf("booking %d: %s -> %s: %w", bookingID, current.Status, status, domain.ErrInvalidTransition)
	}

	updated, err := s.bookings.TransitionWithRelease(ctx, bookingID,
		[]domain.BookingStatus{current.Status}, status,
		domain.ReleasesSeats(current.Status, status))
	if err != nil {
		return nil, err
	}

	s.publish(ctx, eventTypeFor(status), updated)
	return updated, nil
}

func (s *BookingService) GetByID(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(booking) {
		return nil, fmt.Errorf("booking %d belongs to another account: %w", bookingID, domain.ErrForbidden)
	}
	return booking, nil
}

func (s *BookingService) ListByAccount(ctx context.Context, accountID int64) ([]domain.Booking, error) {
	return s.bookings.ListByAccount(ctx, accountID)
}

func (s *BookingService) ListAll(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.ListAll(ctx)
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		BookingID: booking.ID,
		FlightID:  booking.FlightID,
		AccountID: booking.AccountID,
		SeatCount: booking.SeatCount,
		Status:    string(booking.Status),
		CreatedAt: booking.CreatedAt,
	}
	key := strconv.FormatInt(booking.ID, 10)
	if err := s.producer.Publish(ctx, s.bookingTopic, key, event); err != nil {
		log.Printf("publish %s event for booking %d: %v", eventType, booking.ID, err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, key, event); err != nil {
			log.Printf("publish %s notification for booking %d: %v", eventType, booking.ID, err)
		}
	}
}

func eventTypeFor(status domain.BookingStatus) string {
	switch status {
	case domain.BookingStatusConfirmed:
		return "booking_confirmed"
	case domain.BookingStatusCancelled:
		return "booking_cancelled"
	case domain.BookingStatusRejected:
		return "booking_rejected"
	default:
		return "booking_updated"
	}
}

var _ BookingUseCase = (*BookingService)(nil)
