package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusRejected  BookingStatus = "REJECTED"
)

type Booking struct {
	ID        int64         `json:"id"`
	FlightID  int64         `json:"flight_id"`
	AccountID int64         `json:"account_id"`
	SeatCount int           `json:"seat_count"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Terminal reports whether no further transitions are permitted. Terminal
// bookings hold no seats.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusRejected
}

func ParseBookingStatus(raw string) (BookingStatus, bool) {
	switch BookingStatus(raw) {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusRejected:
		return BookingStatus(raw), true
	}
	return "", false
}

// transitions is the complete set of legal status changes. Anything absent
// here is illegal, except a terminal status re-asserting itself, which
// callers treat as a no-op.
var transitions = map[BookingStatus]map[BookingStatus]bool{
	BookingStatusPending: {
		BookingStatusConfirmed: true,
		BookingStatusCancelled: true,
		BookingStatusRejected:  true,
	},
	BookingStatusConfirmed: {
		BookingStatusCancelled: true,
		BookingStatusRejected:  true,
	},
}

func CanTransition(from, to BookingStatus) bool {
	return transitions[from][to]
}

// ReleasesSeats reports whether moving from one status to the other hands the
// booking's seats back to the flight. Only the first entry into a terminal
// status releases; pending to confirmed keeps the seats reserved.
func ReleasesSeats(from, to BookingStatus) bool {
	return !from.Terminal() && to.Terminal()
}
