package domain

import "time"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "SCHEDULED"
	FlightStatusDelayed   FlightStatus = "DELAYED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
)

type Flight struct {
	ID             int64        `json:"id"`
	Airline        string       `json:"airline"`
	FlightNumber   string       `json:"flight_number"`
	Origin         string       `json:"origin"`
	Destination    string       `json:"destination"`
	DepartureTime  time.Time    `json:"departure_time"`
	ArrivalTime    time.Time    `json:"arrival_time"`
	PriceCents     int64        `json:"price_cents"`
	TotalSeats     int          `json:"total_seats"`
	AvailableSeats int          `json:"available_seats"`
	Status         FlightStatus `json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// FlightFilter narrows a catalog search. Zero values mean no constraint.
// Text fields match as case-insensitive substrings; DepartureDate selects the
// whole calendar day.
type FlightFilter struct {
	Origin        string
	Destination   string
	Airline       string
	DepartureDate *time.Time
	MinPriceCents *int64
	MaxPriceCents *int64
	SortBy        string
	SortDesc      bool
}

func (f FlightFilter) Empty() bool {
	return f.Origin == "" && f.Destination == "" && f.Airline == "" &&
		f.DepartureDate == nil && f.MinPriceCents == nil && f.MaxPriceCents == nil &&
		f.SortBy == "" && !f.SortDesc
}
