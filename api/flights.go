package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/alizada/flightbook/internal/auth"
	"github.com/alizada/flightbook/internal/domain"
	"github.com/alizada/flightbook/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
	tokens  *auth.Manager
}

type createFlightRequest struct {
	Airline       string    `json:"airline" binding:"required"`
	FlightNumber  string    `json:"flight_number" binding:"required"`
	Origin        string    `json:"origin" binding:"required"`
	Destination   string    `json:"destination" binding:"required"`
	DepartureTime time.Time `json:"departure_time" binding:"required"`
	ArrivalTime   time.Time `json:"arrival_time" binding:"required"`
	PriceCents    int64     `json:"price_cents" binding:"required"`
	TotalSeats    int       `json:"total_seats" binding:"required"`
}

type updateFlightRequest struct {
	Airline        *string    `json:"airline"`
	FlightNumber   *string    `json:"flight_number"`
	Origin         *string    `json:"origin"`
	Destination    *string    `json:"destination"`
	DepartureTime  *time.Time `json:"departure_time"`
	ArrivalTime    *time.Time `json:"arrival_time"`
	PriceCents     *int64     `json:"price_cents"`
	TotalSeats     *int       `json:"total_seats"`
	AvailableSeats *int       `json:"available_seats"`
	Status         *string    `json:"status"`
}

func NewFlightHandler(service flights.FlightUseCase, tokens *auth.Manager) *FlightHandler {
	return &FlightHandler{service: service, tokens: tokens}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)

	admin := router.Group("/", RequireAuth(h.tokens), RequireRole(domain.RoleAdmin))
	admin.POST("/", h.create)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
}

func (h *FlightHandler) list(c *gin.Context) {
	filter, err := parseFlightFilter(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	found, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, found, len(found))
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}

	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, flight)
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	flight, err := h.service.Create(c.Request.Context(), flights.CreateFlightInput{
		Airline:       req.Airline,
		FlightNumber:  req.FlightNumber,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		PriceCents:    req.PriceCents,
		TotalSeats:    req.TotalSeats,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, flight)
}

func (h *FlightHandler) update(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}

	var req updateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	input := flights.UpdateFlightInput{
		Airline:        req.Airline,
		FlightNumber:   req.FlightNumber,
		Origin:         req.Origin,
		Destination:    req.Destination,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		PriceCents:     req.PriceCents,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.AvailableSeats,
	}
	if req.Status != nil {
		status := domain.FlightStatus(*req.Status)
		switch status {
		case domain.FlightStatusScheduled, domain.FlightStatusDelayed, domain.FlightStatusCancelled:
			input.Status = &status
		default:
			respondBadRequest(c, "unknown flight status "+*req.Status)
			return
		}
	}

	flight, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, flight)
}

func (h *FlightHandler) delete(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "flight deleted")
}

func parseFlightFilter(c *gin.Context) (domain.FlightFilter, error) {
	filter := domain.FlightFilter{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
		Airline:     c.Query("airline"),
		SortBy:      c.Query("sort_by"),
		SortDesc:    c.Query("sort_order") == "desc",
	}

	if raw := c.Query("departure_date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return domain.FlightFilter{}, err
		}
		filter.DepartureDate = &date
	}
	if raw := c.Query("min_price_cents"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domain.FlightFilter{}, err
		}
		filter.MinPriceCents = &v
	}
	if raw := c.Query("max_price_cents"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domain.FlightFilter{}, err
		}
		filter.MaxPriceCents = &v
	}
	return filter, nil
}

func flightID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid flight id")
		return 0, false
	}
	return id, true
}
