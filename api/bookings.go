package api

import (
	"net/http"
	"strconv"

	"github.com/alizada/flightbook/internal/auth"
	"github.com/alizada/flightbook/internal/domain"
	"github.com/alizada/flightbook/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
	tokens  *auth.Manager
}

type createBookingRequest struct {
	FlightID  int64 `json:"flight_id" binding:"required"`
	SeatCount int   `json:"seat_count" binding:"required"`
}

type updateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func NewBookingHandler(service booking.BookingUseCase, tokens *auth.Manager) *BookingHandler {
	return &BookingHandler{service: service, tokens: tokens}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.Use(RequireAuth(h.tokens))
	router.POST("/", h.create)
	router.GET("/my", h.listMine)
	router.GET("/", RequireRole(domain.RoleAdmin), h.listAll)
	router.GET("/:id", h.get)
	router.PUT("/:id", RequireRole(domain.RoleAdmin), h.updateStatus)
	router.PUT("/cancel/:id", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	actor := currentActor(c)
	created, err := h.service.Create(c.Request.Context(), booking.CreateBookingInput{
		AccountID: actor.AccountID,
		FlightID:  req.FlightID,
		SeatCount: req.SeatCount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, created)
}

func (h *BookingHandler) listMine(c *gin.Context) {
	actor := currentActor(c)
	bookings, err := h.service.ListByAccount(c.Request.Context(), actor.AccountID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, bookings, len(bookings))
}

func (h *BookingHandler) listAll(c *gin.Context) {
	bookings, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, bookings, len(bookings))
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	found, err := h.service.GetByID(c.Request.Context(), currentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, found)
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req updateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	status, ok := domain.ParseBookingStatus(req.Status)
	if !ok {
		respondBadRequest(c, "unknown booking status "+req.Status)
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, updated)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), currentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, cancelled)
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid booking id")
		return 0, false
	}
	return id, true
}
