package api

import (
	"errors"
	"net/http"

	"github.com/alizada/flightbook/internal/domain"
	"github.com/gin-gonic/gin"
)

// response is the envelope every endpoint answers with.
type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, response{Success: true, Data: data})
}

func respondList(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, response{Success: true, Data: data, Count: &count})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, response{Success: true, Message: message})
}

// respondError maps the domain error taxonomy onto HTTP statuses. ErrConflict
// is the contention case the caller may retry; everything unrecognized is a
// plain 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientSeats), errors.Is(err, domain.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, response{Success: false, Message: err.Error()})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, response{Success: false, Message: message})
}
