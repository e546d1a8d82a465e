package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alizada/flightbook/api"
	"github.com/alizada/flightbook/config"
	"github.com/alizada/flightbook/internal/auth"
	"github.com/alizada/flightbook/internal/service/booking"
	"github.com/alizada/flightbook/internal/service/flights"
	"github.com/alizada/flightbook/internal/service/users"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, tokens *auth.Manager,
	userSvc users.UserUseCase, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase) error {

	engine := newEngine(cfg, tokens, userSvc, flightSvc, bookingSvc)
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newEngine(cfg *config.Config, tokens *auth.Manager,
	userSvc users.UserUseCase, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase) *gin.Engine {

	engine := gin.Default()
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	root := engine.Group("/api")
	api.NewAuthHandler(userSvc, tokens).Register(root.Group("/auth"))
	api.NewUserHandler(userSvc, tokens).Register(root.Group("/users"))
	api.NewFlightHandler(flightSvc, tokens).Register(root.Group("/flights"))
	api.NewBookingHandler(bookingSvc, tokens).Register(root.Group("/bookings"))

	return engine
}
