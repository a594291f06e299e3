package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/dkraev/lingobook/api"
	"github.com/dkraev/lingobook/config"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, authHandler *api.AuthHandler, bookingHandler *api.BookingHandler, catalogHandler *api.CatalogHandler) error {
	router := gin.Default()

	authHandler.Register(router.Group("/auth"))
	bookingHandler.Register(router.Group("/bookings"))
	catalogHandler.Register(router.Group("/catalog"))

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
