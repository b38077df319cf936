package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"cw-forecast/logger"
)

type ForecastHttpServer struct {
	router          *Router
	muxRouter       *mux.Router
	port            int
	shutdownTimeout time.Duration
	log             logger.Logger
}

func NewForecastHttpServer(router *Router, muxRouter *mux.Router, port int, shutdownTimeout time.Duration, log logger.Logger) *ForecastHttpServer {
	if log == nil {
		log = logger.Discard()
	}
	return &ForecastHttpServer{
		router:          router,
		muxRouter:       muxRouter,
		port:            port,
		shutdownTimeout: shutdownTimeout,
		log:             logger.Component(log, "http_server"),
	}
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *ForecastHttpServer) Start(ctx context.Context) error {
	s.router.RegisterRoutes()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.muxRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Infof("Shutting down the server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.log.Infof("Server exiting")
	return nil
}
