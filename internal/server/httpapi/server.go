// Package httpapi exposes the secret record service over a REST boundary:
// four authenticated routes scoped to the caller's organization and user.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/orgvault/orgvault/internal/logging"
	"github.com/orgvault/orgvault/internal/server/secrets"
)

const shutdownTimeout = 10 * time.Second

type HTTPServer struct {
	address   string
	secrets   *secrets.Service
	logger    logging.Logger
	jwtSecret []byte
}

func NewHTTPServer(address string, l logging.Logger, ss *secrets.Service, secretKey string) *HTTPServer {
	return &HTTPServer{
		address:   address,
		secrets:   ss,
		logger:    l.With("module", "http_server"),
		jwtSecret: []byte(secretKey),
	}
}

// Router assembles the route tree.
func (s *HTTPServer) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1/user-secrets", func(r chi.Router) {
		r.Use(s.Authenticate)
		r.Get("/", s.List)
		r.Post("/", s.Create)
		r.Patch("/{secretID}", s.Update)
		r.Delete("/{secretID}", s.Delete)
	})

	return r
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
