package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	logger *slog.Logger
	srv    *http.Server
}

// NewRouter wires every route of the HTTP API.
func NewRouter(ping PingHandler, sessions SessionHandlers, advisor AdvisorHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ping", ping.PingHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/tictactoe-move", advisor.SuggestMove)

		r.Post("/sessions", sessions.CreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", sessions.GetSession)
			r.Post("/games", sessions.NewGame)
			r.Delete("/statistics", sessions.ResetStatistics)
			r.Post("/cells/{index}", sessions.PlayCell)
		})
	})

	return r
}

func New(logger *slog.Logger, port string, handler http.Handler) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		logger: logger.With("component", "http"),
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (that *Server) Start() error {
	that.logger.Info("listening", "addr", that.srv.Addr)

	if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	if err := that.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
