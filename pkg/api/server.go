package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/coinflip/pkg/api/handlers"
	"github.com/cbodonnell/coinflip/pkg/api/middleware"
	"github.com/cbodonnell/coinflip/pkg/log"
	"github.com/cbodonnell/coinflip/pkg/repositories"
	"github.com/cbodonnell/coinflip/pkg/state"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port         int
	TLS          *TLSConfig
	SessionID    string
	Commander    handlers.Commander
	StateManager state.StateManager
	// Repository serves the journal endpoint. Optional.
	Repository repositories.Repository
	// WebSocket serves the live mirror. Optional.
	WebSocket http.Handler
}

// NewAPIServer creates a new http.Server for controlling and observing the
// session
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: NewRouter(opts),
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// NewRouter builds the API routes.
func NewRouter(opts NewAPIServerOptions) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger, middleware.CORS)

	r.HandleFunc("/healthz", handlers.HandleHealthz()).Methods(http.MethodGet)
	r.HandleFunc("/state", handlers.HandleGetState(opts.StateManager)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/history", handlers.HandleGetHistory(opts.StateManager)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/flip", handlers.HandleFlip(opts.Commander)).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/reset", handlers.HandleReset(opts.Commander)).Methods(http.MethodPost, http.MethodOptions)
	if opts.Repository != nil {
		r.HandleFunc("/journal", handlers.HandleGetJournal(opts.Repository, opts.SessionID)).Methods(http.MethodGet, http.MethodOptions)
		r.HandleFunc("/journal/latest", handlers.HandleGetLatestFlip(opts.Repository, opts.SessionID)).Methods(http.MethodGet, http.MethodOptions)
	}
	if opts.WebSocket != nil {
		r.Handle("/ws", opts.WebSocket).Methods(http.MethodGet)
	}

	return r
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
