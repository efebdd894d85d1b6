// Package server exposes the calculators and the profile store over a JSON
// HTTP API.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/alexiusacademia/gobatten/internal/config"
	"github.com/alexiusacademia/gobatten/internal/profile"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// Server serves the API for one profile store.
type Server struct {
	store    profile.Store
	tokenKey []byte
	limiter  *IPRateLimiter
	router   *mux.Router
}

// New builds a server over store using the limits and token key in cfg.
func New(store profile.Store, cfg *config.Config) *Server {
	s := &Server{
		store:    store,
		tokenKey: cfg.TokenKey,
		limiter:  NewIPRateLimiter(rate.Limit(cfg.Rate), cfg.Burst),
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	guard := RequireToken(s.tokenKey)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.limiter.LimitMiddleware)

	api.HandleFunc("/forward", s.handleForward).Methods("POST")
	api.HandleFunc("/calibrate", s.handleCalibrate).Methods("POST")
	api.HandleFunc("/composite", s.handleComposite).Methods("POST")
	api.HandleFunc("/test", s.handleTest).Methods("POST")
	api.HandleFunc("/report/pdf", s.handleReport).Methods("POST")

	api.HandleFunc("/profiles", s.handleListProfiles).Methods("GET")
	api.HandleFunc("/profiles/{id}", s.handleGetProfile).Methods("GET")
	api.Handle("/profiles", guard(http.HandlerFunc(s.handleSaveProfile))).Methods("POST")
	api.Handle("/profiles/{id}", guard(http.HandlerFunc(s.handleDeleteProfile))).Methods("DELETE")
}

// Handler returns the API wrapped in permissive CORS headers.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.router.ServeHTTP(w, r)
	})
}

// limiterIdle is how long a client's bucket is kept after its last request.
const limiterIdle = 10 * time.Minute

// Run listens on addr until ctx is cancelled, then drains open connections
// for up to five seconds.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.limiter.RunSweeper(ctx, time.Minute, limiterIdle)

	errc := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutdown signal received, closing active connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("Server stopped")
	return <-errc
}
