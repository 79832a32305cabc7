// Package statusserver exposes a small local HTTP endpoint with the client's
// health, sync state and Prometheus metrics.
package statusserver

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/tradejournal/internal/client/status"
	"github.com/dmitrijs2005/tradejournal/internal/logging"
)

// StatusSource reports the current connection state.
type StatusSource interface {
	Status() status.ConnectionStatus
	LastSync() time.Time
}

// UserSource reports the signed-in user id, "" when signed out.
type UserSource interface {
	UserID() string
}

type Server struct {
	status  StatusSource
	users   UserSource
	metrics http.Handler
	log     logging.Logger
	srv     *http.Server
}

// New builds a server; metrics may be nil, in which case /metrics is not
// mounted.
func New(addr string, st StatusSource, users UserSource, metrics http.Handler, log logging.Logger) *Server {
	s := &Server{status: st, users: users, metrics: metrics, log: log}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/status", s.handleStatus)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return r
}

type statusResponse struct {
	Status    string     `json:"status"`
	Indicator string     `json:"indicator"`
	LastSync  *time.Time `json:"last_sync,omitempty"`
	UserID    string     `json:"user_id,omitempty"`
	SignedIn  bool       `json:"signed_in"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	st := s.status.Status()
	resp := statusResponse{Status: st.String(), Indicator: st.Text()}
	if last := s.status.LastSync(); !last.IsZero() {
		utc := last.UTC()
		resp.LastSync = &utc
	}
	if s.users != nil {
		resp.UserID = s.users.UserID()
		resp.SignedIn = resp.UserID != ""
	}
	writeJSON(w, http.StatusOK, resp)
}

// Run listens on the configured address until ctx is cancelled, then shuts
// the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "status server listening", "addr", ln.Addr().String())
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
