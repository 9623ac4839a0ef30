package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"goodfoods/internal/agent"
)

type Server struct {
	runner *agent.Runner
	mux    *http.ServeMux
}

func NewServer(runner *agent.Runner) *Server {
	s := &Server{
		runner: runner,
		mux:    http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /v1/chat", s.handleChat)
	s.mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleResetSession)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
}

// ListenAndServe blocks until ctx is cancelled, then shuts the server down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
