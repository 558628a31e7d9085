package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/agentcart/agentcart/internal/handler"
	"github.com/agentcart/agentcart/internal/handler/auth"
	"github.com/agentcart/agentcart/internal/handler/message"
	"github.com/agentcart/agentcart/internal/logging"
	"github.com/agentcart/agentcart/internal/svc"
)

const requestIDHeader = "X-Request-Id"

// Run starts the HTTP server and blocks until ctx is cancelled.
func Run(ctx context.Context, svcCtx *svc.ServiceContext) error {
	addr := net.JoinHostPort(svcCtx.Config.Server.Host, fmt.Sprintf("%d", svcCtx.Config.Server.Port))

	if err := checkPortAvailable(addr); err != nil {
		return fmt.Errorf("address %s is already in use", addr)
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/health", handler.HealthCheckHandler(svcCtx))
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/is-authenticated", auth.IsAuthenticatedHandler(svcCtx))
		r.Post("/message", message.MessageHandler(svcCtx))
	})

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     r,
		IdleTimeout: 120 * time.Second,
	}

	logging.Infof("Server ready at http://%s", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logging.Infof("Shutting down server gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// requestIDMiddleware tags every request with an id for log correlation,
// honoring one supplied by the caller.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		logging.Debugf("[%s] %s %s", id, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func checkPortAvailable(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return ln.Close()
}
