package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/spuerta10/RapidLogs/internal/runtime"
	"github.com/spuerta10/RapidLogs/internal/server/http/controllers"
	logsvc "github.com/spuerta10/RapidLogs/internal/services/logs"
	logpkg "github.com/spuerta10/RapidLogs/pkg/log"
)

type Server struct {
	rt  *runtime.Runtime
	srv *http.Server
	lis net.Listener
	svc *logsvc.Service
}

// New builds a server over the runtime. The logs service it creates is
// exposed via Service so callers can wire the evictor's stats into it.
func New(rt *runtime.Runtime, logger logpkg.Logger) *Server {
	svc := logsvc.NewWithLogger(rt, logger)
	mux := http.NewServeMux()
	controllers.NewControllerRegistry(rt, svc).RegisterAllRoutes(mux)
	return &Server{rt: rt, svc: svc, srv: &http.Server{Handler: cors(mux)}}
}

// Service returns the logs service backing the HTTP endpoints.
func (s *Server) Service() *logsvc.Service { return s.svc }

// Handler returns the root handler, exposed for in-process tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Addr returns the bound listen address, valid after ListenAndServe.
func (s *Server) Addr() string {
	if s.lis == nil {
		return ""
	}
	return s.lis.Addr().String()
}

func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
