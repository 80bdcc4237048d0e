// Package httpapi exposes the version-control service over a JSON REST API.
package httpapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlite/internal/vcs"
)

// Server routes HTTP requests to a vcs.Service.
type Server struct {
	service *vcs.Service
	logger  *slog.Logger
	token   string
}

// NewServer creates a server. An empty token disables authentication.
func NewServer(service *vcs.Service, logger *slog.Logger, token string) *Server {
	return &Server{service: service, logger: logger, token: token}
}

// Handler returns the full HTTP handler: the API, /metrics and /_health.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/_health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Use(instrument)
		s.routes(r)
	})
	return r
}

func (s *Server) routes(r chi.Router) {
	r.Route("/repositories", func(r chi.Router) {
		r.Get("/", s.listRepositories)
		r.Post("/", s.createRepository)

		r.Route("/{repoID}", func(r chi.Router) {
			r.Get("/", s.getRepository)
			r.Delete("/", s.deleteRepository)

			r.Get("/branches", s.listBranches)
			r.Post("/branches", s.createBranch)
			r.Get("/branches/{branch}", s.getBranch)
			r.Delete("/branches/{branch}", s.deleteBranch)
			r.Get("/branches/{branch}/versions", s.branchHistory)

			r.Get("/files", s.listFiles)
			r.Post("/files", s.createFile)
			r.Post("/files/upload", s.uploadFile)
			r.Get("/files/{fileID}", s.getFile)
			r.Put("/files/{fileID}", s.updateFile)
			r.Delete("/files/{fileID}", s.deleteFile)
			r.Get("/files/{fileID}/versions", s.listVersions)
			r.Get("/files/{fileID}/versions/{version}", s.getVersion)
			r.Get("/files/{fileID}/diff/{v1}/{v2}", s.diffVersions)

			r.Get("/merge-requests", s.listMergeRequests)
			r.Post("/merge-requests", s.createMergeRequest)
			r.Get("/merge-requests/{mrID}", s.getRepositoryMergeRequest)
		})
	})

	r.Get("/merge-requests/{mrID}", s.getMergeRequest)
	r.Post("/merge-requests/{mrID}/merge", s.mergeMergeRequest)
	r.Post("/merge-requests/{mrID}/close", s.closeMergeRequest)

	r.Get("/merge-conflicts/{conflictID}", s.getConflict)
	r.Get("/merge-conflicts/{conflictID}/diff", s.conflictDiff)
	r.Post("/merge-conflicts/{conflictID}/resolve", s.resolveConflict)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		s.logger.Info("http server stopped")
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	if s.token == "" {
		return next
	}
	want := []byte(s.token)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := bearerToken(r)
		if !ok || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			writeError(w, s.logger, fmt.Errorf("%w: missing or invalid bearer token", vcs.ErrUnauthorized))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	const scheme = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(scheme) || !strings.EqualFold(h[:len(scheme)], scheme) {
		return "", false
	}
	return h[len(scheme):], true
}
