// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the grants tools over HTTP for agent hosts.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdiddy/grants-reporter/internal/criteria"
	"github.com/pdiddy/grants-reporter/internal/logger"
	"github.com/pdiddy/grants-reporter/internal/reporter"
	"github.com/pdiddy/grants-reporter/internal/tools"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "grants-reporter"

// maxBodyBytes caps a tool input body.
const maxBodyBytes = 1 << 20

// Server routes HTTP requests to registered tools.
type Server struct {
	Tools    *tools.Registry
	Gatherer prometheus.Gatherer
	Metrics  *Metrics
	Router   *mux.Router
}

// New builds a Server over reg. Request metrics register with r; /metrics
// serves g.
func New(reg *tools.Registry, r prometheus.Registerer, g prometheus.Gatherer) *Server {
	s := &Server{
		Tools:    reg,
		Gatherer: g,
		Metrics:  NewMetrics(r),
		Router:   mux.NewRouter(),
	}
	s.Router.Use(requestID, s.Metrics.middleware)
	s.Router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	s.Router.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	s.Router.HandleFunc("/tools", s.listTools).Methods(http.MethodGet)
	s.Router.HandleFunc("/tools/{name}", s.callTool).Methods(http.MethodPost)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log := logger.WithComponent("server")

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": ServiceName})
}

func (s *Server) listTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.Tools.Describe()})
}

func (s *Server) callTool(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	tool, ok := s.Tools.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, errors.Newf("unknown tool %q", name))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "reading request body"))
		return
	}

	ctx := r.Context()
	out, err := tool.Call(ctx, string(body))
	if err != nil {
		status := StatusFor(err)
		logger.FromContext(ctx).WarnContext(ctx, "tool call failed", "tool", name, "status", status, "error", err)
		writeError(w, status, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, out)
}

// StatusFor maps an operation error to an HTTP status: bad input is 400,
// a deadline hit while fetching is 504, another failed upstream fetch is
// 502, anything else is 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, criteria.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, reporter.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
