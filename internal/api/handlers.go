// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/katalvlaran/lvcorr/corr"
	"github.com/katalvlaran/lvcorr/internal/logging"
	"github.com/katalvlaran/lvcorr/source"
	"github.com/katalvlaran/lvcorr/stats"
	"github.com/katalvlaran/lvcorr/subset"
	"github.com/katalvlaran/lvcorr/table"
)

// MaxBodyBytes bounds a /v1/correlate request body.
const MaxBodyBytes = 1 << 20

// Handler serves the correlation API.
type Handler struct {
	Exec *Executor
	Log  *logging.Logger
}

// NewHandler wires an Executor and logger (nil → discard).
func NewHandler(exec *Executor, log *logging.Logger) *Handler {
	return &Handler{Exec: exec, Log: logging.OrNoop(log)}
}

// RegisterRoutes mounts the API on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/methods", h.Methods)
		r.Post("/correlate", h.Correlate)
	})
}

// NewRouter builds the full middleware stack around h.
func NewRouter(h *Handler, origins []string) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.Log))
	r.Use(middleware.Recoverer)

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h.RegisterRoutes(r)
	return r
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Methods lists the accepted adjustment method names.
func (h *Handler) Methods(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(stats.Methods()))
	for _, m := range stats.Methods() {
		names = append(names, string(m))
	}
	writeJSON(w, http.StatusOK, map[string][]string{"methods": names})
}

// Correlate runs one Request. "?format=csv" returns the pair table as CSV instead of JSON.
func (h *Handler) Correlate(w http.ResponseWriter, r *http.Request) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Dataset) == "" {
		writeError(w, http.StatusBadRequest, errors.New("dataset is required"))
		return
	}

	resp, err := h.Exec.Execute(r.Context(), req)
	if err != nil {
		h.Log.WarnContext(r.Context(), "correlate failed", "mode", req.Mode(), "error", err)
		writeError(w, statusFor(err), err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(http.StatusOK)
		_ = resp.Table.WriteCSV(w)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// statusFor maps validation sentinels to 4xx and everything else to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrLocalDisabled):
		return http.StatusForbidden
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, corr.ErrInvalidOption),
		errors.Is(err, corr.ErrInvalidTargetSet),
		errors.Is(err, subset.ErrInvalidFilterSpec),
		errors.Is(err, subset.ErrNonNumericColumn),
		errors.Is(err, table.ErrColumnNotFound),
		errors.Is(err, table.ErrKeyMismatch),
		errors.Is(err, table.ErrNotATable),
		errors.Is(err, source.ErrInvalidLocation),
		errors.Is(err, source.ErrUnknownScheme),
		errors.Is(err, source.ErrEmptyInput),
		errors.Is(err, source.ErrUnsupportedType):
		return http.StatusBadRequest
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

// requestLogger logs one Info record per request through l.
func requestLogger(l *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			l.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
