package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/muliwe/go-fizzbuzz-classifier/internal/classifier"
	"github.com/muliwe/go-fizzbuzz-classifier/internal/logger"
	"github.com/muliwe/go-fizzbuzz-classifier/internal/sequence"
)

const version = "1.0.0"

// ClassifyResponse represents the single-integer API response
type ClassifyResponse struct {
	RequestID string          `json:"request_id"`
	Timestamp time.Time       `json:"timestamp"`
	N         int64           `json:"n"`
	Kind      classifier.Kind `json:"kind"`
	Label     string          `json:"label"`
	Reason    string          `json:"reason"`
	Version   string          `json:"version"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse represents a request validation failure
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	classifier *classifier.Classifier
	driver     *sequence.Driver
	logger     *logger.Logger
	rangeLimit int64
	quiet      bool // suppress console logging (useful for tests)
}

// NewHandler creates a new handler with dependencies
func NewHandler(c *classifier.Classifier, d *sequence.Driver, l *logger.Logger, rangeLimit int64) *Handler {
	if rangeLimit <= 0 {
		rangeLimit = DefaultConfig().RangeLimit
	}
	return &Handler{
		classifier: c,
		driver:     d,
		logger:     l,
		rangeLimit: rangeLimit,
		quiet:      false,
	}
}

// SetQuiet enables or disables console logging
func (h *Handler) SetQuiet(quiet bool) {
	h.quiet = quiet
}

// HandleRun emits the rendered sequence for a query-selected range as
// plain text, one label per line
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	// Only handle exact root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	from, err := queryInt(r, "from", sequence.DefaultFrom)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := queryInt(r, "to", sequence.DefaultTo)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rng, err := sequence.NewRange(from, to)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if rng.Len() > uint64(h.rangeLimit) {
		writeError(w, http.StatusBadRequest, "range too large")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := h.driver.Write(r.Context(), rng, w); err != nil {
		// Client gone or write failed mid-stream; nothing left to send.
		if !h.quiet {
			slog.Warn("run aborted", "err", err)
		}
		return
	}

	if !h.quiet {
		slog.Info("run",
			"remote", r.RemoteAddr,
			"from", rng.From,
			"to", rng.To,
			"ms", time.Since(startTime).Milliseconds(),
		)
	}
}

// HandleClassify handles the single-integer classification endpoint
func (h *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	if r.URL.Query().Get("n") == "" {
		writeError(w, http.StatusBadRequest, "missing required parameter: n")
		return
	}
	n, err := queryInt(r, "n", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.classifier.Classify(n)
	responseTime := time.Since(startTime).Milliseconds()

	// Log the result
	if h.logger != nil {
		if err := h.logger.LogResult(result, r.RemoteAddr, responseTime); err != nil {
			slog.Warn("error logging result", "err", err)
		}
	}

	// Log to console (unless quiet mode)
	if !h.quiet {
		slog.Info("classify",
			"remote", r.RemoteAddr,
			"n", result.N,
			"kind", result.Kind,
			"label", result.Label,
			"ms", responseTime,
		)
	}

	writeJSON(w, http.StatusOK, ClassifyResponse{
		RequestID: result.RequestID,
		Timestamp: result.Timestamp,
		N:         result.N,
		Kind:      result.Kind,
		Label:     result.Label,
		Reason:    result.Reason,
		Version:   version,
	})
}

// HandleHealth handles the health check endpoint
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version,
	})
}

// HandleDebug returns the full classification record for debugging (optional endpoint)
func (h *Handler) HandleDebug(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "n", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := h.classifier.Classify(n)

	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		slog.Warn("error encoding debug response", "err", err)
	}
}

// queryInt parses an optional integer query parameter
func queryInt(r *http.Request, name string, fallback int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &paramError{name: name, value: raw}
	}
	return v, nil
}

type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return "invalid integer for " + e.name + ": " + strconv.Quote(e.value)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("error encoding response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
