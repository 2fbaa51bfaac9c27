package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/muliwe/go-fizzbuzz-classifier/internal/classifier"
	"github.com/muliwe/go-fizzbuzz-classifier/internal/logger"
	"github.com/muliwe/go-fizzbuzz-classifier/internal/sequence"
	"github.com/muliwe/go-fizzbuzz-classifier/internal/server"
)

// ClassifyResponse matches the classify endpoint response structure
type ClassifyResponse struct {
	N         int64  `json:"n"`
	Kind      string `json:"kind"`
	Label     string `json:"label"`
	Reason    string `json:"reason"`
	RequestID string `json:"request_id"`
}

// HealthResponse matches the health endpoint response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// createTestHandler creates a handler for testing without file logging
func createTestHandler() *server.Handler {
	return createTestHandlerWithLogger(nil)
}

// createTestHandlerWithLogger creates a handler with an optional audit logger
func createTestHandlerWithLogger(l *logger.Logger) *server.Handler {
	cls := classifier.New(classifier.DefaultConfig())
	handler := server.NewHandler(cls, sequence.New(cls), l, 0)
	handler.SetQuiet(true)
	return handler
}

func TestRun_GoldenFifteen(t *testing.T) {
	handler := createTestHandler()

	req := httptest.NewRequest("GET", "/?from=1&to=15", nil)
	w := httptest.NewRecorder()
	handler.HandleRun(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	want := strings.Join([]string{
		"1", "2", "Fizz", "4", "Buzz", "Fizz", "7", "8",
		"Fizz", "Buzz", "11", "Fizz", "13", "14", "FizzBuzz",
	}, "\n") + "\n"

	if w.Body.String() != want {
		t.Errorf("Run 1..15 transcript mismatch:\ngot:\n%s\nwant:\n%s", w.Body.String(), want)
	}
}

func TestRun_DefaultRange(t *testing.T) {
	handler := createTestHandler()

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	handler.HandleRun(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Expected text/plain content type, got %q", ct)
	}

	lines := strings.Split(strings.TrimRight(w.Body.String(), "\n"), "\n")
	if len(lines) != 100 {
		t.Fatalf("Expected 100 lines for default range, got %d", len(lines))
	}
	if lines[0] != "1" || lines[14] != "FizzBuzz" || lines[99] != "Buzz" {
		t.Errorf("Boundary lines wrong: 1=%q 15=%q 100=%q", lines[0], lines[14], lines[99])
	}
}

func TestRun_RangeTooLarge(t *testing.T) {
	handler := createTestHandler()

	req := httptest.NewRequest("GET", "/?from=1&to=100000000", nil)
	w := httptest.NewRecorder()
	handler.HandleRun(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for oversized range, got %d", w.Code)
	}
}

func TestRun_HugeSpanRejected(t *testing.T) {
	handler := createTestHandler()

	// Spans that used to wrap Len() negative or to zero must still be
	// rejected, not admitted as an effectively unbounded write loop.
	urls := []string{
		"/?from=0&to=9223372036854775807",
		"/?from=-9223372036854775808&to=9223372036854775807",
	}

	for _, url := range urls {
		req := httptest.NewRequest("GET", url, nil)
		w := httptest.NewRecorder()
		handler.HandleRun(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want %d", url, w.Code, http.StatusBadRequest)
		}
	}
}

func TestClassify_EveryKind(t *testing.T) {
	handler := createTestHandler()

	tests := []struct {
		n     int64
		kind  string
		label string
	}{
		{15, "fizzbuzz", "FizzBuzz"},
		{9, "fizz", "Fizz"},
		{10, "buzz", "Buzz"},
		{7, "number", "7"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", fmt.Sprintf("/classify?n=%d", tt.n), nil)
		w := httptest.NewRecorder()
		handler.HandleClassify(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("classify n=%d: expected status 200, got %d", tt.n, w.Code)
			continue
		}

		var resp ClassifyResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if resp.Kind != tt.kind {
			t.Errorf("classify n=%d: expected kind %q, got %q", tt.n, tt.kind, resp.Kind)
		}
		if resp.Label != tt.label {
			t.Errorf("classify n=%d: expected label %q, got %q", tt.n, tt.label, resp.Label)
		}
		if resp.RequestID == "" {
			t.Errorf("classify n=%d: expected request_id to be set", tt.n)
		}
	}
}

func TestClassify_AuditTrail(t *testing.T) {
	tmpDir := t.TempDir()
	l, err := logger.New(logger.Config{LogDir: tmpDir, FileName: "audit.jsonl"})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	handler := createTestHandlerWithLogger(l)

	for _, n := range []int64{3, 5, 15} {
		req := httptest.NewRequest("GET", fmt.Sprintf("/classify?n=%d", n), nil)
		w := httptest.NewRecorder()
		handler.HandleClassify(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("classify n=%d: expected status 200, got %d", n, w.Code)
		}
	}

	if err := l.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	data, err := os.ReadFile(l.LogPath())
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 audit entries, got %d", len(lines))
	}

	var entry logger.LogEntry
	if err := json.Unmarshal([]byte(lines[2]), &entry); err != nil {
		t.Fatalf("Failed to parse audit entry: %v", err)
	}
	if entry.N != 15 || entry.Label != "FizzBuzz" {
		t.Errorf("Last audit entry = (n=%d, label=%q), want (15, FizzBuzz)", entry.N, entry.Label)
	}
}

func TestHealth(t *testing.T) {
	handler := createTestHandler()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	handler.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var health HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&health); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if health.Status != "ok" {
		t.Errorf("Expected status 'ok', got %q", health.Status)
	}
}

func TestRun_AgainstLiveServer(t *testing.T) {
	handler := createTestHandler()

	mux := http.NewServeMux()
	mux.HandleFunc("/", handler.HandleRun)
	mux.HandleFunc("/classify", handler.HandleClassify)
	mux.HandleFunc("/health", handler.HandleHealth)

	ts := httptest.NewServer(mux)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/?from=1&to=5")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}

	want := "1\n2\nFizz\n4\nBuzz\n"
	if string(body) != want {
		t.Errorf("Live run 1..5 = %q, want %q", string(body), want)
	}
}
