package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func captureJSON(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init(Config{Level: level, Format: "json", Output: &buf})
	t.Cleanup(func() { Init(Config{}) })
	return &buf
}

func TestInit_JSONOutput(t *testing.T) {
	buf := captureJSON(t, "info")

	Info().Str("key", "value").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["message"] != "hello" {
		t.Errorf("message = %v, want %q", entry["message"], "hello")
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v, want %q", entry["key"], "value")
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
}

func TestInit_LevelFilters(t *testing.T) {
	buf := captureJSON(t, "warn")

	Info().Msg("dropped")
	Debug().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}

	Warn().Msg("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("expected warn message, got %q", buf.String())
	}
}

func TestInit_Disabled(t *testing.T) {
	buf := captureJSON(t, "disabled")

	Error().Msg("nothing")
	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got %q", buf.String())
	}
}

func TestComponent_AddsField(t *testing.T) {
	buf := captureJSON(t, "info")

	Component("search").Info().Msg("x")

	if !strings.Contains(buf.String(), `"component":"search"`) {
		t.Errorf("missing component field: %q", buf.String())
	}
}

func TestRequestLogger_LogsStatus(t *testing.T) {
	buf := captureJSON(t, "info")

	h := chimiddleware.RequestID(RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/x", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if int(entry["status"].(float64)) != http.StatusTeapot {
		t.Errorf("status = %v, want 418", entry["status"])
	}
	if entry["path"] != "/x" {
		t.Errorf("path = %v, want /x", entry["path"])
	}
	if entry["request_id"] == "" {
		t.Error("expected request_id")
	}
}
