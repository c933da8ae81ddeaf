package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

func TestRequestLoggerRecordsStatusAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter("info", &buf)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Appointment not found"}`))
	})
	h := chimw.RequestID(RequestLogger(logger)(handler))

	req := httptest.NewRequest(http.MethodGet, "/api/appointments/missing", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "request completed" {
		t.Fatalf("unexpected message %v", entry["msg"])
	}
	if entry["status"] != float64(http.StatusNotFound) {
		t.Fatalf("expected status 404, got %v", entry["status"])
	}
	if entry["request_id"] != "req-123" {
		t.Fatalf("expected request id from header, got %v", entry["request_id"])
	}
	if entry["path"] != "/api/appointments/missing" {
		t.Fatalf("unexpected path %v", entry["path"])
	}
}

func TestRequestLoggerDefaultsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter("info", &buf)

	handler := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	rec := httptest.NewRecorder()
	RequestLogger(logger)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log: %v", err)
	}
	if entry["status"] != float64(http.StatusOK) {
		t.Fatalf("expected status 200, got %v", entry["status"])
	}
	if id, _ := entry["request_id"].(string); id == "" {
		t.Fatalf("expected generated request id")
	}
}
