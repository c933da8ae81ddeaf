package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/mediscribe-api/internal/store"
	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

func newTestHandler(st store.Store) http.Handler {
	repo := NewRepository(st, nil)
	return NewHandler(repo, NewAvailability(repo, nil), logging.New("error")).Routes()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Detail
}

func TestHandlerLifecycle(t *testing.T) {
	h := newTestHandler(store.NewMemoryStore())

	w := doRequest(t, h, http.MethodPost, "/", `{"date":"2025-02-22","time":"9:00","patient_id":"p1","type":"checkup","doctor_id":"doctorA"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	w = doRequest(t, h, http.MethodGet, "/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created, got)

	w = doRequest(t, h, http.MethodPut, "/"+created.ID, `{"type":"follow-up"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "follow-up", got.Type)
	assert.Equal(t, "9:00", got.Time)

	w = doRequest(t, h, http.MethodGet, "/doctor/doctorA/date/2025-02-22", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	w = doRequest(t, h, http.MethodGet, "/doctor/doctorA/times/2025-02-22", "")
	require.Equal(t, http.StatusOK, w.Code)
	var free []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &free))
	assert.Len(t, free, 19)
	assert.NotContains(t, free, "9:00")

	w = doRequest(t, h, http.MethodDelete, "/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, h, http.MethodGet, "/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Appointment not found", detail(t, w))
}

func TestHandlerCreateValidation(t *testing.T) {
	h := newTestHandler(store.NewMemoryStore())

	w := doRequest(t, h, http.MethodPost, "/", `{"date":"2025-02-22"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", detail(t, w))

	w = doRequest(t, h, http.MethodPost, "/", `{"date":"2025-02-22","time":"9:00"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, detail(t, w), "patient_id")
}

func TestHandlerUpdateErrors(t *testing.T) {
	h := newTestHandler(store.NewMemoryStore())

	w := doRequest(t, h, http.MethodPut, "/missing", `{"time":"11:00"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, h, http.MethodPut, "/missing", `{"time":null}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, detail(t, w), "time must not be null")
}

func TestHandlerDeleteMissingIsNotAnError(t *testing.T) {
	h := newTestHandler(store.NewMemoryStore())
	w := doRequest(t, h, http.MethodDelete, "/missing", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHandlerStoreFailures(t *testing.T) {
	h := newTestHandler(failingStore{err: errors.New("connection refused")})

	w := doRequest(t, h, http.MethodGet, "/a1", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doRequest(t, h, http.MethodDelete, "/a1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, detail(t, w), "connection refused")

	w = doRequest(t, h, http.MethodGet, "/doctor/doctorA/times/2025-02-22", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, h, http.MethodGet, "/doctor/doctorA/date/2025-02-22", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
