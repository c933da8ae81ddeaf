package doctors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/mediscribe-api/internal/store"
)

func TestListPassesColumnsThrough(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.Seed(Collection,
		store.Record{IDField: "d1", "name": "Dr. Grey", "specialty": "surgery"},
		store.Record{IDField: "d2", "name": "Dr. House"},
	)
	h := NewHandler(NewRepository(mem), nil).Routes()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var docs []Doctor
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "d1", docs[0].ID())
	assert.Equal(t, "surgery", docs[0]["specialty"])
	assert.Equal(t, "d2", docs[1].ID())
}

func TestListEmptyIsArray(t *testing.T) {
	h := NewHandler(NewRepository(store.NewMemoryStore()), nil).Routes()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

type failingLister struct{}

func (failingLister) List(context.Context) ([]Doctor, error) {
	return nil, fmt.Errorf("doctors: list: %w", &store.OpError{Op: "query", Collection: Collection, Err: errors.New("relation does not exist")})
}

func TestListFailureIs500(t *testing.T) {
	h := NewHandler(failingLister{}, nil).Routes()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "relation does not exist")
}
