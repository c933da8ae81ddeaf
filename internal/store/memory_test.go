package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreInsertAndQuery(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Insert(ctx, "appointment", Record{"appointment_id": "a1", "doctor_id": "d1", "date": "2025-02-22", "time": "9:00"})
	require.NoError(t, err)
	_, err = s.Insert(ctx, "appointment", Record{"appointment_id": "a2", "doctor_id": "d1", "date": "2025-02-23", "time": "9:30"})
	require.NoError(t, err)

	got, err := s.Query(ctx, "appointment", Filter{"doctor_id": "d1", "date": "2025-02-22"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].String("appointment_id"))

	all, err := s.Query(ctx, "appointment", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoryStoreProjection(t *testing.T) {
	s := NewMemoryStore()
	s.Seed("appointment", Record{"appointment_id": "a1", "doctor_id": "d1", "time": "10:30"})

	got, err := s.Query(context.Background(), "appointment", Filter{"doctor_id": "d1"}, "time")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Record{"time": "10:30"}, got[0])
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	stored, err := s.Insert(ctx, "patient", Record{"id": "p1", "name": "Ada"})
	require.NoError(t, err)
	stored["name"] = "mutated"

	got, err := s.Query(ctx, "patient", Filter{"id": "p1"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", got[0].String("name"))
}

func TestMemoryStoreUpdate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Seed("patient", Record{"id": "p1", "name": "Ada", "contact": "ada@example.com"})

	updated, err := s.Update(ctx, "patient", Filter{"id": "p1"}, Record{"contact": "555-0100"})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, "555-0100", updated[0].String("contact"))
	assert.Equal(t, "Ada", updated[0].String("name"))

	unchanged, err := s.Update(ctx, "patient", Filter{"id": "p1"}, Record{})
	require.NoError(t, err)
	assert.Equal(t, updated, unchanged)

	none, err := s.Update(ctx, "patient", Filter{"id": "missing"}, Record{"name": "x"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Seed("conversation",
		Record{"conversation_id": "c1", "text": "a"},
		Record{"conversation_id": "c2", "text": "b"},
	)

	removed, err := s.Delete(ctx, "conversation", Filter{"conversation_id": "c1"})
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, "c1", removed[0].String("conversation_id"))

	rest, err := s.Query(ctx, "conversation", nil)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "c2", rest[0].String("conversation_id"))

	removed, err = s.Delete(ctx, "conversation", Filter{"conversation_id": "missing"})
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestMemoryStoreRejectsEmptyFilter(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Delete(context.Background(), "patient", Filter{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStore))
	assert.True(t, errors.Is(err, ErrEmptyFilter))
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Query(ctx, "patient", nil)
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecordString(t *testing.T) {
	rec := Record{"s": "x", "n": 3, "nil": nil, "b": []byte("raw")}
	assert.Equal(t, "x", rec.String("s"))
	assert.Equal(t, "3", rec.String("n"))
	assert.Equal(t, "", rec.String("nil"))
	assert.Equal(t, "", rec.String("missing"))
	assert.Equal(t, "raw", rec.String("b"))
}

func TestOpErrorMessage(t *testing.T) {
	err := NoMatch("update", "appointment")
	assert.Equal(t, "store: update appointment: no matching record", err.Error())
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, ErrNoMatch)
}
