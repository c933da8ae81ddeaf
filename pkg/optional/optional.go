// Package optional provides a field type for partial updates that keeps
// "absent", "explicit null" and "set" apart when decoding JSON.
package optional

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNull is returned by NotNull when a field was sent as JSON null.
var ErrNull = errors.New("must not be null")

// Field is a value that may be absent, null, or set.
// The zero value is absent.
type Field[T any] struct {
	value   T
	present bool
	null    bool
}

// Of returns a set field.
func Of[T any](v T) Field[T] {
	return Field[T]{value: v, present: true}
}

// Null returns a field that was supplied as an explicit null.
func Null[T any]() Field[T] {
	return Field[T]{present: true, null: true}
}

// Present reports whether the field was supplied at all.
func (f Field[T]) Present() bool { return f.present }

// IsNull reports whether the field was supplied as null.
func (f Field[T]) IsNull() bool { return f.present && f.null }

// Get returns the value and whether it was supplied with a non-null value.
func (f Field[T]) Get() (T, bool) {
	if !f.present || f.null {
		var zero T
		return zero, false
	}
	return f.value, true
}

// NotNull returns an error naming the field when it was sent as null.
func (f Field[T]) NotNull(name string) error {
	if f.IsNull() {
		return fmt.Errorf("%s %w", name, ErrNull)
	}
	return nil
}

// UnmarshalJSON is only invoked when the key exists in the payload.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.null = true
		var zero T
		f.value = zero
		return nil
	}
	f.null = false
	return json.Unmarshal(data, &f.value)
}

// MarshalJSON encodes absent and null fields as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.present || f.null {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
