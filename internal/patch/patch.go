// Package patch provides an optional-field wrapper for partial updates.
//
// A Field that was never assigned, or that was decoded from an absent JSON key
// or a JSON null, is unset. Unset fields keep the previously persisted value.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field holds a value that may or may not have been supplied.
type Field[T any] struct {
	value T
	set   bool
}

// Set returns a Field carrying v.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// IsSet reports whether a value was supplied.
func (f Field[T]) IsSet() bool {
	return f.set
}

// Get returns the value and whether it was supplied.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.set
}

// OrElse returns the supplied value, or prev when the field is unset.
func (f Field[T]) OrElse(prev T) T {
	if f.set {
		return f.value
	}
	return prev
}

// Apply writes the supplied value into dst. It is a no-op for unset fields.
func (f Field[T]) Apply(dst *T) {
	if f.set {
		*dst = f.value
	}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.value, f.set = zero, false
		return nil
	}
	if err := json.Unmarshal(data, &f.value); err != nil {
		return err
	}
	f.set = true
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
