package models

import (
	"bytes"
	"encoding/json"
)

// Field is a patch value that tells apart "not supplied", "supplied as null"
// and "supplied with a value". The zero Field is "not supplied".
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a supplied, non-null Field.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a Field supplied as an explicit null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// IsZero lets `omitzero` drop unsupplied fields when a patch is encoded.
func (f Field[T]) IsZero() bool {
	return !f.Set
}

// Ptr returns nil for a null Field and a pointer to the value otherwise.
func (f Field[T]) Ptr() *T {
	if f.Null {
		return nil
	}
	v := f.Value
	return &v
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// UnmarshalJSON is only invoked when the key is present in the document,
// which is what marks the Field as supplied.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	var zero T
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Null = true
		f.Value = zero
		return nil
	}
	f.Null = false
	f.Value = zero
	return json.Unmarshal(b, &f.Value)
}
