// Package apperr defines the failure taxonomy shared by the store, the
// services and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates no to-do item exists with the requested id.
var ErrNotFound = errors.New("todo not found")

// ErrTranslatorUnavailable indicates the translation backend was not configured at startup.
var ErrTranslatorUnavailable = errors.New("translation service not configured")

// ValidationError reports a payload rejected before reaching the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// StoreError wraps a failed store write.
type StoreError struct {
	Op  string // create, update, delete, list, get
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("Failed to %s todo: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// UpstreamError wraps a failed call to the translation backend.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Failed to translate text: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Invalid is shorthand for building a *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
