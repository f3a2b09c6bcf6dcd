package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestStoreError(t *testing.T) {
	inner := errors.New("disk I/O error")
	err := &StoreError{Op: "create", Err: inner}

	expected := "Failed to create todo: disk I/O error"
	if err.Error() != expected {
		t.Errorf("StoreError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, inner) {
		t.Error("StoreError should unwrap to the inner error")
	}
}

func TestUpstreamError(t *testing.T) {
	inner := errors.New("quota exceeded")
	wrapped := fmt.Errorf("translate: %w", &UpstreamError{Err: inner})

	var ue *UpstreamError
	if !errors.As(wrapped, &ue) {
		t.Fatal("errors.As should find *UpstreamError")
	}
	if ue.Error() != "Failed to translate text: quota exceeded" {
		t.Errorf("UpstreamError.Error() = %q", ue.Error())
	}
}

func TestInvalid(t *testing.T) {
	err := Invalid("title", "must not be empty")

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatal("Invalid should return *ValidationError")
	}
	if ve.Field != "title" || err.Error() != "title: must not be empty" {
		t.Errorf("unexpected validation error: %+v", ve)
	}
}
