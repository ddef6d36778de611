package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus_MapsCodes(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewInvalidInputError("bad"), http.StatusBadRequest},
		{NewInUseError("in use"), http.StatusBadRequest},
		{NewNotFoundError("missing"), http.StatusNotFound},
		{NewAlreadyExistsError("dup"), http.StatusConflict},
		{NewInternalError("boom"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("wrap: %w", NewNotFoundError("x")), http.StatusNotFound},
	}

	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestMessage_IncludesCause(t *testing.T) {
	err := NewInternalErrorWithCause("completion request failed", errors.New("connection refused"))

	if got := Message(err); got != "completion request failed: connection refused" {
		t.Fatalf("unexpected message: %q", got)
	}
	if !errors.Is(err, err.Err) {
		t.Fatal("expected cause to be reachable through Unwrap")
	}
}

func TestMessage_PlainError(t *testing.T) {
	if got := Message(errors.New("raw")); got != "raw" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestPredicates(t *testing.T) {
	if !IsNotFound(NewNotFoundError("x")) {
		t.Fatal("expected not found")
	}
	if !IsAlreadyExists(NewAlreadyExistsError("x")) {
		t.Fatal("expected already exists")
	}
	if !IsInvalidInput(NewInvalidInputError("x")) {
		t.Fatal("expected invalid input")
	}
	if IsNotFound(errors.New("x")) {
		t.Fatal("plain errors are never not-found")
	}
}
