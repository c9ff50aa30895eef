package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, CodeInternal, "failed to persist run")

	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped error to match its cause")
	}
	if CodeOf(err) != CodeInternal {
		t.Fatalf("expected code %q, got %q", CodeInternal, CodeOf(err))
	}
}

func TestHasCodeThroughChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeNotFound, "run not found"))

	if !HasCode(err, CodeNotFound) {
		t.Fatalf("expected CodeNotFound through fmt.Errorf chain")
	}
	if HasCode(err, CodeInternal) {
		t.Fatalf("did not expect CodeInternal")
	}
}

func TestCodeOfUnclassified(t *testing.T) {
	if got := CodeOf(errors.New("plain")); got != CodeInternal {
		t.Fatalf("unclassified errors default to internal, got %q", got)
	}
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:      http.StatusBadRequest,
		CodeValidation:      http.StatusBadRequest,
		CodeEmptyInput:      http.StatusBadRequest,
		CodeNotFound:        http.StatusNotFound,
		CodeUnauthorized:    http.StatusUnauthorized,
		CodeForbidden:       http.StatusForbidden,
		CodePaymentRequired: http.StatusPaymentRequired,
		CodeConflict:        http.StatusConflict,
		CodeInternal:        http.StatusInternalServerError,
		Code("unknown"):     http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := ToHTTPStatus(code); got != want {
			t.Errorf("ToHTTPStatus(%q) = %d, want %d", code, got, want)
		}
	}
}
