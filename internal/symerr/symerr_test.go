package symerr

import (
	"errors"
	"testing"
)

func TestNewAndKind(t *testing.T) {
	err := New(TypeMismatch, "sort mismatch")
	if err.Kind != TypeMismatch {
		t.Errorf("Kind = %v, want TypeMismatch", err.Kind)
	}
	if err.Error() == "" {
		t.Error("Error() must not be empty")
	}
}

func TestNewfFormats(t *testing.T) {
	err := Newf(InvalidRange, "bad range %d..%d", 3, 1)
	want := "bad range 3..1"
	if err.Message != want {
		t.Errorf("Message = %q, want %q", err.Message, want)
	}
}

func TestInvalidRangeErr(t *testing.T) {
	err := InvalidRangeErr("Integer", "5", "1")
	if err.Kind != InvalidRange {
		t.Errorf("Kind = %v, want InvalidRange", err.Kind)
	}
}

func TestWrapPreservesUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	wrapped := Wrap(cause, Capacity, "counter overflow")
	if wrapped.Kind != Capacity {
		t.Errorf("Kind = %v, want Capacity", wrapped.Kind)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("Wrap must preserve the cause so errors.Is still finds it")
	}
}
