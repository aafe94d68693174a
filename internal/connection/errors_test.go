package connection

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMatching(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := ErrConnectionFailed.WithCause(cause)

	if !errors.Is(err, ErrConnectionFailed) {
		t.Error("wrapped error does not match its sentinel")
	}
	if errors.Is(err, ErrNotConnected) {
		t.Error("error matches a different code")
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}
	if !IsConnectionError(err) {
		t.Error("IsConnectionError rejects a connection error")
	}
	if IsConnectionError(cause) {
		t.Error("IsConnectionError accepts a plain error")
	}
}

func TestErrorFormatting(t *testing.T) {
	plain := ErrNotConnected.Error()
	if plain != "[NOT_CONNECTED] not connected to MongoDB" {
		t.Errorf("Error() = %q", plain)
	}

	withCause := ErrTransportFault.WithMessage("connection closed").WithCause(fmt.Errorf("broken pipe")).Error()
	want := "[TRANSPORT_FAULT] connection closed: broken pipe"
	if withCause != want {
		t.Errorf("Error() = %q, want %q", withCause, want)
	}
}

// WithMessage and WithCause return copies; the sentinels stay pristine.
func TestErrorImmutability(t *testing.T) {
	_ = ErrNotConnected.WithMessage("changed").WithCause(fmt.Errorf("x"))
	if ErrNotConnected.Message != "not connected to MongoDB" || ErrNotConnected.Cause != nil {
		t.Error("sentinel mutated by WithMessage/WithCause")
	}
}
