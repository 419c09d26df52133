package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(New(KindConflict, "taken")); got != KindConflict {
		t.Errorf("KindOf = %s, want conflict", got)
	}

	// Wrapping with fmt preserves the kind through the chain.
	wrapped := fmt.Errorf("handler: %w", New(KindNotFound, "missing"))
	if got := KindOf(wrapped); got != KindNotFound {
		t.Errorf("KindOf(wrapped) = %s, want not_found", got)
	}

	// Unclassified errors default to transient.
	if got := KindOf(errors.New("boom")); got != KindTransient {
		t.Errorf("KindOf(plain) = %s, want transient", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindTransient, "fetch teacher", cause)

	if !errors.Is(err, cause) {
		t.Error("Wrap must keep the cause reachable via errors.Is")
	}
	if msg := err.Error(); msg != "fetch teacher: connection refused" {
		t.Errorf("Error() = %q", msg)
	}
}

func TestIsKind(t *testing.T) {
	if IsKind(nil, KindTransient) {
		t.Error("IsKind(nil) must be false")
	}
	if !IsKind(New(KindValidation, "bad"), KindValidation) {
		t.Error("IsKind must match the error's kind")
	}
	if IsKind(New(KindValidation, "bad"), KindConflict) {
		t.Error("IsKind must not match a different kind")
	}
}
