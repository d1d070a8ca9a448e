package leaderrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := New(KindNotFound, "lead abc not found")
	want := "lead error (not_found): lead abc not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	err := Newf(KindValidation, "bad input: %s", "x")
	if !Is(err, KindValidation) {
		t.Error("Is should match the error's kind")
	}
	if Is(err, KindPersistence) {
		t.Error("Is should not match a different kind")
	}
	if Is(errors.New("plain"), KindValidation) {
		t.Error("Is should not match unclassified errors")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := New(KindExternalService, "summarizer unavailable")
	wrapped := fmt.Errorf("turn failed: %w", inner)
	if !Is(wrapped, KindExternalService) {
		t.Error("Is should see through fmt.Errorf wrapping")
	}
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(New(KindConfiguration, "no questions"))
	if !ok || kind != KindConfiguration {
		t.Errorf("KindOf = %v, %v", kind, ok)
	}

	kind, ok = KindOf(errors.New("plain"))
	if ok {
		t.Error("plain errors are not classified")
	}
	if kind != KindClassification {
		t.Errorf("unclassified fallback kind = %v", kind)
	}
}

func TestWithCauseUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := WithCause(KindPersistence, cause, "conversation update failed")
	if !errors.Is(err, cause) {
		t.Error("WithCause should preserve the cause chain")
	}
	if !Is(err, KindPersistence) {
		t.Error("WithCause should carry the kind")
	}
}

func TestKindString(t *testing.T) {
	kinds := map[Kind]string{
		KindValidation:      "validation",
		KindNotFound:        "not_found",
		KindConfiguration:   "configuration",
		KindPersistence:     "persistence",
		KindExternalService: "external_service",
		KindClassification:  "classification",
	}
	for kind, want := range kinds {
		if kind.String() != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, kind.String(), want)
		}
	}
}
