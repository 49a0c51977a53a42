package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSecretLifecycle(t *testing.T) {
	gokeyring.MockInit()

	if _, err := GetAPIKey(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := Set(CoachAPIKey, "gsk_test"); err != nil {
		t.Fatalf("failed to set key: %v", err)
	}
	got, err := GetAPIKey()
	if err != nil {
		t.Fatalf("failed to get key: %v", err)
	}
	if got != "gsk_test" {
		t.Errorf("expected gsk_test, got %q", got)
	}

	if err := Delete(CoachAPIKey); err != nil {
		t.Fatalf("failed to delete key: %v", err)
	}
	if err := Delete(CoachAPIKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSetRejectsEmpty(t *testing.T) {
	gokeyring.MockInit()
	if err := Set(ConnectionString, ""); err == nil {
		t.Error("expected error for empty value")
	}
}

func TestUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus"))
	t.Cleanup(gokeyring.MockInit)

	if _, err := Get(CoachAPIKey); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("expected ErrKeyringUnavailable, got %v", err)
	}
	if IsAvailable() {
		t.Error("expected keyring to be unavailable")
	}
}
