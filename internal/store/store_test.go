package store

import (
	"errors"
	"testing"
	"time"
)

func TestSentinelErrorsAreDistinct(t *testing.T) {
	if errors.Is(ErrNotFound, ErrAlreadyExists) {
		t.Error("ErrNotFound must not match ErrAlreadyExists")
	}
	if errors.Is(ErrConcurrentModification, ErrNotFound) {
		t.Error("ErrConcurrentModification must not match ErrNotFound")
	}

	// Ensure the interfaces are importable.
	var _ Backend
	var _ DocumentStore
	var _ AccountStore
}

func TestProfileUpdateIsEmpty(t *testing.T) {
	if !(ProfileUpdate{}).IsEmpty() {
		t.Error("zero ProfileUpdate should be empty")
	}

	name := "Alice"
	if (ProfileUpdate{DisplayName: &name}).IsEmpty() {
		t.Error("ProfileUpdate with DisplayName should not be empty")
	}

	now := time.Now()
	if (ProfileUpdate{LastLoginDate: &now}).IsEmpty() {
		t.Error("ProfileUpdate with LastLoginDate should not be empty")
	}
}
