package auth

import (
	"testing"
	"time"
)

func TestHashPassword_Deterministic(t *testing.T) {
	t.Parallel()

	h1 := HashPassword("secret1", "salt-a")
	h2 := HashPassword("secret1", "salt-a")

	if h1 != h2 {
		t.Error("same password and salt should produce the same hash")
	}

	if len(h1) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(h1))
	}
}

func TestHashPassword_SaltChangesHash(t *testing.T) {
	t.Parallel()

	if HashPassword("secret1", "salt-a") == HashPassword("secret1", "salt-b") {
		t.Error("different salts should produce different hashes")
	}
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	stored := HashPassword("secret1", "salt-a")

	if !VerifyPassword("secret1", "salt-a", stored) {
		t.Error("correct password should verify")
	}
	if VerifyPassword("wrong", "salt-a", stored) {
		t.Error("wrong password should not verify")
	}
	if VerifyPassword("secret1", "salt-b", stored) {
		t.Error("wrong salt should not verify")
	}
}

func TestUserHash(t *testing.T) {
	t.Parallel()

	now := time.Now()

	h1 := UserHash("alice", now)
	h2 := UserHash("alice", now.Add(time.Nanosecond))

	if h1 == h2 {
		t.Error("different creation instants should produce different user hashes")
	}

	if h1 == HashPassword("alice", "") {
		t.Error("user hash must not collide with a password hash of the username")
	}

	if UserHash("alice", now) != h1 {
		t.Error("user hash should be deterministic for the same inputs")
	}
}
