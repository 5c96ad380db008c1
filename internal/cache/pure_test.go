package cache

import (
	"context"
	"testing"
)

// Pure unit tests for helpers that need no Redis connection.

func TestNew_RejectsMalformedURL(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), "not a redis url", Options{}); err == nil {
		t.Error("expected error for malformed redis url")
	}
}

func TestHashIP(t *testing.T) {
	t.Parallel()

	h1 := hashIP("192.0.2.1")
	h2 := hashIP("192.0.2.2")

	if len(h1) != 16 {
		t.Errorf("expected 16 hex chars, got %d", len(h1))
	}
	if h1 == h2 {
		t.Error("different IPs should hash differently")
	}
	if hashIP("192.0.2.1") != h1 {
		t.Error("hash should be deterministic")
	}
}
