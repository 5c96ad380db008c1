package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/readstash/readstash/internal/auth"
	"github.com/readstash/readstash/internal/model"
	"github.com/readstash/readstash/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserLoader struct {
	users map[string]*model.User
}

func (f *fakeUserLoader) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func newIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()
	issuer, err := auth.NewTokenIssuer(bytes.Repeat([]byte("k"), 32), time.Hour)
	if err != nil {
		t.Fatalf("build token issuer: %v", err)
	}
	return issuer
}

func TestRequireAuth_ValidToken(t *testing.T) {
	t.Parallel()

	issuer := newIssuer(t)
	token, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	loader := &fakeUserLoader{users: map[string]*model.User{
		"alice": {ID: "user-1", Username: "alice"},
	}}

	var gotUserID string
	handler := RequireAuth(issuer, loader, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = auth.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/links", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUserID != "user-1" {
		t.Errorf("expected user on context, got %q", gotUserID)
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	t.Parallel()

	issuer := newIssuer(t)
	loader := &fakeUserLoader{users: map[string]*model.User{}}

	validToken, err := issuer.Issue("ghost")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	handler := RequireAuth(issuer, loader, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for rejected requests")
	}))

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-token"},
		{"token for deleted user", "Bearer " + validToken},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/links", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", tc.name, rec.Code)
			continue
		}

		var body struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Errorf("%s: decode body: %v", tc.name, err)
			continue
		}
		if body.Success || body.Error != invalidTokenMessage {
			t.Errorf("%s: unexpected envelope: %+v", tc.name, body)
		}
	}
}

func TestOptionalAuth_AnonymousPasses(t *testing.T) {
	t.Parallel()

	issuer := newIssuer(t)
	loader := &fakeUserLoader{users: map[string]*model.User{
		"alice": {ID: "user-1", Username: "alice"},
	}}

	var gotUserID string
	handler := OptionalAuth(issuer, loader)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = auth.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous request rejected: %d", rec.Code)
	}
	if gotUserID != "" {
		t.Errorf("expected no user on context, got %q", gotUserID)
	}

	token, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/metrics", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotUserID != "user-1" {
		t.Errorf("expected resolved user, got %q", gotUserID)
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen == "" {
		t.Error("expected generated request id")
	}
	if rec.Header().Get(RequestIDHeader) != seen {
		t.Error("request id not echoed in response header")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "upstream-id" {
		t.Errorf("expected caller-supplied id to be kept, got %q", seen)
	}
}

func TestRecoverer(t *testing.T) {
	t.Parallel()

	handler := Recoverer(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var body struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Success {
		t.Error("expected success=false envelope")
	}
}

func TestMaxBodySize(t *testing.T) {
	t.Parallel()

	handler := MaxBodySize(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("tiny"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("small body rejected: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("this body is too large"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized body accepted: %d", rec.Code)
	}
}
