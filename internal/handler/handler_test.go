package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/readstash/readstash/internal/auth"
	"github.com/readstash/readstash/internal/handler/dto"
	"github.com/readstash/readstash/internal/model"
	"github.com/readstash/readstash/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func authedRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := auth.ContextWithUser(req.Context(), &model.User{ID: "user-1", Username: "alice"})
	return req.WithContext(ctx)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

// --- auth ---

type stubAuthService struct {
	registerErr   error
	loginErr      error
	resetOK       bool
	resetErr      error
	resetPassword string
}

func (s *stubAuthService) Register(_ context.Context, username, _ string) (*model.User, string, error) {
	if s.registerErr != nil {
		return nil, "", s.registerErr
	}
	return &model.User{ID: "user-1", Username: username, UserHash: "hash"}, "token-123", nil
}

func (s *stubAuthService) Login(_ context.Context, username, _ string) (*model.User, string, error) {
	if s.loginErr != nil {
		return nil, "", s.loginErr
	}
	return &model.User{ID: "user-1", Username: username}, "token-123", nil
}

func (s *stubAuthService) ResetPassword(_ context.Context, _ string, newPassword string) (bool, error) {
	s.resetPassword = newPassword
	return s.resetOK, s.resetErr
}

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(&stubAuthService{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"username":"alice","password":"pw"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp dto.AuthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Token != "token-123" || resp.User == nil {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_RegisterErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{"bad body", "{", nil, http.StatusBadRequest},
		{"duplicate", `{"username":"alice","password":"pw"}`, service.ErrUsernameExists, http.StatusConflict},
		{"missing fields", `{}`, service.ErrMissingCredentials, http.StatusBadRequest},
		{"backend failure", `{"username":"alice","password":"pw"}`, errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		h := NewAuthHandler(&stubAuthService{registerErr: tc.serviceErr}, discardLogger())
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tc.body))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		if rec.Code != tc.wantStatus {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.wantStatus, rec.Code)
			continue
		}
		if resp := decodeResponse(t, rec); resp.Success {
			t.Errorf("%s: expected success=false", tc.name)
		}
	}
}

func TestAuthHandler_LoginErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		serviceErr error
		wantStatus int
	}{
		{service.ErrUserNotFound, http.StatusNotFound},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		h := NewAuthHandler(&stubAuthService{loginErr: tc.serviceErr}, discardLogger())
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"alice","password":"pw"}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		if rec.Code != tc.wantStatus {
			t.Errorf("%v: expected %d, got %d", tc.serviceErr, tc.wantStatus, rec.Code)
		}
	}
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	t.Parallel()

	captured := &stubAuthService{resetOK: true}
	h := NewAuthHandler(captured, discardLogger())
	req := httptest.NewRequest(http.MethodPost, "/auth/reset-password", strings.NewReader(`{"username":"alice","newPassword":"pw2"}`))
	rec := httptest.NewRecorder()
	h.ResetPassword(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.resetPassword != "pw2" {
		t.Errorf("newPassword key not decoded, service saw %q", captured.resetPassword)
	}

	h = NewAuthHandler(&stubAuthService{resetOK: false}, discardLogger())
	req = httptest.NewRequest(http.MethodPost, "/auth/reset-password", strings.NewReader(`{"username":"ghost","newPassword":"pw"}`))
	rec = httptest.NewRecorder()
	h.ResetPassword(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown user: expected 404, got %d", rec.Code)
	}
}

// --- links ---

type stubLinkService struct {
	links      []*model.Link
	changed    bool
	createErr  error
	err        error
	lastLinkID string
}

func (s *stubLinkService) Create(_ context.Context, userID string, input service.CreateLinkInput) (*model.Link, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &model.Link{ID: "link-1", UserID: userID, URL: input.URL, Title: input.Title}, nil
}

func (s *stubLinkService) List(context.Context, string) ([]*model.Link, error) {
	return s.links, s.err
}

func (s *stubLinkService) Delete(_ context.Context, _ string, linkID string) (bool, error) {
	s.lastLinkID = linkID
	return s.changed, s.err
}

func (s *stubLinkService) MarkRead(_ context.Context, _ string, linkID string, _ bool) (bool, error) {
	s.lastLinkID = linkID
	return s.changed, s.err
}

func (s *stubLinkService) SetFavorite(_ context.Context, _ string, linkID string, _ bool) (bool, error) {
	s.lastLinkID = linkID
	return s.changed, s.err
}

func TestLinkHandler_List(t *testing.T) {
	t.Parallel()

	h := NewLinkHandler(&stubLinkService{links: []*model.Link{{ID: "link-1"}}}, discardLogger())
	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/links", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.LinksResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || len(resp.Links) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestLinkHandler_Create(t *testing.T) {
	t.Parallel()

	h := NewLinkHandler(&stubLinkService{}, discardLogger())
	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/links", `{"url":"https://example.com"}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	h = NewLinkHandler(&stubLinkService{createErr: service.ErrMissingURL}, discardLogger())
	rec = httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/links", `{}`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing url: expected 400, got %d", rec.Code)
	}
}

func TestLinkHandler_DeleteMiss(t *testing.T) {
	t.Parallel()

	h := NewLinkHandler(&stubLinkService{changed: false}, discardLogger())
	rec := httptest.NewRecorder()
	h.Delete(rec, authedRequest(http.MethodDelete, "/links?id=link-9", ""))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing link, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Delete(rec, authedRequest(http.MethodDelete, "/links", ""))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without id, got %d", rec.Code)
	}
}

func TestLinkHandler_MarkReadAndFavorite(t *testing.T) {
	t.Parallel()

	svc := &stubLinkService{changed: true}
	h := NewLinkHandler(svc, discardLogger())

	// Wire keys are linkId/isRead/isFavorite; the reminders action is
	// the one that uses "id".
	rec := httptest.NewRecorder()
	h.MarkRead(rec, authedRequest(http.MethodPost, "/links/mark-read", `{"linkId":"link-1","isRead":true}`))
	if rec.Code != http.StatusOK {
		t.Errorf("mark-read: expected 200, got %d", rec.Code)
	}
	if svc.lastLinkID != "link-1" {
		t.Errorf("linkId key not decoded, service saw %q", svc.lastLinkID)
	}

	rec = httptest.NewRecorder()
	h.ToggleFavorite(rec, authedRequest(http.MethodPost, "/links/toggle-favorite", `{"linkId":"link-2","isFavorite":true}`))
	if rec.Code != http.StatusOK {
		t.Errorf("toggle-favorite: expected 200, got %d", rec.Code)
	}
	if svc.lastLinkID != "link-2" {
		t.Errorf("linkId key not decoded, service saw %q", svc.lastLinkID)
	}

	miss := NewLinkHandler(&stubLinkService{changed: false}, discardLogger())
	rec = httptest.NewRecorder()
	miss.MarkRead(rec, authedRequest(http.MethodPost, "/links/mark-read", `{"linkId":"link-9","isRead":true}`))
	if rec.Code != http.StatusNotFound {
		t.Errorf("mark-read miss: expected 404, got %d", rec.Code)
	}
}

// --- reminders ---

type stubReminderService struct {
	reminders []*model.Reminder
	changed   bool
}

func (s *stubReminderService) Unseen(context.Context, string) ([]*model.Reminder, error) {
	return s.reminders, nil
}

func (s *stubReminderService) MarkSeen(context.Context, string, string) (bool, error) {
	return s.changed, nil
}

func TestReminderHandler_Action(t *testing.T) {
	t.Parallel()

	h := NewReminderHandler(&stubReminderService{changed: true}, discardLogger())

	rec := httptest.NewRecorder()
	h.Action(rec, authedRequest(http.MethodPost, "/reminders", `{"action":"mark_seen","id":"rem-1"}`))
	if rec.Code != http.StatusOK {
		t.Errorf("mark_seen: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Action(rec, authedRequest(http.MethodPost, "/reminders", `{"action":"snooze","id":"rem-1"}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown action: expected 400, got %d", rec.Code)
	}

	miss := NewReminderHandler(&stubReminderService{changed: false}, discardLogger())
	rec = httptest.NewRecorder()
	miss.Action(rec, authedRequest(http.MethodPost, "/reminders", `{"action":"mark_seen","id":"rem-9"}`))
	if rec.Code != http.StatusNotFound {
		t.Errorf("miss: expected 404, got %d", rec.Code)
	}
}

// --- metrics ---

type stubPublisher struct {
	events []*model.Event
}

func (s *stubPublisher) PublishAsync(event *model.Event) {
	s.events = append(s.events, event)
}

func TestMetricsHandler_Record(t *testing.T) {
	t.Parallel()

	pub := &stubPublisher{}
	h := NewMetricsHandler(pub, discardLogger())

	rec := httptest.NewRecorder()
	h.Record(rec, authedRequest(http.MethodPost, "/metrics", `{"event_type":"link_created","metadata":{"category":"technology"}}`))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.events))
	}
	if pub.events[0].UserID != "user-1" || pub.events[0].EventType != "link_created" {
		t.Errorf("unexpected event: %+v", pub.events[0])
	}
}

func TestMetricsHandler_AnonymousAndInvalid(t *testing.T) {
	t.Parallel()

	pub := &stubPublisher{}
	h := NewMetricsHandler(pub, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/metrics", strings.NewReader(`{"event_type":"page_view"}`))
	rec := httptest.NewRecorder()
	h.Record(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("anonymous event rejected: %d", rec.Code)
	}
	if pub.events[0].UserID != "" {
		t.Errorf("expected empty user id, got %q", pub.events[0].UserID)
	}

	rec = httptest.NewRecorder()
	h.Record(rec, httptest.NewRequest(http.MethodPost, "/metrics", strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing event_type: expected 400, got %d", rec.Code)
	}
}

// --- health ---

type stubDB struct {
	pingErr  error
	count    int64
	countErr error
}

func (s *stubDB) Ping(context.Context) error { return s.pingErr }

func (s *stubDB) UserCount(context.Context) (int64, error) { return s.count, s.countErr }

type stubCache struct {
	pingErr error
}

func (s *stubCache) Ping(context.Context) error { return s.pingErr }

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(&stubDB{count: 42}, &stubCache{}, discardLogger())
	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Database.UserCount != 42 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(&stubDB{pingErr: errors.New("down")}, &stubCache{}, discardLogger())
	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp dto.HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "unavailable" || resp.Database.Status != "unreachable" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHealthHandler_CacheDegraded(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(&stubDB{count: 1}, &stubCache{pingErr: errors.New("down")}, discardLogger())
	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("cache outage must not fail health, got %d", rec.Code)
	}

	var resp dto.HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "degraded" || resp.Cache.Status != "unreachable" {
		t.Errorf("unexpected response: %+v", resp)
	}
}
