package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"expensetracker/internal/log"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func TestTokenExpiry(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		token   string
		expired bool
	}{
		{"opaque token", "not-a-jwt", false},
		{"empty", "", false},
		{"future exp", signedToken(t, now.Add(time.Hour)), false},
		{"past exp", signedToken(t, now.Add(-time.Hour)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenExpired(tt.token, now); got != tt.expired {
				t.Errorf("TokenExpired = %v, want %v", got, tt.expired)
			}
		})
	}
}

func newTestManager() (*Manager, *MemoryStore) {
	store := NewMemoryStore()
	return NewManager(store, Options{CookieName: "sid", TTL: time.Hour}, log.Discard()), store
}

func withCookies(r *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestManagerStartLoadClear(t *testing.T) {
	m, store := newTestManager()
	ctx := context.Background()

	rec := httptest.NewRecorder()
	s, err := m.Start(ctx, rec, httptest.NewRequest(http.MethodPost, "/login", nil), "tok", []Cookie{{Name: "connect.sid", Value: "abc"}})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "sid" || cookies[0].Value != s.ID || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookie %+v", cookies)
	}

	req := withCookies(httptest.NewRequest(http.MethodGet, "/dashboard", nil), rec)
	got, err := m.Load(ctx, req)
	if err != nil || got.Token != "tok" {
		t.Fatalf("Load: %+v, %v", got, err)
	}

	clearRec := httptest.NewRecorder()
	if err := m.Clear(ctx, clearRec, req); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("session not removed from store")
	}
	if c := clearRec.Result().Cookies(); len(c) != 1 || c[0].MaxAge >= 0 {
		t.Errorf("expected expiring cookie, got %+v", c)
	}
	if _, err := m.Load(ctx, req); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after clear, got %v", err)
	}
}

func TestManagerRejectsExpiredToken(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	rec := httptest.NewRecorder()
	if _, err := m.Start(ctx, rec, httptest.NewRequest(http.MethodPost, "/login", nil), signedToken(t, time.Now().Add(time.Minute)), nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	req := withCookies(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	sess, err := m.Load(ctx, req)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if sess.ID == "" {
		t.Error("expired session returned without its ID")
	}
}

func TestManagerStartReplacesPreviousSession(t *testing.T) {
	m, store := newTestManager()
	ctx := context.Background()

	first := httptest.NewRecorder()
	if _, err := m.Start(ctx, first, httptest.NewRequest(http.MethodPost, "/login", nil), "a", nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	req := withCookies(httptest.NewRequest(http.MethodPost, "/login", nil), first)
	if _, err := m.Start(ctx, httptest.NewRecorder(), req, "b", nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("store holds %d sessions, want 1", store.Len())
	}
}

func TestLoadWithoutCookie(t *testing.T) {
	m, _ := newTestManager()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "garbage"})
	if _, err := m.Load(context.Background(), req); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
