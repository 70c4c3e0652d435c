// Package session keeps the per-browser authentication state: the access
// token issued at login and the cookies the backend set alongside it. The
// browser only ever holds an opaque session ID.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no live session matches an ID.
	ErrNotFound = errors.New("session not found")
	// ErrTokenExpired is returned with a stored session whose access token
	// exp claim has passed.
	ErrTokenExpired = errors.New("session token expired")
)

// Cookie is a backend cookie replayed on every API call.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Session is the server-side record behind the session cookie.
type Session struct {
	ID        string
	Token     string
	Cookies   []Cookie
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Authenticated reports whether the session still carries a token.
func (s Session) Authenticated() bool { return s.Token != "" }

// Expired reports whether the session outlived its TTL at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store persists sessions by ID.
type Store interface {
	Get(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
	Close() error
}

// New builds a fresh session valid for ttl.
func New(token string, cookies []Cookie, ttl time.Duration) Session {
	now := time.Now().UTC()
	return Session{
		ID:        uuid.NewString(),
		Token:     token,
		Cookies:   cookies,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// ValidID reports whether id looks like an ID produced by New. Cookie values
// that fail this check never reach the store.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
