package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"expensetracker/internal/log"
)

// Options configures the session cookie.
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager ties a Store to the browser cookie that names a session.
type Manager struct {
	store  Store
	opts   Options
	logger *log.Logger
	now    func() time.Time
}

func NewManager(store Store, opts Options, logger *log.Logger) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "accessToken"
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Manager{
		store:  store,
		opts:   opts,
		logger: logger.WithComponent(log.ComponentSession),
		now:    time.Now,
	}
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string { return m.opts.CookieName }

// Start creates a session for a fresh login and sets its cookie. Any
// session the request already carried is discarded.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, r *http.Request, token string, cookies []Cookie) (Session, error) {
	if old, ok := m.id(r); ok {
		if err := m.store.Delete(ctx, old); err != nil {
			m.logger.WarnContext(ctx, "Failed to drop previous session", log.FieldError, err)
		}
	}

	ttl := m.opts.TTL
	if exp, ok := TokenExpiry(token); ok {
		if d := exp.Sub(m.now()); d > 0 && d < ttl {
			ttl = d
		}
	}

	s := New(token, cookies, ttl)
	if err := m.store.Save(ctx, s); err != nil {
		return Session{}, fmt.Errorf("start session: %w", err)
	}
	http.SetCookie(w, m.cookie(s.ID, int(ttl.Seconds())))
	return s, nil
}

// Load returns the live, authenticated session named by the request
// cookie. When the token's exp claim has passed the session is returned
// together with ErrTokenExpired so the caller can end it.
func (m *Manager) Load(ctx context.Context, r *http.Request) (Session, error) {
	id, ok := m.id(r)
	if !ok {
		return Session{}, ErrNotFound
	}
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if !s.Authenticated() {
		return Session{}, ErrNotFound
	}
	if TokenExpired(s.Token, m.now()) {
		return s, ErrTokenExpired
	}
	return s, nil
}

// Clear forgets the token of the request's session and expires its cookie.
func (m *Manager) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, m.cookie("", -1))
	id, ok := m.id(r)
	if !ok {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Sweep removes expired sessions until ctx is done.
func (m *Manager) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := m.store.DeleteExpired(ctx, m.now())
			if err != nil {
				m.logger.Error("Session sweep failed", log.FieldError, err)
				continue
			}
			if n > 0 {
				m.logger.Debug("Expired sessions removed", "count", n)
			}
		}
	}
}

func (m *Manager) id(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil || !ValidID(c.Value) {
		return "", false
	}
	return c.Value, true
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
