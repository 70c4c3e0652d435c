package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := New("tok", []Cookie{{Name: "connect.sid", Value: "abc"}}, time.Hour)
			if err := store.Save(ctx, s); err != nil {
				t.Fatalf("Save: %v", err)
			}

			got, err := store.Get(ctx, s.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Token != "tok" || len(got.Cookies) != 1 || got.Cookies[0].Value != "abc" {
				t.Errorf("unexpected session %+v", got)
			}

			if err := store.Delete(ctx, s.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound after delete, got %v", err)
			}
		})
	}
}

func TestStoreExpiry(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			expired := New("old", nil, -time.Minute)
			live := New("new", nil, time.Hour)
			for _, s := range []Session{expired, live} {
				if err := store.Save(ctx, s); err != nil {
					t.Fatalf("Save: %v", err)
				}
			}

			if _, err := store.Get(ctx, expired.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("expired session should not load, got %v", err)
			}

			n, err := store.DeleteExpired(ctx, time.Now())
			if err != nil {
				t.Fatalf("DeleteExpired: %v", err)
			}
			if n != 1 {
				t.Errorf("DeleteExpired removed %d, want 1", n)
			}
			if _, err := store.Get(ctx, live.ID); err != nil {
				t.Errorf("live session lost: %v", err)
			}
		})
	}
}

func TestValidID(t *testing.T) {
	if !ValidID(New("", nil, time.Minute).ID) {
		t.Error("generated ID should be valid")
	}
	for _, id := range []string{"", "abc", "'; DROP TABLE sessions; --"} {
		if ValidID(id) {
			t.Errorf("ValidID(%q) = true", id)
		}
	}
}
