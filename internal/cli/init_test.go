package cli

import (
	"path/filepath"
	"testing"

	"expensetracker/internal/config"
	"expensetracker/internal/events"
	"expensetracker/internal/log"
	"expensetracker/internal/session"
)

func TestOpenSessionStore(t *testing.T) {
	tests := []struct {
		name    string
		backend string
	}{
		{"memory", config.SessionMemory},
		{"sqlite", config.SessionSQLite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Load()
			cfg.SessionBackend = tt.backend
			cfg.SQLiteDBPath = filepath.Join(t.TempDir(), "nested", "sessions.db")

			store, err := OpenSessionStore(cfg)
			if err != nil {
				t.Fatalf("OpenSessionStore: %v", err)
			}
			defer store.Close()

			switch tt.backend {
			case config.SessionSQLite:
				if _, ok := store.(*session.SQLiteStore); !ok {
					t.Errorf("store = %T, want *session.SQLiteStore", store)
				}
			default:
				if _, ok := store.(*session.MemoryStore); !ok {
					t.Errorf("store = %T, want *session.MemoryStore", store)
				}
			}
		})
	}
}

func TestOpenPublisherWithoutAMQP(t *testing.T) {
	cfg := config.Load()
	cfg.AMQPURL = ""
	if _, ok := OpenPublisher(cfg, log.Discard()).(events.Noop); !ok {
		t.Error("expected no-op publisher without AMQP_URL")
	}
}

func TestSetupLogger(t *testing.T) {
	cfg := config.Load()
	cfg.LogLevel = "debug"
	cfg.LogFormat = "json"
	logger := SetupLogger(cfg)
	if logger.Component() != log.ComponentApp {
		t.Errorf("component = %q", logger.Component())
	}
}
