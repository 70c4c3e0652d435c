// Package events publishes user activity to an optional message broker.
// Publishing is fire-and-forget from the caller's point of view: failures are
// logged and never surface to the user.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"expensetracker/internal/log"
)

// Event types, also used as routing keys.
const (
	TypeLogin          = "user.login"
	TypeSignup         = "user.signup"
	TypeLogout         = "user.logout"
	TypeExpenseCreated = "expense.created"
	TypeExpenseDeleted = "expense.deleted"
)

// Event is one activity record. Credentials and tokens are never included.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id,omitempty"`
	ExpenseID int64     `json:"expense_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Category  string    `json:"category,omitempty"`
}

// New stamps an event of the given type with the current time.
func New(typ string) Event {
	return Event{Type: typ, Timestamp: time.Now().UTC()}
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events somewhere.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// publishTimeout bounds a single publish.
const publishTimeout = 5 * time.Second

// queueSize bounds the events waiting for the broker.
const queueSize = 256

// Notifier publishes on behalf of request handlers. Events are handed to a
// single background goroutine; a full queue drops the event instead of
// blocking the request.
type Notifier struct {
	pub    Publisher
	logger *log.Logger

	mu      sync.RWMutex
	closed  bool
	queue   chan Event
	done    chan struct{}
	dropped int64
}

func NewNotifier(pub Publisher, logger *log.Logger) *Notifier {
	if pub == nil {
		pub = Noop{}
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	n := &Notifier{
		pub:    pub,
		logger: logger.WithComponent(log.ComponentEvents),
		queue:  make(chan Event, queueSize),
		done:   make(chan struct{}),
	}
	go n.run()
	return n
}

// Notify queues e and returns immediately.
func (n *Notifier) Notify(ctx context.Context, e Event) {
	if n == nil {
		return
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return
	}
	select {
	case n.queue <- e:
	default:
		atomic.AddInt64(&n.dropped, 1)
		n.logger.WarnContext(ctx, "Activity event dropped, queue full",
			log.FieldOperation, log.OpPublish,
			"event_type", e.Type)
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (n *Notifier) Dropped() int64 {
	if n == nil {
		return 0
	}
	return atomic.LoadInt64(&n.dropped)
}

func (n *Notifier) run() {
	defer close(n.done)
	for e := range n.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := n.pub.Publish(ctx, e); err != nil {
			n.logger.Warn("Failed to publish activity event",
				log.FieldOperation, log.OpPublish,
				"event_type", e.Type,
				log.FieldError, err)
		}
		cancel()
	}
}

// Close publishes what is already queued, then releases the publisher.
// Later calls are no-ops.
func (n *Notifier) Close() error {
	if n == nil {
		return nil
	}
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()

	<-n.done
	return n.pub.Close()
}
