package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"expensetracker/internal/log"
)

// channel is the subset of *amqp091.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// dialer opens a connection and a channel on it.
type dialer func(url string) (channel, func() error, error)

// dialTimeout bounds the TCP connect of a (re)dial.
const dialTimeout = 3 * time.Second

func dialAMQP(url string) (channel, func() error, error) {
	conn, err := amqp091.DialConfig(url, amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp091.DefaultDial(dialTimeout),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("dial AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	return ch, conn.Close, nil
}

// AMQPPublisher publishes events to a durable direct exchange, routing each
// event by its type. A broken connection is re-dialled on the next publish.
type AMQPPublisher struct {
	url      string
	exchange string
	dial     dialer
	logger   *log.Logger

	mu        sync.Mutex
	ch        channel
	closeConn func() error
	attempt   int
	retryAt   time.Time
}

// NewAMQPPublisher connects to url and declares the exchange.
func NewAMQPPublisher(url, exchange string, logger *log.Logger) (*AMQPPublisher, error) {
	return newAMQPPublisher(url, exchange, dialAMQP, logger)
}

func newAMQPPublisher(url, exchange string, dial dialer, logger *log.Logger) (*AMQPPublisher, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	p := &AMQPPublisher{
		url:      url,
		exchange: exchange,
		dial:     dial,
		logger:   logger.WithComponent(log.ComponentEvents),
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// connect must be called with mu held.
func (p *AMQPPublisher) connect() error {
	ch, closeConn, err := p.dial(p.url)
	if err != nil {
		return err
	}
	err = ch.ExchangeDeclare(
		p.exchange, // name
		"direct",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		ch.Close()
		closeConn()
		return fmt.Errorf("declare exchange: %w", err)
	}
	p.ch = ch
	p.closeConn = closeConn
	p.attempt = 0
	return nil
}

// ErrUnavailable is returned while the publisher waits before re-dialling.
var ErrUnavailable = errors.New("broker unavailable")

func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	body, err := e.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		if time.Now().Before(p.retryAt) {
			return ErrUnavailable
		}
		if err := p.connect(); err != nil {
			p.scheduleRetry()
			return fmt.Errorf("reconnect: %w", err)
		}
		p.logger.Info("Reconnected to broker", "exchange", p.exchange)
	}

	err = p.ch.PublishWithContext(
		ctx,
		p.exchange, // exchange
		e.Type,     // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    e.Timestamp,
			Type:         e.Type,
			Body:         body,
		},
	)
	if err != nil {
		if isConnectionError(err) {
			p.drop()
			p.scheduleRetry()
		}
		return fmt.Errorf("publish event: %w", err)
	}

	p.logger.DebugContext(ctx, "Published activity event", "event_type", e.Type, "exchange", p.exchange)
	return nil
}

// drop must be called with mu held.
func (p *AMQPPublisher) drop() {
	if p.ch != nil {
		p.ch.Close()
		p.ch = nil
	}
	if p.closeConn != nil {
		p.closeConn()
		p.closeConn = nil
	}
}

func (p *AMQPPublisher) scheduleRetry() {
	p.retryAt = time.Now().Add(exponentialBackoff(p.attempt))
	p.attempt++
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var err error
	if p.ch != nil {
		err = p.ch.Close()
		p.ch = nil
	}
	if p.closeConn != nil {
		if cerr := p.closeConn(); err == nil {
			err = cerr
		}
		p.closeConn = nil
	}
	return err
}

// exponentialBackoff returns 1s, 2s, 4s, ... capped at 30s.
func exponentialBackoff(attempt int) time.Duration {
	const maxDelay = 30 * time.Second
	if attempt > 5 {
		return maxDelay
	}
	d := time.Second << attempt
	if d > maxDelay {
		return maxDelay
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "closed", "eof", "broken pipe", "reset by peer"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
