package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/spently/spently-backend/internal/websocket"
)

const (
	defaultQueueSize      = 256
	defaultPublishTimeout = 5 * time.Second
)

// Channel is the subset of *amqp.Channel the publisher uses
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Message is the body published for every change event
type Message struct {
	UserID uuid.UUID       `json:"userId"`
	Event  websocket.Event `json:"event"`
}

type outgoing struct {
	routingKey string
	body       []byte
}

// Publisher forwards change events to a durable topic exchange. Events are
// queued and published from a background goroutine. When the queue is full the
// event is dropped and logged.
type Publisher struct {
	conn     *amqp.Connection
	channel  Channel
	exchange string
	logger   zerolog.Logger
	timeout  time.Duration
	queue    chan outgoing
	doneCh   chan struct{}
	mu       sync.RWMutex
	closed   bool
}

var _ websocket.EventPublisher = (*Publisher)(nil)

// Dial connects to the broker, declares the exchange and starts publishing
func Dial(url, exchange string, logger zerolog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := NewPublisher(channel, exchange, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewPublisher declares the exchange on an open channel and starts publishing
func NewPublisher(channel Channel, exchange string, logger zerolog.Logger) (*Publisher, error) {
	err := channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := &Publisher{
		channel:  channel,
		exchange: exchange,
		logger:   logger.With().Str("component", "amqp_publisher").Str("exchange", exchange).Logger(),
		timeout:  defaultPublishTimeout,
		queue:    make(chan outgoing, defaultQueueSize),
		doneCh:   make(chan struct{}),
	}
	go p.run()
	return p, nil
}

// Publish implements websocket.EventPublisher. The routing key is the event
// type, e.g. "expense.created".
func (p *Publisher) Publish(userID uuid.UUID, event websocket.Event) {
	body, err := json.Marshal(Message{UserID: userID, Event: event})
	if err != nil {
		p.logger.Error().Err(err).Str("event_type", event.Type).Msg("Failed to marshal event")
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}

	select {
	case p.queue <- outgoing{routingKey: event.Type, body: body}:
	default:
		p.logger.Warn().
			Str("user_id", userID.String()).
			Str("event_type", event.Type).
			Msg("Event queue full, dropping event")
	}
}

func (p *Publisher) run() {
	defer close(p.doneCh)
	for msg := range p.queue {
		p.send(msg)
	}
}

func (p *Publisher) send(msg outgoing) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	err := p.channel.PublishWithContext(
		ctx,
		p.exchange,     // exchange
		msg.routingKey, // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         msg.body,
		},
	)
	if err != nil {
		p.logger.Error().Err(err).Str("routing_key", msg.routingKey).Msg("Failed to publish event")
		return
	}
	p.logger.Debug().Str("routing_key", msg.routingKey).Msg("Published event")
}

// Close flushes queued events and closes the channel and connection
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.doneCh

	err := p.channel.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
