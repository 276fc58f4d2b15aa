package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/spently/spently-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	mu         sync.Mutex
	declared   []string
	kinds      []string
	published  []published
	declareErr error
	publishErr error
	closed     bool
	block      chan struct{}
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.declared = append(f.declared, name)
	f.kinds = append(f.kinds, kind)
	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func TestNewPublisher_DeclaresTopicExchange(t *testing.T) {
	ch := &fakeChannel{}

	p, err := NewPublisher(ch, "spently.events", zerolog.Nop())
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, []string{"spently.events"}, ch.declared)
	assert.Equal(t, []string{"topic"}, ch.kinds)
}

func TestNewPublisher_DeclareError(t *testing.T) {
	ch := &fakeChannel{declareErr: errors.New("access refused")}

	_, err := NewPublisher(ch, "spently.events", zerolog.Nop())
	assert.Error(t, err)
}

func TestPublisher_PublishRoutesByEventType(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewPublisher(ch, "spently.events", zerolog.Nop())
	require.NoError(t, err)

	userID := uuid.New()
	p.Publish(userID, websocket.ExpenseCreated(map[string]interface{}{"id": float64(1)}))
	p.Publish(userID, websocket.CategoryDeleted(map[string]interface{}{"id": float64(2)}))

	// Close flushes the queue
	require.NoError(t, p.Close())
	assert.True(t, ch.closed)

	require.Len(t, ch.published, 2)
	assert.Equal(t, "spently.events", ch.published[0].exchange)
	assert.Equal(t, "expense.created", ch.published[0].key)
	assert.Equal(t, "category.deleted", ch.published[1].key)
	assert.Equal(t, "application/json", ch.published[0].msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.published[0].msg.DeliveryMode)

	var body struct {
		UserID uuid.UUID `json:"userId"`
		Event  struct {
			Type   string `json:"type"`
			Entity string `json:"entity"`
		} `json:"event"`
	}
	require.NoError(t, json.Unmarshal(ch.published[0].msg.Body, &body))
	assert.Equal(t, userID, body.UserID)
	assert.Equal(t, "expense.created", body.Event.Type)
	assert.Equal(t, "expense", body.Event.Entity)
}

func TestPublisher_PublishErrorsAreLoggedNotReturned(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	p, err := NewPublisher(ch, "spently.events", zerolog.Nop())
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		p.Publish(uuid.New(), websocket.ExpenseUpdated(nil))
	})
	require.NoError(t, p.Close())
	assert.Empty(t, ch.published)
}

func TestPublisher_DropsWhenQueueFull(t *testing.T) {
	ch := &fakeChannel{block: make(chan struct{})}
	p, err := NewPublisher(ch, "spently.events", zerolog.Nop())
	require.NoError(t, err)

	// One event is held by the blocked sender, the rest fill the queue
	for i := 0; i < defaultQueueSize+10; i++ {
		p.Publish(uuid.New(), websocket.ExpenseCreated(nil))
	}

	close(ch.block)
	require.NoError(t, p.Close())
	assert.LessOrEqual(t, len(ch.published), defaultQueueSize+1)
	assert.GreaterOrEqual(t, len(ch.published), defaultQueueSize)
}

func TestPublisher_PublishAfterCloseIsIgnored(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewPublisher(ch, "spently.events", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, p.Close())

	assert.NotPanics(t, func() {
		p.Publish(uuid.New(), websocket.ExpenseCreated(nil))
	})
	assert.Empty(t, ch.published)
	assert.NoError(t, p.Close())
}
