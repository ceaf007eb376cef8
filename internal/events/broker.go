// Package events fans panel state changes out to live page subscribers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/MrSnakeDoc/blockpanel/internal/logger"
)

// Event types published by the panel.
const (
	TypeConnected  = "connected"
	TypeAppAdded   = "app_added"
	TypeAppToggled = "app_toggled"
	TypeAppDeleted = "app_deleted"
	TypeWizard     = "wizard"
	TypeLockdown   = "lockdown"
	TypeNotice     = "notice"
	TypeLocale     = "locale"
)

const (
	DefaultClientBuffer = 32
	DefaultMaxClients   = 64
)

// Event is one server-sent event: "event: <Type>\ndata: <JSON>\n\n".
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Publisher is the side of the broker the panel sees.
type Publisher interface {
	Publish(event Event)
}

// Broker delivers every published event to all subscribers. A subscriber
// whose buffer is full misses the event; the page resyncs from /api/state.
type Broker struct {
	mu         sync.RWMutex
	clients    map[uint64]chan Event
	nextID     atomic.Uint64
	bufferSize int
	maxClients int
	closed     bool
	log        logger.Logger
}

func NewBroker(log logger.Logger) *Broker {
	return &Broker{
		clients:    make(map[uint64]chan Event),
		bufferSize: DefaultClientBuffer,
		maxClients: DefaultMaxClients,
		log:        log,
	}
}

// Subscribe registers a subscriber. The channel is closed when ctx ends, when
// cleanup is called, or when the broker closes. ok is false when the client
// limit is reached.
func (b *Broker) Subscribe(ctx context.Context) (events <-chan Event, cleanup func(), ok bool) {
	b.mu.Lock()
	if b.closed || len(b.clients) >= b.maxClients {
		n := len(b.clients)
		b.mu.Unlock()
		b.log.Warn("rejecting event subscriber", logger.Int("clients", n))
		return nil, func() {}, false
	}
	id := b.nextID.Add(1)
	ch := make(chan Event, b.bufferSize)
	b.clients[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cleanup = func() { once.Do(func() { b.remove(id) }) }

	go func() {
		<-ctx.Done()
		cleanup()
	}()

	return ch, cleanup, true
}

// Publish sends event to every subscriber without blocking.
func (b *Broker) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.clients {
		select {
		case ch <- event:
		default:
			b.log.Debug("dropping event for slow subscriber",
				logger.String("type", event.Type),
				logger.Int("client", int(id)))
		}
	}
}

// ClientCount returns the number of live subscribers.
func (b *Broker) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Close disconnects every subscriber and rejects new ones.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, ch := range b.clients {
		close(ch)
		delete(b.clients, id)
	}
}

func (b *Broker) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.clients[id]; ok {
		close(ch)
		delete(b.clients, id)
	}
}

// Write encodes event in the text/event-stream format.
func Write(w io.Writer, event Event) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}
