// Package events is the host-shell event bus: deployment and form
// session events published in-process and fanned out to connected
// shell clients over WebSocket.
package events

import (
	"sync"

	"github.com/rs/zerolog"
)

const (
	TypeDeploymentDone   = "deployment.done"
	TypeDeploymentError  = "deployment.error"
	TypeDeploymentOpened = "deployment.opened"
	TypeDeploymentClosed = "deployment.closed"
	TypeFormSessionLint  = "formsession.lint"
	TypeNotification     = "notification"
	TypeLog              = "log"
)

// Event is one bus message.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Emitter publishes events to the host shell.
type Emitter interface {
	Emit(event Event)
}

// Bus fans events out to subscribers. Publishing never blocks: a
// subscriber whose buffer is full loses the event.
type Bus struct {
	logger zerolog.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		logger: logger.With().Str("component", "event-bus").Logger(),
		subs:   make(map[int]chan Event),
	}
}

const subscriberBuffer = 64

// Subscribe registers a new subscriber. The returned cancel func
// unregisters it and closes the channel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Emit publishes an event to all subscribers.
func (b *Bus) Emit(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.logger.Warn().Int("subscriber", id).Str("type", event.Type).Msg("subscriber buffer full, event dropped")
		}
	}
}
