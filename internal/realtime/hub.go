// Package realtime fans row-change events out to subscribed clients so list
// views can refresh without polling. Delivery is best-effort: subscribers that
// fall behind are dropped rather than blocking publishers.
package realtime

import (
	"sync"
	"time"
)

// Actions carried by change events.
const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Event is a single row change on a table.
type Event struct {
	Table  string    `json:"table"`
	Action string    `json:"action"`
	ID     string    `json:"id"`
	At     time.Time `json:"at"`
}

// Publisher is the write side of the hub. Services publish after successful
// mutations; they never block on it.
type Publisher interface {
	Publish(ev Event)
}

// NopPublisher discards events. Used in tests and when realtime is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}

// subscriberBuffer is the per-subscriber channel capacity. A subscriber whose
// buffer is full at publish time is disconnected.
const subscriberBuffer = 16

// Subscriber receives events for the tables it registered for.
type Subscriber struct {
	C      chan Event
	tables map[string]bool
	hub    *Hub
}

// Close unregisters the subscriber and releases its channel.
func (s *Subscriber) Close() {
	s.hub.unsubscribe(s)
}

// Hub is an in-process topic fan-out keyed by table name.
// It is safe for concurrent use.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscriber]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscriber]struct{})}
}

var _ Publisher = (*Hub)(nil)

// Subscribe registers interest in the given tables. An empty table list
// subscribes to every table.
func (h *Hub) Subscribe(tables ...string) *Subscriber {
	s := &Subscriber{
		C:      make(chan Event, subscriberBuffer),
		tables: make(map[string]bool, len(tables)),
		hub:    h,
	}
	for _, t := range tables {
		s.tables[t] = true
	}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

func (h *Hub) unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.C)
	}
}

// Publish delivers ev to every matching subscriber without blocking.
// Subscribers with a full buffer are dropped.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		if len(s.tables) > 0 && !s.tables[ev.Table] {
			continue
		}
		select {
		case s.C <- ev:
		default:
			delete(h.subs, s)
			close(s.C)
		}
	}
}
