package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishSubscribe(t *testing.T) {
	h := NewHub()
	books := h.Subscribe("libros")
	all := h.Subscribe()
	defer books.Close()
	defer all.Close()

	h.Publish(Event{Table: "libros", Action: ActionInsert, ID: "b1"})
	h.Publish(Event{Table: "soporte", Action: ActionInsert, ID: "t1"})

	ev := <-books.C
	assert.Equal(t, "libros", ev.Table)
	assert.Equal(t, "b1", ev.ID)
	assert.False(t, ev.At.IsZero())

	// The filtered subscriber never sees the soporte event.
	select {
	case ev := <-books.C:
		t.Fatalf("unexpected event: %+v", ev)
	default:
	}

	assert.Equal(t, "libros", (<-all.C).Table)
	assert.Equal(t, "soporte", (<-all.C).Table)
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	h := NewHub()
	slow := h.Subscribe("libros")

	// Overflow the buffer; the subscriber must be dropped, not block Publish.
	for i := 0; i <= subscriberBuffer; i++ {
		h.Publish(Event{Table: "libros", Action: ActionUpdate, ID: "x"})
	}

	// Channel is closed after draining the buffered events.
	n := 0
	for range slow.C {
		n++
	}
	assert.Equal(t, subscriberBuffer, n)

	// Publishing afterwards must not panic on the removed subscriber.
	h.Publish(Event{Table: "libros", Action: ActionDelete, ID: "y"})
}

func TestSubscriberCloseIdempotent(t *testing.T) {
	h := NewHub()
	s := h.Subscribe("libros")
	s.Close()
	require.NotPanics(t, func() { s.Close() })
	h.Publish(Event{Table: "libros", Action: ActionInsert, ID: "z"})
}
