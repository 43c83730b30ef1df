package handler

import (
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"catalogapi/internal/realtime"
)

// EventsUpgrade rejects plain HTTP requests to the events route before the
// websocket upgrade handler runs.
func EventsUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// Events streams row-change events over a websocket. The optional tables query
// parameter (comma-separated) narrows the subscription; empty means all
// tables. A client that stops reading is dropped, not buffered forever.
func Events(hub *realtime.Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		var tables []string
		if q := conn.Query("tables"); q != "" {
			for _, t := range strings.Split(q, ",") {
				if t = strings.TrimSpace(t); t != "" {
					tables = append(tables, t)
				}
			}
		}
		sub := hub.Subscribe(tables...)
		defer sub.Close()

		// Reader goroutine: we never expect client messages, but reading is
		// the only way to notice the peer closing the connection.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case ev, ok := <-sub.C:
				if !ok {
					// Dropped by the hub for falling behind.
					return
				}
				if err := conn.WriteJSON(ev); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	})
}
