package ws

import (
	"github.com/gofiber/websocket/v2"
)

// Conn is the part of *websocket.Conn the package uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one subscriber of the events hub.
type Client struct {
	hub  *Hub
	conn Conn
	send chan []byte
}

// ReadPump discards incoming messages until the connection fails, then
// unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
