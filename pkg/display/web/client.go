package web

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Client struct {
	mu       sync.Mutex
	hub      *hub
	conn     *websocket.Conn
	Send     chan []byte
	ID       uint8
	Metadata struct {
		RemoteAddr string
		UserAgent  string
		Username   string
	}
	connectedAt time.Time
	closed      bool
}

// send queues a message without blocking. It returns false when the client
// is closed or too slow to keep up.
func (c *Client) send(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

func (c *Client) leave() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
}

func (c *Client) ReadPump() {
	// deferred function to handle unregistering client
	// and closing connection
	defer func() {
		c.leave()
		c.conn.Close()
	}()

	// read messages from client
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return // connection closed
		}
		if len(message) == 0 {
			continue
		}

		switch message[0] {
		case Settings:
			if len(message) < 3 {
				continue
			}
			if message[1] == RegisterUsername {
				c.mu.Lock()
				c.Metadata.Username = string(message[2:])
				c.mu.Unlock()
				continue
			}
			c.hub.apply(message[1], message[2])
			c.hub.SendAll(c.hub.info())
		case Pause, Resume:
			c.hub.pause(message[0] == Pause)
			c.hub.SendAll(c.hub.info())
		case KeepAlive:
		case Closing: // websocket client request close
			return
		}
	}
}

func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.Send {
		// try to write message to client
		if err := c.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
			c.leave()
			return
		}
	}

	// connection hub closed the connection
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
