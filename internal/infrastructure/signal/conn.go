package signal

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// outboundFrame is the envelope written for every outbound event.
type outboundFrame struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// wsConn adapts a gorilla connection to domain.Conn. Gorilla allows only one
// concurrent writer, so every write goes through the mutex.
type wsConn struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	mu           sync.Mutex
	closed       bool
}

func newWSConn(conn *websocket.Conn, writeTimeout time.Duration) *wsConn {
	return &wsConn{
		conn:         conn,
		writeTimeout: writeTimeout,
	}
}

func (c *wsConn) Send(event string, payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return websocket.ErrCloseSent
	}

	c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.conn.WriteJSON(outboundFrame{Type: event, Payload: payload})
}

func (c *wsConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
