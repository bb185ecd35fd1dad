// Package ws is the websocket transport adapter: it accepts connections,
// feeds inbound events to the presence core and pumps outbound frames to
// the client.
package ws

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/mkaydev/huddle/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

// wsPeer wraps a websocket connection with a buffered outbound queue so the
// broadcast path never blocks on a slow reader.
type wsPeer struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newPeer(conn *websocket.Conn, buffer int) *wsPeer {
	return &wsPeer{
		conn: conn,
		send: make(chan core.Frame, buffer),
	}
}

func (p *wsPeer) TrySend(f core.Frame) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return errors.New("connection closed")
	}
	select {
	case p.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (p *wsPeer) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.send)
	_ = p.conn.Close()
	p.mu.Unlock()
}
