// File: channel/socket.go
// Socket is one connected client's channel-protocol identity: the set of
// topics it has joined and a serialized outbound mailbox draining to its
// WebSocket connection. The mailbox is github.com/eapache/queue, originally
// used in momentics-hioload-ws for its reactor's lock-free task queue,
// repurposed here as a per-subscriber FIFO so a slow client never blocks a
// broadcast to other subscribers.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package channel

import (
	"sync"

	"github.com/eapache/queue"
	"github.com/sirupsen/logrus"

	"github.com/momentics/hioload-web/middleware"
	"github.com/momentics/hioload-web/ws"
)

// Conn is the minimal connection surface Socket needs to deliver and close
// messages. *ws.Conn satisfies it; the testharness package substitutes a
// recording implementation so channel tests never open a real socket.
type Conn interface {
	WriteMessage(op ws.Opcode, data []byte) error
	Close(code uint16, reason string) error
}

// Socket represents one connected client multiplexing many topics over a
// single WebSocket connection.
type Socket struct {
	ID   string
	conn Conn
	log  *logrus.Entry

	// Assigns mirrors the HTTP context's Assigns bag at the moment of the
	// WebSocket upgrade, so state a prior middleware attached during the
	// handshake (an authenticated user id, a request id) is visible to
	// join/leave/event handlers without a second lookup. It is seeded once
	// by Mount and is otherwise this socket's own to mutate.
	Assigns middleware.Assigns

	mu      sync.Mutex
	topics  map[string]struct{}
	mailbox *queue.Queue
	notify  chan struct{}
	stop    chan struct{}
	closed  bool
}

// NewSocket wraps conn and starts its dedicated mailbox-drain goroutine.
// conn is typically a *ws.Conn; the testharness package substitutes a
// recording implementation of the same Conn interface so channel tests
// never open a real socket.
func NewSocket(id string, conn Conn, log *logrus.Entry) *Socket {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Socket{
		ID:      id,
		conn:    conn,
		log:     log,
		topics:  make(map[string]struct{}, 8),
		mailbox: queue.New(),
		notify:  make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	go s.drain()
	return s
}

// Join records topic as joined by this socket.
func (s *Socket) Join(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics[topic] = struct{}{}
}

// Leave removes topic from this socket's joined set.
func (s *Socket) Leave(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.topics, topic)
}

// Joined reports whether this socket has joined topic.
func (s *Socket) Joined(topic string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.topics[topic]
	return ok
}

// Send enqueues an envelope for delivery. It never blocks on the network:
// the drain goroutine owns the actual write.
func (s *Socket) Send(e Envelope) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ws.ErrConnClosed
	}
	s.mailbox.Add(e)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
	return nil
}

// drain is the sole goroutine permitted to call conn.WriteMessage,
// enforcing one writer per connection.
func (s *Socket) drain() {
	for {
		select {
		case <-s.stop:
			return
		case <-s.notify:
		}
		for {
			s.mu.Lock()
			if s.mailbox.Length() == 0 {
				s.mu.Unlock()
				break
			}
			e := s.mailbox.Peek().(Envelope)
			s.mailbox.Remove()
			s.mu.Unlock()

			body, err := e.Encode()
			if err != nil {
				s.log.WithError(err).Error("channel: failed to encode envelope")
				continue
			}
			if err := s.conn.WriteMessage(ws.OpText, body); err != nil {
				s.log.WithError(err).Warn("channel: failed to deliver envelope")
				return
			}
		}
	}
}

// Close marks the socket closed, stops accepting new sends, and closes the
// underlying connection.
func (s *Socket) Close(code uint16, reason string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	close(s.stop)
	return s.conn.Close(code, reason)
}
