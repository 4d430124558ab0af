// File: testharness/channel.go
// ChannelHarness drives channel.Router dispatch without a real WebSocket
// connection: it records every envelope a handler sends back instead of
// writing frames to a socket, letting tests assert on join/leave/push
// replies and broadcasts directly.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package testharness

import (
	"sync"
	"time"

	"github.com/momentics/hioload-web/channel"
	"github.com/momentics/hioload-web/ws"
)

// ChannelHarness pairs a channel.Router with a recording outbox, bypassing
// ws.Conn entirely.
type ChannelHarness struct {
	Router *channel.Router

	mu  sync.Mutex
	out map[string][]channel.Envelope
}

// NewChannelHarness wraps router for in-process testing.
func NewChannelHarness(router *channel.Router) *ChannelHarness {
	return &ChannelHarness{Router: router, out: make(map[string][]channel.Envelope)}
}

// recordingSink implements channel.Conn: envelopes handed to WriteMessage
// are decoded and appended to the harness's per-socket outbox instead of
// being framed and written to a real connection.
type recordingSink struct {
	h      *ChannelHarness
	name   string
	closed bool
}

// WriteMessage decodes data (the JSON envelope channel.Socket's drain
// goroutine would otherwise frame and write) and records it.
func (s *recordingSink) WriteMessage(op ws.Opcode, data []byte) error {
	env, err := channel.Decode(data)
	if err != nil {
		return err
	}
	s.h.mu.Lock()
	s.h.out[s.name] = append(s.h.out[s.name], env)
	s.h.mu.Unlock()
	return nil
}

// Close marks the recorded socket closed; no network resource to release.
func (s *recordingSink) Close(code uint16, reason string) error {
	s.closed = true
	return nil
}

// NewSocket returns a channel.Socket named socketName backed by an in-memory
// recording sink, so tests can join/leave/push against the real
// channel.Router and assert on what it sent back via Inbox. The socket is
// not subscribed to any topic until the router handles a join.
func (h *ChannelHarness) NewSocket(socketName string) *channel.Socket {
	sink := &recordingSink{h: h, name: socketName}
	return channel.NewSocket(socketName, sink, nil)
}

// Inbox returns every envelope recorded for socketName so far, in order.
func (h *ChannelHarness) Inbox(socketName string) []channel.Envelope {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]channel.Envelope, len(h.out[socketName]))
	copy(out, h.out[socketName])
	return out
}

// WaitForInbox polls Inbox(socketName) until it holds at least n envelopes
// or timeout elapses, accounting for Socket's asynchronous mailbox-drain
// goroutine (channel/socket.go). Returns the inbox snapshot either way.
func (h *ChannelHarness) WaitForInbox(socketName string, n int, timeout time.Duration) []channel.Envelope {
	deadline := time.Now().Add(timeout)
	for {
		out := h.Inbox(socketName)
		if len(out) >= n || time.Now().After(deadline) {
			return out
		}
		time.Sleep(time.Millisecond)
	}
}
