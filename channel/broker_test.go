// File: channel/broker_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package channel

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-web/ws"
)

// recordingConn implements the Conn interface (socket.go) by decoding and
// recording every envelope handed to WriteMessage, so Broker/Socket can be
// exercised without a real WebSocket connection.
type recordingConn struct {
	mu  sync.Mutex
	out []Envelope
}

func (r *recordingConn) WriteMessage(op ws.Opcode, data []byte) error {
	env, err := Decode(data)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.out = append(r.out, env)
	r.mu.Unlock()
	return nil
}

func (r *recordingConn) Close(code uint16, reason string) error { return nil }

func (r *recordingConn) snapshot() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Envelope, len(r.out))
	copy(out, r.out)
	return out
}

// waitFor polls until at least n envelopes have been recorded or the
// timeout elapses, accounting for Socket's asynchronous mailbox drain.
func (r *recordingConn) waitFor(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(r.snapshot()) >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d envelope(s), got %d", n, len(r.snapshot()))
}

func newFakeSocket(id string) (*Socket, *recordingConn) {
	rc := &recordingConn{}
	return NewSocket(id, rc, nil), rc
}

func TestBroker_PublishDeliversToSubscribers(t *testing.T) {
	broker := NewBroker(nil)
	socket, rc := newFakeSocket("s1")
	t.Cleanup(func() { _ = socket.Close(1000, "") })
	broker.Subscribe("room:lobby", socket)

	require.NoError(t, broker.Publish("room:lobby", "announcement", map[string]string{"text": "hi"}))

	rc.waitFor(t, 1)
	envs := rc.snapshot()
	require.Len(t, envs, 1)
	assert.Equal(t, "announcement", envs[0].Event)
}

func TestBroker_UnsubscribeStopsDelivery(t *testing.T) {
	broker := NewBroker(nil)
	socket, rc := newFakeSocket("s1")
	t.Cleanup(func() { _ = socket.Close(1000, "") })
	broker.Subscribe("room:lobby", socket)
	broker.Unsubscribe("room:lobby", socket)

	require.NoError(t, broker.Publish("room:lobby", "announcement", nil))
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, rc.snapshot())
}

func TestBroker_PatternSubscriptionMatchesOnPublish(t *testing.T) {
	broker := NewBroker(nil)
	socket, rc := newFakeSocket("s1")
	t.Cleanup(func() { _ = socket.Close(1000, "") })
	broker.Subscribe("room:*", socket)

	require.NoError(t, broker.Publish("room:42", "event", nil))
	rc.waitFor(t, 1)
}

func TestBroker_UnsubscribeAllRemovesFromEveryTopic(t *testing.T) {
	broker := NewBroker(nil)
	socket, rc := newFakeSocket("s1")
	t.Cleanup(func() { _ = socket.Close(1000, "") })
	broker.Subscribe("room:a", socket)
	broker.Subscribe("room:b", socket)
	broker.UnsubscribeAll(socket)

	require.NoError(t, broker.Publish("room:a", "x", nil))
	require.NoError(t, broker.Publish("room:b", "y", nil))
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, rc.snapshot())
}
