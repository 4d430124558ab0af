// File: ws/conn_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package ws

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-web/transport"
)

func newConnPair(t *testing.T) (server *Conn, clientTr transport.Conn) {
	t.Helper()
	serverNet, clientNet := net.Pipe()
	t.Cleanup(func() { serverNet.Close(); clientNet.Close() })

	serverTr := transport.NewConn(serverNet)
	clientTr = transport.NewConn(clientNet)
	server = NewConn(serverTr, true, Config{})
	return server, clientTr
}

func writeClientFrame(t *testing.T, tr transport.Conn, f *Frame) {
	t.Helper()
	key := [4]byte{0xaa, 0xbb, 0xcc, 0xdd}
	require.NoError(t, WriteFrame(tr, f, true, func() [4]byte { return key }))
}

func TestConn_ReadMessage_SimpleText(t *testing.T) {
	server, clientTr := newConnPair(t)

	go writeClientFrame(t, clientTr, &Frame{FIN: true, Opcode: OpText, Payload: []byte("hello")})

	op, payload, err := server.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, OpText, op)
	assert.Equal(t, "hello", string(payload))
}

func TestConn_ReadMessage_FragmentedReassembly(t *testing.T) {
	server, clientTr := newConnPair(t)

	go func() {
		writeClientFrame(t, clientTr, &Frame{FIN: false, Opcode: OpText, Payload: []byte("hel")})
		writeClientFrame(t, clientTr, &Frame{FIN: true, Opcode: OpContinuation, Payload: []byte("lo")})
	}()

	op, payload, err := server.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, OpText, op)
	assert.Equal(t, "hello", string(payload))
}

// TestConn_ReadMessage_NonContinuationMidFragmentResets exercises the
// lenient fragment-reset policy: a fresh data frame arriving while a
// fragment sequence is already open discards the partial accumulator and
// starts over, rather than closing the connection.
func TestConn_ReadMessage_NonContinuationMidFragmentResets(t *testing.T) {
	server, clientTr := newConnPair(t)

	go func() {
		writeClientFrame(t, clientTr, &Frame{FIN: false, Opcode: OpText, Payload: []byte("abandoned")})
		writeClientFrame(t, clientTr, &Frame{FIN: true, Opcode: OpText, Payload: []byte("fresh")})
	}()

	op, payload, err := server.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, OpText, op)
	assert.Equal(t, "fresh", string(payload))

	code, _ := server.CloseInfo()
	assert.Equal(t, uint16(0), code, "connection must still be open, not closed")
	assert.Equal(t, StateOpen, server.State())
}

func TestConn_ReadMessage_UnexpectedContinuationCloses1002(t *testing.T) {
	server, clientTr := newConnPair(t)

	go writeClientFrame(t, clientTr, &Frame{FIN: true, Opcode: OpContinuation, Payload: []byte("x")})
	// net.Pipe is unbuffered: Close's close-frame write blocks until read.
	go func() { _, _ = ReadFrame(clientTr, 0, false) }()

	_, _, err := server.ReadMessage()
	assert.ErrorIs(t, err, ErrUnexpectedCont)
	code, _ := server.CloseInfo()
	assert.Equal(t, CloseProtocolError, code)
	assert.Equal(t, StateClosed, server.State())
}

func TestConn_ReadMessage_PingAnsweredWithPong(t *testing.T) {
	server, clientTr := newConnPair(t)
	done := make(chan struct{})

	go func() {
		writeClientFrame(t, clientTr, &Frame{FIN: true, Opcode: OpPing, Payload: []byte("ping-data")})
		writeClientFrame(t, clientTr, &Frame{FIN: true, Opcode: OpText, Payload: []byte("after-ping")})
	}()

	go func() {
		f, err := ReadFrame(clientTr, 0, false)
		if err == nil && f.Opcode == OpPong {
			close(done)
		}
	}()

	op, payload, err := server.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, OpText, op)
	assert.Equal(t, "after-ping", string(payload))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("did not observe pong reply")
	}
}

func TestConn_Close_SendsCloseFrame(t *testing.T) {
	server, clientTr := newConnPair(t)
	readDone := make(chan *Frame, 1)
	go func() {
		f, err := ReadFrame(clientTr, 0, false)
		if err == nil {
			readDone <- f
		}
	}()

	require.NoError(t, server.Close(CloseNormal, "bye"))

	select {
	case f := <-readDone:
		assert.Equal(t, OpClose, f.Opcode)
		assert.True(t, f.HasCode)
		assert.Equal(t, CloseNormal, f.CloseCode)
	case <-time.After(time.Second):
		t.Fatal("did not observe close frame")
	}

	code, reason := server.CloseInfo()
	assert.Equal(t, CloseNormal, code)
	assert.Equal(t, "bye", reason)
}

func TestConn_ReadMessage_PeerCloseNoCodeDefaultsTo1005(t *testing.T) {
	server, clientTr := newConnPair(t)
	readDone := make(chan *Frame, 1)
	go func() {
		f, err := ReadFrame(clientTr, 0, false)
		if err == nil {
			readDone <- f
		}
	}()

	go writeClientFrame(t, clientTr, &Frame{FIN: true, Opcode: OpClose})

	_, _, err := server.ReadMessage()
	assert.ErrorIs(t, err, io.EOF)

	code, reason := server.CloseInfo()
	assert.Equal(t, CloseNoStatus, code)
	assert.Equal(t, "", reason)

	select {
	case f := <-readDone:
		assert.Equal(t, OpClose, f.Opcode)
		assert.True(t, f.HasCode)
		assert.Equal(t, CloseNoStatus, f.CloseCode)
	case <-time.After(time.Second):
		t.Fatal("did not observe echoed close frame")
	}
}

func TestConn_WriteMessage_RejectsAfterClose(t *testing.T) {
	server, clientTr := newConnPair(t)
	// net.Pipe is unbuffered: Close's close-frame write blocks until read.
	go func() { _, _ = ReadFrame(clientTr, 0, false) }()
	require.NoError(t, server.Close(CloseNormal, ""))

	err := server.WriteMessage(OpText, []byte("too late"))
	assert.ErrorIs(t, err, ErrConnClosed)
}
