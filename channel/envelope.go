// File: channel/envelope.go
// Package channel implements a Phoenix-style channel protocol layered
// over a WebSocket connection: topic join/leave, push/reply,
// broadcast, and the reserved phx_join/phx_leave/phx_reply/heartbeat
// events. New domain code (momentics-hioload-ws has no pub/sub layer), written
// in momentics-hioload-ws's idiom and grounded on its JSON-over-the-wire + mailbox
// patterns, with the per-subscriber outbound queue built on momentics-hioload-ws's
// own github.com/eapache/queue dependency instead of a raw channel.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package channel

import "encoding/json"

// Reserved event names, matching the Phoenix channel wire protocol.
const (
	EventJoin      = "phx_join"
	EventLeave     = "phx_leave"
	EventReply     = "phx_reply"
	EventHeartbeat = "heartbeat"
	EventClose     = "phx_close"
	EventError     = "phx_error"
)

// Envelope is the JSON message exchanged over the WebSocket connection.
type Envelope struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref,omitempty"`
}

// ReplyStatus is the status field nested in a phx_reply payload.
type ReplyStatus string

const (
	StatusOK    ReplyStatus = "ok"
	StatusError ReplyStatus = "error"
)

// replyPayload is the payload shape of a phx_reply envelope.
type replyPayload struct {
	Status   ReplyStatus     `json:"status"`
	Response json.RawMessage `json:"response,omitempty"`
}

// NewReply builds the phx_reply envelope sent in answer to a ref'd request
// (join, leave, or push).
func NewReply(topic, ref string, status ReplyStatus, response any) (Envelope, error) {
	var raw json.RawMessage
	if response != nil {
		b, err := json.Marshal(response)
		if err != nil {
			return Envelope{}, err
		}
		raw = b
	}
	p, err := json.Marshal(replyPayload{Status: status, Response: raw})
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Topic: topic, Event: EventReply, Payload: p, Ref: ref}, nil
}

// Encode serializes the envelope for transmission as a WebSocket text
// frame.
func (e Envelope) Encode() ([]byte, error) { return json.Marshal(e) }

// Decode parses a received text-frame payload into an Envelope.
func Decode(data []byte) (Envelope, error) {
	var e Envelope
	err := json.Unmarshal(data, &e)
	return e, err
}

// marshalPayload encodes an arbitrary payload value to json.RawMessage,
// passing through values that are already raw JSON.
func marshalPayload(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(v)
}
