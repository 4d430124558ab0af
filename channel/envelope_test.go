// File: channel/envelope_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package channel

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_EncodeDecodeRoundTrip(t *testing.T) {
	env := Envelope{Topic: "room:lobby", Event: "new_msg", Payload: json.RawMessage(`{"body":"hi"}`), Ref: "1"}
	data, err := env.Encode()
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, env.Topic, got.Topic)
	assert.Equal(t, env.Event, got.Event)
	assert.JSONEq(t, `{"body":"hi"}`, string(got.Payload))
	assert.Equal(t, env.Ref, got.Ref)
}

func TestNewReply_OKWithResponse(t *testing.T) {
	env, err := NewReply("room:lobby", "5", StatusOK, map[string]string{"status": "joined"})
	require.NoError(t, err)
	assert.Equal(t, EventReply, env.Event)
	assert.Equal(t, "5", env.Ref)

	var payload struct {
		Status   ReplyStatus     `json:"status"`
		Response json.RawMessage `json:"response"`
	}
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, StatusOK, payload.Status)
	assert.JSONEq(t, `{"status":"joined"}`, string(payload.Response))
}

func TestNewReply_ErrorWithNilResponse(t *testing.T) {
	env, err := NewReply("room:lobby", "6", StatusError, nil)
	require.NoError(t, err)

	var payload struct {
		Status   ReplyStatus     `json:"status"`
		Response json.RawMessage `json:"response,omitempty"`
	}
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, StatusError, payload.Status)
	assert.Nil(t, payload.Response)
}

func TestDecode_MalformedJSON(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)
}
