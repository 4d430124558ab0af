// File: middleware/requestid.go
// RequestID assigns a per-request identifier used for log correlation
// before the rest of the pipeline runs, exposing it through Assigns for
// handlers and downstream
// logging middleware. New ambient-stack code grounded on momentics-hioload-ws's own
// use of github.com/google/uuid for connection/session identifiers
// elsewhere in its module graph.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package middleware

import "github.com/google/uuid"

// RequestIDKey is the Assigns key RequestID stores the generated id under.
const RequestIDKey = "request_id"

// RequestID returns a Handler that assigns a fresh UUIDv4 to every request
// under RequestIDKey and always calls ctx.Next(), making it safe as the
// first entry in a global pipeline.
func RequestID() Handler {
	return func(ctx *Context) {
		_ = ctx.Assigns.Set(RequestIDKey, uuid.NewString())
		ctx.Next()
	}
}
