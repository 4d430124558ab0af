// File: middleware/requestid_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package middleware

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_AssignsUUIDAndCallsNext(t *testing.T) {
	ctx := newTestContext()
	called := false

	Compose([]Handler{RequestID(), func(c *Context) { called = true }})(ctx)

	assert.True(t, called)
	v, ok := ctx.Assigns.Get(RequestIDKey)
	require.True(t, ok)
	_, err := uuid.Parse(v)
	assert.NoError(t, err)
}

func TestRequestID_DistinctPerRequest(t *testing.T) {
	ctx1 := newTestContext()
	ctx2 := newTestContext()
	RequestID()(ctx1)
	RequestID()(ctx2)

	v1, _ := ctx1.Assigns.Get(RequestIDKey)
	v2, _ := ctx2.Assigns.Get(RequestIDKey)
	assert.NotEqual(t, v1, v2)
}
