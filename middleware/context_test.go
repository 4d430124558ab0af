// File: middleware/context_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/momentics/hioload-web/transport"
)

func TestContext_UpgradeNilByDefault(t *testing.T) {
	ctx := newTestContext()
	assert.Nil(t, ctx.Upgrade())
}

func TestContext_SetUpgradeStoresCallback(t *testing.T) {
	ctx := newTestContext()
	called := false
	ctx.SetUpgrade(func(transport.Conn) { called = true })

	fn := ctx.Upgrade()
	assert.NotNil(t, fn)
	fn(nil)
	assert.True(t, called)
}
