// File: channel/topic_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompilePattern_Universal(t *testing.T) {
	p := CompilePattern("*")
	assert.True(t, p.Match("anything"))
	assert.True(t, p.Match(""))
}

func TestCompilePattern_PrefixWildcard(t *testing.T) {
	p := CompilePattern("room:*")
	assert.True(t, p.Match("room:lobby"))
	assert.True(t, p.Match("room:42"))
	assert.False(t, p.Match("room:"))
	assert.False(t, p.Match("other:lobby"))
}

func TestCompilePattern_Literal(t *testing.T) {
	p := CompilePattern("room:lobby")
	assert.True(t, p.Match("room:lobby"))
	assert.False(t, p.Match("room:lobby2"))
}

func TestPattern_String(t *testing.T) {
	p := CompilePattern("room:*")
	assert.Equal(t, "room:*", p.String())
}
