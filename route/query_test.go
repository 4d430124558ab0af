// File: route/query_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery_Basic(t *testing.T) {
	var p Params
	ParseQuery([]byte("a=1&b=two&flag"), &p)

	v, _ := p.Get("a")
	assert.Equal(t, "1", v)
	v, _ = p.Get("b")
	assert.Equal(t, "two", v)
	v, ok := p.Get("flag")
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestParseQuery_PercentEncoded(t *testing.T) {
	var p Params
	ParseQuery([]byte("q=hello%20world"), &p)
	v, _ := p.Get("q")
	assert.Equal(t, "hello world", v)
}

func TestParseQuery_Empty(t *testing.T) {
	var p Params
	ParseQuery(nil, &p)
	assert.Equal(t, 0, p.Len())
}
