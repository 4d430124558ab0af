// File: route/pattern_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_StaticSegments(t *testing.T) {
	p := MustCompile("/users/active")
	var params Params
	assert.True(t, Match(p, "/users/active", &params))
	assert.False(t, Match(p, "/users/inactive", &params))
}

func TestMatch_NamedParam(t *testing.T) {
	p := MustCompile("/users/:id")
	var params Params
	require.True(t, Match(p, "/users/42", &params))
	v, ok := params.Get("id")
	require.True(t, ok)
	assert.Equal(t, "42", v)

	params.Reset()
	assert.False(t, Match(p, "/users/", &params))
}

func TestMatch_Wildcard(t *testing.T) {
	p := MustCompile("/assets/*path")
	var params Params
	require.True(t, Match(p, "/assets/css/site.css", &params))
	v, _ := params.Get("path")
	assert.Equal(t, "css/site.css", v)
}

func TestMatch_WildcardEmptyTail(t *testing.T) {
	p := MustCompile("/assets/*path")
	var params Params
	require.True(t, Match(p, "/assets", &params))
	v, _ := params.Get("path")
	assert.Equal(t, "", v)
}

func TestCompile_WildcardMustBeLast(t *testing.T) {
	_, err := Compile("/*rest/more")
	assert.ErrorIs(t, err, ErrWildcardNotLast)
}

func TestMatch_SegmentCountMismatch(t *testing.T) {
	p := MustCompile("/a/b")
	var params Params
	assert.False(t, Match(p, "/a/b/c", &params))
	assert.False(t, Match(p, "/a", &params))
}

func TestParams_CapacityLimit(t *testing.T) {
	var params Params
	for i := 0; i < MaxParams; i++ {
		require.NoError(t, params.Set(string(rune('a'+i)), "v"))
	}
	assert.ErrorIs(t, params.Set("overflow", "v"), ErrTooManyParams)
}
