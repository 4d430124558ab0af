// File: internal/arena/arena_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_CopyAndCopyStringAreIndependent(t *testing.T) {
	a := New(8)
	src := []byte("hello")
	got := a.Copy(src)
	src[0] = 'X'

	assert.Equal(t, "hello", string(got), "arena copy must not alias the caller's slice")

	got2 := a.CopyString("world")
	assert.Equal(t, "world", string(got2))
}

func TestArena_AllocGrowsAndZeroes(t *testing.T) {
	a := New(0)
	first := a.Alloc(4)
	for _, b := range first {
		assert.Equal(t, byte(0), b)
	}
	copy(first, []byte{1, 2, 3, 4})

	second := a.Alloc(4)
	require.Len(t, second, 4)
	assert.Equal(t, []byte{1, 2, 3, 4}, first, "growth must not disturb earlier allocations")
}

func TestArena_ResetReusesBackingArray(t *testing.T) {
	a := New(16)
	_ = a.Alloc(4)
	a.Reset()
	second := a.Alloc(4)

	require.Len(t, second, 4)
	assert.Equal(t, 4, len(a.buf), "Reset must drop prior allocations from the live length")
	assert.Equal(t, 16, cap(a.buf), "Reset must keep the original backing array")
}
