package owned

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseRunsExactlyOnce(t *testing.T) {
	calls := 0
	h := New("resource", func(string) error {
		calls++
		return nil
	})
	require.True(t, h.Held())
	require.NoError(t, h.Release())
	require.NoError(t, h.Release())
	assert.Equal(t, 1, calls)
	assert.False(t, h.Held())

	v, ok := h.Get()
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestReleaseReturnsReleaseError(t *testing.T) {
	failure := errors.New("close failed")
	h := New(1, func(int) error { return failure })
	assert.Equal(t, failure, h.Release())
	assert.NoError(t, h.Release())
}

func TestTakeTransfersOwnership(t *testing.T) {
	released := false
	h := New(42, func(int) error {
		released = true
		return nil
	})
	v, ok := h.Take()
	require.True(t, ok)
	assert.Equal(t, 42, v)
	assert.False(t, h.Held())

	require.NoError(t, h.Release())
	assert.False(t, released)

	_, ok = h.Take()
	assert.False(t, ok)
}

func TestGetKeepsOwnership(t *testing.T) {
	h := New([]int{1}, nil)
	v, ok := h.Get()
	require.True(t, ok)
	assert.Equal(t, []int{1}, v)
	assert.True(t, h.Held())
	assert.NoError(t, h.Release())
}

func TestNilHandleIsEmpty(t *testing.T) {
	var h *Handle[string]
	assert.False(t, h.Held())
	_, ok := h.Get()
	assert.False(t, ok)
}
