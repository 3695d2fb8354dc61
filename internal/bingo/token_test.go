package bingo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStore(t *testing.T) {
	s := NewMemoryTokenStore()

	// Absent keys read as empty, not as an error.
	v, err := s.Get("token")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.Set("token", "tok-1"))
	v, err = s.Get("token")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", v)

	require.NoError(t, s.Set("token", "tok-2"))
	v, _ = s.Get("token")
	assert.Equal(t, "tok-2", v)

	require.NoError(t, s.Remove("token"))
	v, _ = s.Get("token")
	assert.Empty(t, v)

	// Removing an absent key is a no-op.
	assert.NoError(t, s.Remove("token"))
}
