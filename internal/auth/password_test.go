package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	require.NoError(t, h.Compare(hash, "hunter22"))
	require.Error(t, h.Compare(hash, "hunter23"))
}

func TestHasher_SaltsEachHash(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)
	first, err := h.Hash("same")
	require.NoError(t, err)
	second, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestNewHasher_DefaultsOutOfRangeCost(t *testing.T) {
	t.Parallel()

	hash, err := NewHasher(0).Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)
}
