package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("s3cretpass")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cretpass", hash)

	assert.True(t, hasher.Check("s3cretpass", hash))
	assert.False(t, hasher.Check("wrongpass", hash))
}

func TestBcryptHasher_HashesAreSalted(t *testing.T) {
	hasher := NewBcryptHasher(4)

	first, err := hasher.Hash("s3cretpass")
	require.NoError(t, err)
	second, err := hasher.Hash("s3cretpass")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check("s3cretpass", first))
	assert.True(t, hasher.Check("s3cretpass", second))
}

func TestBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	hasher := NewBcryptHasher(99)

	hash, err := hasher.Hash("s3cretpass")
	require.NoError(t, err)
	assert.True(t, hasher.Check("s3cretpass", hash))
}

func TestBcryptHasher_CheckMalformedHash(t *testing.T) {
	hasher := NewBcryptHasher(4)

	assert.False(t, hasher.Check("s3cretpass", "not-a-bcrypt-hash"))
}
