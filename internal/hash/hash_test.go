package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_VerifiesAndSalts(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("password")
	require.NoError(t, err)
	require.NotEmpty(t, h1)
	assert.NotEqual(t, "password", h1)

	assert.True(t, CheckPassword(h1, "password"))
	assert.False(t, CheckPassword(h1, "Password"))

	// per-hash salt: hashing twice never yields the same string
	h2, err := HashPassword("password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
