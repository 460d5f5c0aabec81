package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateToken(secret, "staff-1", "ana@salon.test", time.Hour)
	require.NoError(t, err)

	id, err := ExtractIDFromToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "staff-1", id)

	_, err = ExtractIDFromToken([]byte("other"), token)
	assert.Error(t, err)

	expired, err := GenerateToken(secret, "staff-1", "", -time.Minute)
	require.NoError(t, err)
	_, err = ExtractIDFromToken(secret, expired)
	assert.Error(t, err)

	_, err = GenerateToken(nil, "staff-1", "", time.Hour)
	assert.Error(t, err)
}
