package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	tok, err := GenerateToken("s3cret", "user-1", "ops@example.com", "authenticated", time.Hour)
	require.NoError(t, err)

	claims, err := VerifyToken("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "ops@example.com", claims.Email)
}

func TestVerifyToken_Rejects(t *testing.T) {
	tok, err := GenerateToken("s3cret", "user-1", "", "", time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken("other", tok)
	assert.Error(t, err)

	expired, err := GenerateToken("s3cret", "user-1", "", "", -time.Minute)
	require.NoError(t, err)
	_, err = VerifyToken("s3cret", expired)
	assert.Error(t, err)

	noSubject, err := GenerateToken("s3cret", "", "", "", time.Hour)
	require.NoError(t, err)
	_, err = VerifyToken("s3cret", noSubject)
	assert.Error(t, err)

	_, err = VerifyToken("", tok)
	assert.ErrorIs(t, err, ErrNoSecret)

	_, err = GenerateToken("", "u", "", "", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
}
