package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner_RoundTrip(t *testing.T) {
	signer := NewSigner("test-secret", 5)

	token, err := signer.Sign(42, "jane@example.com", "admin")
	require.NoError(t, err)

	claims, err := signer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestSigner_RejectsForeignSecret(t *testing.T) {
	token, err := NewSigner("one", 5).Sign(1, "a@b.c", "jobseeker")
	require.NoError(t, err)

	_, err = NewSigner("two", 5).Validate(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestSigner_Expired(t *testing.T) {
	token, err := NewSigner("s", -1).Sign(1, "a@b.c", "jobseeker")
	require.NoError(t, err)

	_, err = NewSigner("s", 5).Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
