package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	signer, err := NewSigner("test-secret", time.Hour)
	require.NoError(t, err)

	token, expiresAt, err := signer.Sign("user-1", "a@b.com", "sess-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "sess-1", claims.SessionID())
	assert.Equal(t, "a@b.com", claims.Email)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	a, _ := NewSigner("secret-a", time.Hour)
	b, _ := NewSigner("secret-b", time.Hour)

	token, _, err := a.Sign("user-1", "", "sess-1")
	require.NoError(t, err)

	_, err = b.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	signer, _ := NewSigner("secret", time.Minute)
	signer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := signer.Sign("user-1", "", "sess-1")
	require.NoError(t, err)

	signer.now = time.Now
	_, err = signer.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	signer, _ := NewSigner("secret", time.Minute)
	_, err := signer.Verify("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSignerRequiresSecret(t *testing.T) {
	_, err := NewSigner("  ", time.Minute)
	require.ErrorIs(t, err, ErrMissingSecret)
}
