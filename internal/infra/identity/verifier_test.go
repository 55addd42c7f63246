package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/fintrack-app/fintrack-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "fintrack-idp"
)

func TestVerifyValidToken(t *testing.T) {
	token, err := MintToken(testSecret, testIssuer, "owner-1", "ana@example.com", time.Hour)
	require.NoError(t, err)

	v := NewVerifier(testSecret, testIssuer)
	id, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", id.OwnerID)
	assert.Equal(t, "ana@example.com", id.Email)
}

func TestVerifyExpiredToken(t *testing.T) {
	token, err := MintToken(testSecret, testIssuer, "owner-1", "ana@example.com", -time.Minute)
	require.NoError(t, err)

	v := NewVerifier(testSecret, testIssuer)
	_, err = v.Verify(token)

	var unauthorized *domain.ErrUnauthorized
	assert.True(t, errors.As(err, &unauthorized))
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := MintToken("other-secret", testIssuer, "owner-1", "", time.Hour)
	require.NoError(t, err)

	v := NewVerifier(testSecret, testIssuer)
	_, err = v.Verify(token)

	var unauthorized *domain.ErrUnauthorized
	assert.True(t, errors.As(err, &unauthorized))
}

func TestVerifyWrongIssuer(t *testing.T) {
	token, err := MintToken(testSecret, "someone-else", "owner-1", "", time.Hour)
	require.NoError(t, err)

	v := NewVerifier(testSecret, testIssuer)
	_, err = v.Verify(token)

	var unauthorized *domain.ErrUnauthorized
	assert.True(t, errors.As(err, &unauthorized))
}

func TestVerifyGarbage(t *testing.T) {
	v := NewVerifier(testSecret, testIssuer)
	_, err := v.Verify("not-a-token")

	var unauthorized *domain.ErrUnauthorized
	assert.True(t, errors.As(err, &unauthorized))
}
