package jwtutil

import (
	"testing"

	"hotel-booking-service/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(key string, hours int) *Issuer {
	return New(&config.JWTConfig{SigningKey: key, ExpirationHours: hours})
}

func TestGenerateValidateRoundtrip(t *testing.T) {
	issuer := newTestIssuer("test-secret", 1)

	token, err := issuer.Generate(42, "alice", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateExpiredToken(t *testing.T) {
	issuer := newTestIssuer("test-secret", -1)

	token, err := issuer.Generate(1, "bob", "user")
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	assert.Error(t, err)
}

func TestValidateTamperedToken(t *testing.T) {
	issuer := newTestIssuer("test-secret", 1)

	token, err := issuer.Generate(1, "bob", "user")
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "xxxx"
	_, err = issuer.Validate(tampered)
	assert.Error(t, err)
}

func TestValidateWrongKey(t *testing.T) {
	issuer := newTestIssuer("test-secret", 1)
	other := newTestIssuer("other-secret", 1)

	token, err := issuer.Generate(1, "bob", "user")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestValidateGarbage(t *testing.T) {
	issuer := newTestIssuer("test-secret", 1)

	_, err := issuer.Validate("not-a-token")
	assert.Error(t, err)
}
