package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noruno/platform/internal/infrastructure/config"
)

func TestTokenService(t *testing.T) {
	svc := NewTokenService(config.SecurityConfig{APITokenSecret: "s3cret", APITokenTTL: time.Hour})
	require.True(t, svc.Enabled())

	token, expiresAt, err := svc.Issue("desktop")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "desktop", claims.Client)

	_, err = svc.Validate(token + "x")
	assert.Error(t, err)

	other := NewTokenService(config.SecurityConfig{APITokenSecret: "different", APITokenTTL: time.Hour})
	_, err = other.Validate(token)
	assert.Error(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestTokenService_Disabled(t *testing.T) {
	svc := NewTokenService(config.SecurityConfig{})
	assert.False(t, svc.Enabled())

	_, _, err := svc.Issue("desktop")
	assert.ErrorIs(t, err, ErrTokensDisabled)
	_, err = svc.Validate("anything")
	assert.ErrorIs(t, err, ErrTokensDisabled)
}
