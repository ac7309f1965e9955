package token_test

import (
	"testing"
	"time"

	"veridia-hiring-backend/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	svc := token.NewService("test-secret", time.Hour)

	signed, err := svc.Issue("ada@example.com", "candidate")
	require.NoError(t, err)

	claims, err := svc.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "candidate", claims.Role)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	svc := token.NewService("test-secret", time.Hour)
	other := token.NewService("other-secret", time.Hour)

	signed, err := other.Issue("ada@example.com", "admin")
	require.NoError(t, err)

	_, err = svc.Parse(signed)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	svc := token.NewService("test-secret", -time.Minute)

	signed, err := svc.Issue("ada@example.com", "candidate")
	require.NoError(t, err)

	_, err = svc.Parse(signed)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	svc := token.NewService("test-secret", time.Hour)

	_, err := svc.Parse("not-a-token")
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestResetTokenDigest(t *testing.T) {
	raw, digest, err := token.GenerateResetToken()
	require.NoError(t, err)

	assert.Len(t, raw, 64)
	assert.Len(t, digest, 64)
	assert.NotEqual(t, raw, digest)
	assert.Equal(t, digest, token.HashResetToken(raw))

	raw2, digest2, err := token.GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
	assert.NotEqual(t, digest, digest2)
}
