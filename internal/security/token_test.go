package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhub/api/internal/apperrors"
)

const (
	testSecret  = "test-secret-key"
	testBaseURL = "http://localhost:8080"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	signed, err := SignAccessToken(testSecret, testBaseURL, "alice01", 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	userID, err := ParseAccessToken(signed, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice01", userID)
}

func TestAccessToken_Expired(t *testing.T) {
	signed, err := SignAccessToken(testSecret, testBaseURL, "alice01", -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(signed, testSecret)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	signed, err := SignAccessToken(testSecret, testBaseURL, "alice01", 15*time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(signed, "another-secret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestAccessToken_Malformed(t *testing.T) {
	_, err := ParseAccessToken("not.a.jwt", testSecret)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	signed, err := SignRefreshToken(testSecret, testBaseURL, "alice01", "opaque-123", 7*24*time.Hour)
	require.NoError(t, err)

	userID, opaqueID, err := ParseRefreshToken(signed, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice01", userID)
	assert.Equal(t, "opaque-123", opaqueID)
}

func TestRefreshToken_Expired(t *testing.T) {
	signed, err := SignRefreshToken(testSecret, testBaseURL, "alice01", "opaque-123", -time.Minute)
	require.NoError(t, err)

	_, _, err = ParseRefreshToken(signed, testSecret)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
}

func TestRefreshToken_AccessTokenRejected(t *testing.T) {
	// An access token carries no opaque id and must not pass as a
	// refresh token even when signed with the same secret.
	signed, err := SignAccessToken(testSecret, testBaseURL, "alice01", 15*time.Minute)
	require.NoError(t, err)

	_, _, err = ParseRefreshToken(signed, testSecret)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
}
