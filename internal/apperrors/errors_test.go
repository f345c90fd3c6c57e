package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, Status(ErrUserNotFound))
	assert.Equal(t, http.StatusUnauthorized, Status(ErrTokenExpired))
	assert.Equal(t, http.StatusConflict, Status(ErrHigherBidExists))
	assert.Equal(t, http.StatusBadGateway, Status(ErrImageNotUploaded))
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("plain")))
}

func TestStatus_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("placing bid: %w", ErrAuctionExpired)
	assert.Equal(t, http.StatusBadRequest, Status(wrapped))
	assert.Equal(t, "auction has already ended", Message(wrapped))
}

func TestMessage_UnmappedErrorDoesNotLeak(t *testing.T) {
	assert.Equal(t, "internal server error", Message(errors.New("pq: connection reset")))
}

func TestIs_MatchesByKind(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", ErrInvalidRefreshToken)
	assert.ErrorIs(t, wrapped, ErrInvalidRefreshToken)
	assert.NotErrorIs(t, wrapped, ErrInvalidToken)
	assert.NotErrorIs(t, wrapped, errors.New("invalid refresh token"))
}
