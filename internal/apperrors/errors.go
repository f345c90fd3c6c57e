// Package apperrors defines the typed error values shared across services
// and handlers. Each error carries the HTTP status it maps to, so handlers
// never match on message strings.
package apperrors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNoRowsAffected
	KindNotFound
	KindUserNotFound
	KindInvalidToken
	KindTokenExpired
	KindInvalidRefreshToken
	KindRefreshTokenRequired
	KindDuplicateID
	KindDuplicateEmail
	KindDuplicateNickname
	KindEmailVerifyRequired
	KindAuctionNotFound
	KindAuctionExpired
	KindBidBelowStartingPrice
	KindHigherBidExists
	KindImageNotUploaded
	KindEnvironmentMisconfigured
	KindFailedToDeleteUser
	KindForbidden
)

type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches any wrapped *Error of the same kind, so copies produced by
// fmt.Errorf("%w", ...) still compare equal under errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNoRowsAffected            = &Error{KindNoRowsAffected, http.StatusNotFound, "no rows matched the condition"}
	ErrEmailTokenNotFound        = &Error{KindNotFound, http.StatusNotFound, "email verification token not found"}
	ErrUserNotFound              = &Error{KindUserNotFound, http.StatusNotFound, "user not found"}
	ErrInvalidToken              = &Error{KindInvalidToken, http.StatusUnauthorized, "invalid access token"}
	ErrTokenExpired              = &Error{KindTokenExpired, http.StatusUnauthorized, "access token expired, request a refresh"}
	ErrInvalidRefreshToken       = &Error{KindInvalidRefreshToken, http.StatusUnauthorized, "invalid refresh token"}
	ErrRefreshTokenRequired      = &Error{KindRefreshTokenRequired, http.StatusUnauthorized, "refresh token required"}
	ErrDuplicateID               = &Error{KindDuplicateID, http.StatusBadRequest, "this id is already in use"}
	ErrDuplicateEmail            = &Error{KindDuplicateEmail, http.StatusBadRequest, "this email is already in use"}
	ErrDuplicateNickname         = &Error{KindDuplicateNickname, http.StatusBadRequest, "this nickname is already in use"}
	ErrEmailVerifyRequired       = &Error{KindEmailVerifyRequired, http.StatusForbidden, "email verification must be completed first"}
	ErrAuctionNotFound           = &Error{KindAuctionNotFound, http.StatusNotFound, "auction not found"}
	ErrAuctionExpired            = &Error{KindAuctionExpired, http.StatusBadRequest, "auction has already ended"}
	ErrBidBelowStartingPrice     = &Error{KindBidBelowStartingPrice, http.StatusBadRequest, "bid is below the starting price"}
	ErrHigherBidExists           = &Error{KindHigherBidExists, http.StatusConflict, "a higher bid already exists"}
	ErrImageNotUploaded          = &Error{KindImageNotUploaded, http.StatusBadGateway, "image upload failed"}
	ErrEnvironmentMisconfigured  = &Error{KindEnvironmentMisconfigured, http.StatusInternalServerError, "server environment is misconfigured"}
	ErrFailedToDeleteUser        = &Error{KindFailedToDeleteUser, http.StatusInternalServerError, "failed to delete user"}
	ErrNotAuctionWriter          = &Error{KindForbidden, http.StatusForbidden, "only the auction writer may do this"}
)

// Status returns the HTTP status for err, or 500 when err carries none.
func Status(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// Message returns the caller-visible message for err. Unmapped errors
// degrade to a generic body so internals never leak.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
