package models

import "time"

type UserStatus string

const (
	// UserStatusEmailVerifyRequired blocks login until the emailed
	// verification code is consumed.
	UserStatusEmailVerifyRequired UserStatus = "email_verify_required"
)

// BlockingStatuses are the statuses that prevent a login from succeeding.
var BlockingStatuses = map[UserStatus]struct{}{
	UserStatusEmailVerifyRequired: {},
}

type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Nickname     string
	CreatedAt    time.Time
}
