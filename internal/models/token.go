package models

import "time"

type TokenType string

const (
	TokenTypeEmailVerification TokenType = "email_verification"
	TokenTypeRefresh           TokenType = "refresh"
)

// Token is a stored credential row. For refresh tokens Value holds the
// opaque identifier embedded in the signed token, never the signed string.
type Token struct {
	UserID    string
	Type      TokenType
	Value     string
	ExpiresAt time.Time
}
