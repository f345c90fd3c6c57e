package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"auctionhub/api/internal/apperrors"
)

// RefreshClaims carry the opaque identifier that the token store mirrors.
// The store row, not the signature, is the authority on revocation.
type RefreshClaims struct {
	OpaqueID string `json:"oid"`
	jwt.RegisteredClaims
}

func SignAccessToken(secret, baseURL, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    baseURL + "/auth/login",
		Subject:   userID,
		Audience:  jwt.ClaimStrings{baseURL},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func SignRefreshToken(secret, baseURL, userID, opaqueID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		OpaqueID: opaqueID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    baseURL + "/auth/login",
			Subject:   userID,
			Audience:  jwt.ClaimStrings{baseURL + "/auth/refresh"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken returns the user id the token is bound to. Expiry is
// reported distinctly from all other validation failures so the client
// knows to start a refresh.
func ParseAccessToken(tokenStr, secret string) (string, error) {
	token, err := jwt.Parse(tokenStr, keyFunc(secret))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.ErrTokenExpired
		}
		return "", apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", apperrors.ErrInvalidToken
	}
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", apperrors.ErrInvalidToken
	}
	return subject, nil
}

// ParseRefreshToken verifies the signature and expiry and returns the
// subject and the embedded opaque identifier. The caller must still check
// the store before trusting it.
func ParseRefreshToken(tokenStr, secret string) (userID, opaqueID string, err error) {
	token, err := jwt.ParseWithClaims(tokenStr, &RefreshClaims{}, keyFunc(secret))
	if err != nil {
		return "", "", apperrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid {
		return "", "", apperrors.ErrInvalidRefreshToken
	}
	if claims.Subject == "" || claims.OpaqueID == "" {
		return "", "", apperrors.ErrInvalidRefreshToken
	}
	return claims.Subject, claims.OpaqueID, nil
}

func keyFunc(secret string) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}
}
