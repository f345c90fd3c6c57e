package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"auctionhub/api/internal/apperrors"
	"auctionhub/api/internal/config"
	"auctionhub/api/internal/ids"
	"auctionhub/api/internal/models"
	"auctionhub/api/internal/security"
)

// TokenStore is the persistence surface the token lifecycle needs.
// *repository.TokenRepository implements it.
type TokenStore interface {
	Insert(ctx context.Context, token models.Token) error
	Delete(ctx context.Context, userID string, tokenType models.TokenType, value string) error
	DeleteByUserAndType(ctx context.Context, userID string, tokenType models.TokenType) error
	DeleteByUser(ctx context.Context, userID string) error
	FindEmailVerification(ctx context.Context, code string) (string, error)
	HasValidRefresh(ctx context.Context, userID, opaqueID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// TokenService issues, validates, rotates and expires credentials.
// Access tokens are stateless; refresh and email-verification tokens are
// mirrored in the store, which is the authority on revocation.
type TokenService struct {
	tokens TokenStore
	cfg    config.SecurityConfig
	log    zerolog.Logger
}

func NewTokenService(tokens TokenStore, cfg config.SecurityConfig, log zerolog.Logger) *TokenService {
	return &TokenService{
		tokens: tokens,
		cfg:    cfg,
		log:    log,
	}
}

func (s *TokenService) IssueAccessToken(userID string) (string, error) {
	return security.SignAccessToken(s.cfg.JWTAccessSecret, s.cfg.BaseURL, userID, s.cfg.JWTAccessTTL)
}

// IssueRefreshToken supersedes any prior refresh session for the user:
// the old opaque id row is deleted best-effort before the new one is
// stored. A fresh login without a prior session is not an error.
func (s *TokenService) IssueRefreshToken(ctx context.Context, userID string) (signed string, opaqueID string, err error) {
	opaqueID = ids.NewOpaque()

	signed, err = security.SignRefreshToken(s.cfg.JWTRefreshSecret, s.cfg.BaseURL, userID, opaqueID, s.cfg.JWTRefreshTTL)
	if err != nil {
		return "", "", err
	}

	if err := s.tokens.DeleteByUserAndType(ctx, userID, models.TokenTypeRefresh); err != nil {
		if !errors.Is(err, apperrors.ErrNoRowsAffected) {
			return "", "", err
		}
		s.log.Debug().Str("user_id", userID).Msg("no prior refresh token to supersede")
	}

	token := models.Token{
		UserID:    userID,
		Type:      models.TokenTypeRefresh,
		Value:     opaqueID,
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshTTL),
	}
	if err := s.tokens.Insert(ctx, token); err != nil {
		return "", "", err
	}

	return signed, opaqueID, nil
}

func (s *TokenService) ValidateAccessToken(tokenStr string) (string, error) {
	return security.ParseAccessToken(tokenStr, s.cfg.JWTAccessSecret)
}

// ValidateRefreshToken verifies the signature, then requires a live store
// row for the embedded opaque id. A rotated or revoked token passes the
// signature check but fails here.
func (s *TokenService) ValidateRefreshToken(ctx context.Context, tokenStr string) (userID, opaqueID string, err error) {
	userID, opaqueID, err = security.ParseRefreshToken(tokenStr, s.cfg.JWTRefreshSecret)
	if err != nil {
		return "", "", err
	}

	if err := s.tokens.HasValidRefresh(ctx, userID, opaqueID); err != nil {
		return "", "", err
	}
	return userID, opaqueID, nil
}

func (s *TokenService) IssueEmailVerificationToken(ctx context.Context, userID string) (string, error) {
	code := ids.NewOpaque()
	token := models.Token{
		UserID:    userID,
		Type:      models.TokenTypeEmailVerification,
		Value:     code,
		ExpiresAt: time.Now().Add(s.cfg.EmailTokenTTL),
	}
	if err := s.tokens.Insert(ctx, token); err != nil {
		return "", err
	}
	return code, nil
}

// ConsumeEmailVerificationToken resolves a code to its user and burns the
// row, making the code single use.
func (s *TokenService) ConsumeEmailVerificationToken(ctx context.Context, code string) (string, error) {
	userID, err := s.tokens.FindEmailVerification(ctx, code)
	if err != nil {
		return "", err
	}
	if err := s.tokens.Delete(ctx, userID, models.TokenTypeEmailVerification, code); err != nil {
		return "", err
	}
	return userID, nil
}

// RevokeRefreshTokens logs the user out of their refresh session. Nothing
// to revoke is success.
func (s *TokenService) RevokeRefreshTokens(ctx context.Context, userID string) error {
	if err := s.tokens.DeleteByUserAndType(ctx, userID, models.TokenTypeRefresh); err != nil {
		if errors.Is(err, apperrors.ErrNoRowsAffected) {
			return nil
		}
		return err
	}
	return nil
}

// RevokeAllTokens removes every token row for the user, used during
// account deletion.
func (s *TokenService) RevokeAllTokens(ctx context.Context, userID string) error {
	if err := s.tokens.DeleteByUser(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNoRowsAffected) {
			return nil
		}
		return err
	}
	return nil
}

// SweepExpired is background maintenance: it logs, it never raises.
func (s *TokenService) SweepExpired(ctx context.Context) {
	swept, err := s.tokens.DeleteExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("expired token sweep failed")
		return
	}
	s.log.Info().Int64("swept", swept).Msg("expired tokens removed")
}

// VerificationMailBody renders the HTML body for the verification mail.
func (s *TokenService) VerificationMailBody(linkBase, code string) string {
	return fmt.Sprintf(
		"<h1>Auction account verification</h1><h2><a href='%s/%s'>Verify your email</a></h2>This link is valid for %d minutes.",
		linkBase, code, int(s.cfg.EmailTokenTTL.Minutes()),
	)
}
