package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"auctionhub/api/internal/apperrors"
	"auctionhub/api/internal/models"
)

type TokenRepository struct {
	db DB
}

func NewTokenRepository(db DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Insert(ctx context.Context, token models.Token) error {
	const query = `
		INSERT INTO tokens (user_id, token_type, token_value, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	cmd, err := r.db.Exec(ctx, query, token.UserID, token.Type, token.Value, token.ExpiresAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}

func (r *TokenRepository) Delete(ctx context.Context, userID string, tokenType models.TokenType, value string) error {
	const query = `
		DELETE FROM tokens WHERE user_id = $1 AND token_type = $2 AND token_value = $3
	`
	cmd, err := r.db.Exec(ctx, query, userID, tokenType, value)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}

func (r *TokenRepository) DeleteByUserAndType(ctx context.Context, userID string, tokenType models.TokenType) error {
	const query = `DELETE FROM tokens WHERE user_id = $1 AND token_type = $2`
	cmd, err := r.db.Exec(ctx, query, userID, tokenType)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}

func (r *TokenRepository) DeleteByUser(ctx context.Context, userID string) error {
	const query = `DELETE FROM tokens WHERE user_id = $1`
	cmd, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}

// FindEmailVerification resolves a non-expired verification code to the
// user it was issued for.
func (r *TokenRepository) FindEmailVerification(ctx context.Context, code string) (string, error) {
	const query = `
		SELECT user_id FROM tokens
		WHERE token_type = $1 AND token_value = $2 AND expires_at > NOW()
	`
	var userID string
	if err := r.db.QueryRow(ctx, query, models.TokenTypeEmailVerification, code).Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrEmailTokenNotFound
		}
		return "", err
	}
	return userID, nil
}

// HasValidRefresh reports whether the store holds a live refresh-token row
// matching the opaque identifier. The store is the authority on revocation.
func (r *TokenRepository) HasValidRefresh(ctx context.Context, userID, opaqueID string) error {
	const query = `
		SELECT user_id FROM tokens
		WHERE user_id = $1 AND token_type = $2 AND token_value = $3 AND expires_at > NOW()
	`
	var found string
	if err := r.db.QueryRow(ctx, query, userID, models.TokenTypeRefresh, opaqueID).Scan(&found); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrInvalidRefreshToken
		}
		return err
	}
	return nil
}

// DeleteExpired removes every row whose expiry has passed and returns the
// number of rows swept.
func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM tokens WHERE expires_at <= NOW()`
	cmd, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
