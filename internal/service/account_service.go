package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"auctionhub/api/internal/apperrors"
	"auctionhub/api/internal/imagehost"
	"auctionhub/api/internal/repository"
)

// AccountService removes a user and everything the user transitively owns.
type AccountService struct {
	pool   TxBeginner
	images imagehost.Uploader
	log    zerolog.Logger
}

func NewAccountService(pool TxBeginner, images imagehost.Uploader, log zerolog.Logger) *AccountService {
	return &AccountService{
		pool:   pool,
		images: images,
		log:    log,
	}
}

// DeleteAccount runs the whole cascade in one transaction: either the user
// and every owned row disappear together, or nothing does. Steps that find
// no rows to delete are expected and logged; only the final user-row
// delete is a hard failure.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}

	deleteURLs, err := s.deleteAccountInTx(ctx, tx, userID)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.log.Error().Err(rbErr).Str("user_id", userID).Msg("account delete rollback failed")
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	// Host-side cleanup happens after commit; the rows are already gone
	// and the host reclaims orphans on its own.
	for _, deleteURL := range deleteURLs {
		s.images.Delete(ctx, deleteURL)
	}

	s.log.Info().Str("user_id", userID).Msg("account deleted")
	return nil
}

func (s *AccountService) deleteAccountInTx(ctx context.Context, tx pgx.Tx, userID string) ([]string, error) {
	users := repository.NewUserRepository(tx)
	tokens := repository.NewTokenRepository(tx)
	auctions := repository.NewAuctionRepository(tx)
	bids := repository.NewBidRepository(tx)

	if err := s.tolerateEmpty(tokens.DeleteByUser(ctx, userID), userID, "tokens"); err != nil {
		return nil, err
	}
	if err := s.tolerateEmpty(users.DeleteStatuses(ctx, userID), userID, "statuses"); err != nil {
		return nil, err
	}
	if err := s.tolerateEmpty(auctions.DeleteViewersByUser(ctx, userID), userID, "viewers"); err != nil {
		return nil, err
	}
	if err := s.tolerateEmpty(bids.DeleteByBidder(ctx, userID), userID, "bids"); err != nil {
		return nil, err
	}

	auctionIDs, err := auctions.IDsByWriter(ctx, userID)
	if err != nil {
		return nil, err
	}

	var deleteURLs []string
	for _, auctionID := range auctionIDs {
		images, err := auctions.ImagesByAuction(ctx, auctionID)
		if err != nil {
			return nil, err
		}
		for _, image := range images {
			deleteURLs = append(deleteURLs, image.DeleteURL)
		}
		if err := s.tolerateEmpty(auctions.DeleteImagesByAuction(ctx, auctionID), userID, "images"); err != nil {
			return nil, err
		}
	}

	if err := s.tolerateEmpty(auctions.DeleteByWriter(ctx, userID), userID, "auctions"); err != nil {
		return nil, err
	}

	// The root row must actually disappear for the operation to count.
	if err := users.Delete(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNoRowsAffected) {
			return nil, apperrors.ErrFailedToDeleteUser
		}
		return nil, err
	}

	return deleteURLs, nil
}

// tolerateEmpty treats "no rows affected" as an expected outcome of a
// cascade step: the user may simply own nothing in that table.
func (s *AccountService) tolerateEmpty(err error, userID, table string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apperrors.ErrNoRowsAffected) {
		s.log.Debug().Str("user_id", userID).Str("table", table).Msg("nothing to delete")
		return nil
	}
	return err
}
