package repository

import (
	"context"

	"auctionhub/api/internal/apperrors"
	"auctionhub/api/internal/models"
)

type BidRepository struct {
	db DB
}

func NewBidRepository(db DB) *BidRepository {
	return &BidRepository{db: db}
}

func (r *BidRepository) Insert(ctx context.Context, auctionID int64, bidder string, price int64) error {
	const query = `
		INSERT INTO bids (auction_id, bidder, price, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	cmd, err := r.db.Exec(ctx, query, auctionID, bidder, price)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}

func (r *BidRepository) ListByAuction(ctx context.Context, auctionID int64) ([]models.Bid, error) {
	const query = `
		SELECT id, auction_id, bidder, price, created_at
		FROM bids WHERE auction_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []models.Bid
	for rows.Next() {
		var bid models.Bid
		if err := rows.Scan(&bid.ID, &bid.AuctionID, &bid.Bidder, &bid.Price, &bid.CreatedAt); err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	return bids, rows.Err()
}

func (r *BidRepository) DeleteByBidder(ctx context.Context, bidder string) error {
	const query = `DELETE FROM bids WHERE bidder = $1`
	cmd, err := r.db.Exec(ctx, query, bidder)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}

func (r *BidRepository) DeleteByAuction(ctx context.Context, auctionID int64) error {
	const query = `DELETE FROM bids WHERE auction_id = $1`
	cmd, err := r.db.Exec(ctx, query, auctionID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}
