package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"auctionhub/api/internal/apperrors"
	"auctionhub/api/internal/models"
)

type AuctionRepository struct {
	db DB
}

func NewAuctionRepository(db DB) *AuctionRepository {
	return &AuctionRepository{db: db}
}

func (r *AuctionRepository) Create(ctx context.Context, auction models.Auction) (int64, error) {
	const query = `
		INSERT INTO auctions (writer, item_name, item_description, created_at, expires_at, start_price, bid_step)
		VALUES ($1, $2, $3, NOW(), $4, $5, $6)
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRow(ctx, query,
		auction.Writer,
		auction.ItemName,
		auction.ItemDescription,
		auction.ExpiresAt,
		auction.StartPrice,
		auction.BidStep,
	).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *AuctionRepository) GetByID(ctx context.Context, id int64) (models.Auction, error) {
	const query = `
		SELECT id, writer, item_name, item_description, created_at, expires_at, start_price, bid_step
		FROM auctions WHERE id = $1
	`
	return r.get(ctx, query, id)
}

// GetByIDForUpdate locks the auction row for the duration of the enclosing
// transaction, serializing concurrent bids on the same auction.
func (r *AuctionRepository) GetByIDForUpdate(ctx context.Context, id int64) (models.Auction, error) {
	const query = `
		SELECT id, writer, item_name, item_description, created_at, expires_at, start_price, bid_step
		FROM auctions WHERE id = $1
		FOR UPDATE
	`
	return r.get(ctx, query, id)
}

func (r *AuctionRepository) get(ctx context.Context, query string, id int64) (models.Auction, error) {
	row := r.db.QueryRow(ctx, query, id)
	var auction models.Auction
	if err := row.Scan(
		&auction.ID,
		&auction.Writer,
		&auction.ItemName,
		&auction.ItemDescription,
		&auction.CreatedAt,
		&auction.ExpiresAt,
		&auction.StartPrice,
		&auction.BidStep,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Auction{}, apperrors.ErrAuctionNotFound
		}
		return models.Auction{}, err
	}
	return auction, nil
}

var listOrderColumns = map[string]string{
	"createdAt":  "created_at",
	"expiresAt":  "expires_at",
	"startPrice": "start_price",
}

// List returns a page of auctions. pageCursor skips past the given id,
// orderBy/order are validated against a column whitelist, and search
// filters on the item name.
func (r *AuctionRepository) List(ctx context.Context, pageCursor int64, orderBy, order string, limit int, search string) ([]models.Auction, error) {
	column, ok := listOrderColumns[orderBy]
	if !ok {
		column = "id"
	}
	direction := "DESC"
	if order == "asc" {
		direction = "ASC"
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := fmt.Sprintf(`
		SELECT id, writer, item_name, item_description, created_at, expires_at, start_price, bid_step
		FROM auctions
		WHERE ($1 = 0 OR id < $1) AND ($2 = '' OR item_name ILIKE '%%' || $2 || '%%')
		ORDER BY %s %s
		LIMIT $3
	`, column, direction)

	rows, err := r.db.Query(ctx, query, pageCursor, search, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var auctions []models.Auction
	for rows.Next() {
		var auction models.Auction
		if err := rows.Scan(
			&auction.ID,
			&auction.Writer,
			&auction.ItemName,
			&auction.ItemDescription,
			&auction.CreatedAt,
			&auction.ExpiresAt,
			&auction.StartPrice,
			&auction.BidStep,
		); err != nil {
			return nil, err
		}
		auctions = append(auctions, auction)
	}
	return auctions, rows.Err()
}

func (r *AuctionRepository) IDsByWriter(ctx context.Context, writer string) ([]int64, error) {
	const query = `SELECT id FROM auctions WHERE writer = $1`
	rows, err := r.db.Query(ctx, query, writer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *AuctionRepository) DeleteByID(ctx context.Context, id int64) error {
	const query = `DELETE FROM auctions WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}

func (r *AuctionRepository) DeleteByWriter(ctx context.Context, writer string) error {
	const query = `DELETE FROM auctions WHERE writer = $1`
	cmd, err := r.db.Exec(ctx, query, writer)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}

func (r *AuctionRepository) AddImage(ctx context.Context, image models.Image) error {
	const query = `INSERT INTO images (auction_id, image_url, delete_url) VALUES ($1, $2, $3)`
	cmd, err := r.db.Exec(ctx, query, image.AuctionID, image.ImageURL, image.DeleteURL)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}

func (r *AuctionRepository) ImagesByAuction(ctx context.Context, auctionID int64) ([]models.Image, error) {
	const query = `SELECT auction_id, image_url, delete_url FROM images WHERE auction_id = $1`
	rows, err := r.db.Query(ctx, query, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []models.Image
	for rows.Next() {
		var image models.Image
		if err := rows.Scan(&image.AuctionID, &image.ImageURL, &image.DeleteURL); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

func (r *AuctionRepository) DeleteImagesByAuction(ctx context.Context, auctionID int64) error {
	const query = `DELETE FROM images WHERE auction_id = $1`
	cmd, err := r.db.Exec(ctx, query, auctionID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}

func (r *AuctionRepository) AddViewer(ctx context.Context, auctionID int64, userID string) error {
	const query = `INSERT INTO viewers (auction_id, user_id) VALUES ($1, $2)`
	cmd, err := r.db.Exec(ctx, query, auctionID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}

func (r *AuctionRepository) ViewerCount(ctx context.Context, auctionID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM viewers WHERE auction_id = $1`
	var count int64
	if err := r.db.QueryRow(ctx, query, auctionID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AuctionRepository) DeleteViewersByUser(ctx context.Context, userID string) error {
	const query = `DELETE FROM viewers WHERE user_id = $1`
	cmd, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}

func (r *AuctionRepository) DeleteViewersByAuction(ctx context.Context, auctionID int64) error {
	const query = `DELETE FROM viewers WHERE auction_id = $1`
	cmd, err := r.db.Exec(ctx, query, auctionID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNoRowsAffected
	}
	return nil
}
