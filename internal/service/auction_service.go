package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"auctionhub/api/internal/apperrors"
	"auctionhub/api/internal/imagehost"
	"auctionhub/api/internal/models"
	"auctionhub/api/internal/repository"
)

// TxBeginner opens transactions; *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

const viewerCountTTL = 30 * time.Second

type AuctionService struct {
	pool     TxBeginner
	auctions *repository.AuctionRepository
	bids     *repository.BidRepository
	cache    *redis.Client
	images   imagehost.Uploader
	log      zerolog.Logger
}

func NewAuctionService(pool TxBeginner, db repository.DB, cache *redis.Client, images imagehost.Uploader, log zerolog.Logger) *AuctionService {
	return &AuctionService{
		pool:     pool,
		auctions: repository.NewAuctionRepository(db),
		bids:     repository.NewBidRepository(db),
		cache:    cache,
		images:   images,
		log:      log,
	}
}

type ImageUpload struct {
	Name string
	Data []byte
}

type CreateAuctionInput struct {
	Writer          string
	ItemName        string
	ItemDescription string
	ExpiresAt       time.Time
	StartPrice      int64
	BidStep         int64
	MainImage       ImageUpload
	SubImages       []ImageUpload
}

// Create inserts the auction, then proxies its images to the external host
// and records the returned URLs. The main image must upload; sub images
// are best effort.
func (s *AuctionService) Create(ctx context.Context, input CreateAuctionInput) (int64, error) {
	auctionID, err := s.auctions.Create(ctx, models.Auction{
		Writer:          input.Writer,
		ItemName:        input.ItemName,
		ItemDescription: input.ItemDescription,
		ExpiresAt:       input.ExpiresAt,
		StartPrice:      input.StartPrice,
		BidStep:         input.BidStep,
	})
	if err != nil {
		return 0, err
	}

	result, err := s.images.Upload(ctx, input.MainImage.Name, input.MainImage.Data)
	if err != nil {
		return 0, err
	}
	if err := s.auctions.AddImage(ctx, models.Image{
		AuctionID: auctionID,
		ImageURL:  result.URL,
		DeleteURL: result.DeleteURL,
	}); err != nil {
		return 0, err
	}

	for _, sub := range input.SubImages {
		subResult, err := s.images.Upload(ctx, sub.Name, sub.Data)
		if err != nil {
			s.log.Warn().Err(err).Int64("auction_id", auctionID).Str("name", sub.Name).Msg("sub image upload failed")
			continue
		}
		if err := s.auctions.AddImage(ctx, models.Image{
			AuctionID: auctionID,
			ImageURL:  subResult.URL,
			DeleteURL: subResult.DeleteURL,
		}); err != nil {
			return 0, err
		}
	}

	return auctionID, nil
}

func (s *AuctionService) List(ctx context.Context, pageCursor int64, orderBy, order string, limit int, search string) ([]models.Auction, error) {
	return s.auctions.List(ctx, pageCursor, orderBy, order, limit, search)
}

func (s *AuctionService) Detail(ctx context.Context, auctionID int64) (models.Auction, error) {
	return s.auctions.GetByID(ctx, auctionID)
}

func (s *AuctionService) Images(ctx context.Context, auctionID int64) ([]models.Image, error) {
	return s.auctions.ImagesByAuction(ctx, auctionID)
}

func (s *AuctionService) Bids(ctx context.Context, auctionID int64) ([]models.Bid, error) {
	return s.bids.ListByAuction(ctx, auctionID)
}

// PlaceBid validates the candidate bid against auction state and commits
// it atomically. The auction row is locked first, so two concurrent bids
// on the same auction serialize and neither can miss the other's price.
func (s *AuctionService) PlaceBid(ctx context.Context, auctionID int64, bidder string, price int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}

	if err := s.placeBidInTx(ctx, tx, auctionID, bidder, price); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.log.Error().Err(rbErr).Int64("auction_id", auctionID).Msg("bid rollback failed")
		}
		return err
	}

	return tx.Commit(ctx)
}

func (s *AuctionService) placeBidInTx(ctx context.Context, tx pgx.Tx, auctionID int64, bidder string, price int64) error {
	auctions := repository.NewAuctionRepository(tx)
	bids := repository.NewBidRepository(tx)

	auction, err := auctions.GetByIDForUpdate(ctx, auctionID)
	if err != nil {
		return err
	}

	if price < auction.StartPrice {
		return apperrors.ErrBidBelowStartingPrice
	}
	if time.Now().After(auction.ExpiresAt) {
		return apperrors.ErrAuctionExpired
	}

	existing, err := bids.ListByAuction(ctx, auctionID)
	if err != nil {
		return err
	}
	for _, bid := range existing {
		// Strictly-greater comparison: an equal-price bid is accepted.
		if bid.Price > price {
			return apperrors.ErrHigherBidExists
		}
	}

	return bids.Insert(ctx, auctionID, bidder, price)
}

func (s *AuctionService) viewerCountKey(auctionID int64) string {
	return fmt.Sprintf("auction:viewers:%d", auctionID)
}

// ViewerCount serves from the cache when possible; counting is the hot
// read on auction pages.
func (s *AuctionService) ViewerCount(ctx context.Context, auctionID int64) (int64, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, s.viewerCountKey(auctionID)).Result()
		if err == nil {
			if count, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return count, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("viewer count cache read failed")
		}
	}

	count, err := s.auctions.ViewerCount(ctx, auctionID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.viewerCountKey(auctionID), count, viewerCountTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("viewer count cache write failed")
		}
	}
	return count, nil
}

func (s *AuctionService) RegisterViewer(ctx context.Context, auctionID int64, userID string) error {
	if err := s.auctions.AddViewer(ctx, auctionID, userID); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, s.viewerCountKey(auctionID)).Err(); err != nil {
			s.log.Warn().Err(err).Msg("viewer count cache invalidation failed")
		}
	}
	return nil
}

// Delete removes the auction and everything it owns in one transaction,
// then asks the image host to drop the binaries. Only the writer may
// delete.
func (s *AuctionService) Delete(ctx context.Context, auctionID int64, requester string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}

	deleteURLs, err := s.deleteInTx(ctx, tx, auctionID, requester)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.log.Error().Err(rbErr).Int64("auction_id", auctionID).Msg("auction delete rollback failed")
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	for _, deleteURL := range deleteURLs {
		s.images.Delete(ctx, deleteURL)
	}
	return nil
}

func (s *AuctionService) deleteInTx(ctx context.Context, tx pgx.Tx, auctionID int64, requester string) ([]string, error) {
	auctions := repository.NewAuctionRepository(tx)
	bids := repository.NewBidRepository(tx)

	auction, err := auctions.GetByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if auction.Writer != requester {
		return nil, apperrors.ErrNotAuctionWriter
	}

	images, err := auctions.ImagesByAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	deleteURLs := make([]string, 0, len(images))
	for _, image := range images {
		deleteURLs = append(deleteURLs, image.DeleteURL)
	}

	if err := auctions.DeleteImagesByAuction(ctx, auctionID); err != nil && !errors.Is(err, apperrors.ErrNoRowsAffected) {
		return nil, err
	}
	if err := bids.DeleteByAuction(ctx, auctionID); err != nil && !errors.Is(err, apperrors.ErrNoRowsAffected) {
		return nil, err
	}
	if err := auctions.DeleteViewersByAuction(ctx, auctionID); err != nil && !errors.Is(err, apperrors.ErrNoRowsAffected) {
		return nil, err
	}
	if err := auctions.DeleteByID(ctx, auctionID); err != nil {
		return nil, err
	}

	return deleteURLs, nil
}
