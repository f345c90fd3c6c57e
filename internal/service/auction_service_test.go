package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhub/api/internal/apperrors"
	"auctionhub/api/internal/imagehost"
)

type fakeUploader struct {
	uploads []string
	deletes []string
	result  imagehost.UploadResult
	err     error
}

func (f *fakeUploader) Upload(_ context.Context, name string, _ []byte) (imagehost.UploadResult, error) {
	f.uploads = append(f.uploads, name)
	if f.err != nil {
		return imagehost.UploadResult{}, f.err
	}
	return f.result, nil
}

func (f *fakeUploader) Delete(_ context.Context, deleteURL string) {
	f.deletes = append(f.deletes, deleteURL)
}

func newBidTestService(t *testing.T) (*AuctionService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	svc := NewAuctionService(mock, mock, nil, &fakeUploader{}, zerolog.Nop())
	return svc, mock
}

const auctionColumnsPattern = `SELECT id, writer, item_name, item_description, created_at, expires_at, start_price, bid_step`

func auctionRow(expiresAt time.Time, startPrice, bidStep int64) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "writer", "item_name", "item_description", "created_at", "expires_at", "start_price", "bid_step"}).
		AddRow(int64(7), "alice01", "brass lamp", "lightly used", time.Now().Add(-time.Hour), expiresAt, startPrice, bidStep)
}

func bidColumns() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "auction_id", "bidder", "price", "created_at"})
}

func TestPlaceBid_FirstBidAccepted(t *testing.T) {
	svc, mock := newBidTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(auctionRow(time.Now().Add(time.Hour), 1000, 100))
	mock.ExpectQuery(`FROM bids WHERE auction_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(bidColumns())
	mock.ExpectExec(`INSERT INTO bids`).
		WithArgs(int64(7), "bob02", int64(1200)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, svc.PlaceBid(context.Background(), 7, "bob02", 1200))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceBid_OverbidAccepted(t *testing.T) {
	svc, mock := newBidTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(auctionRow(time.Now().Add(time.Hour), 1000, 100))
	mock.ExpectQuery(`FROM bids WHERE auction_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(bidColumns().AddRow(int64(1), int64(7), "carol03", int64(1100), time.Now().Add(-time.Minute)))
	mock.ExpectExec(`INSERT INTO bids`).
		WithArgs(int64(7), "bob02", int64(1500)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, svc.PlaceBid(context.Background(), 7, "bob02", 1500))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceBid_EqualPriceAccepted(t *testing.T) {
	// A bid matching the current highest price is not rejected; only a
	// strictly higher existing bid blocks the candidate.
	svc, mock := newBidTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(auctionRow(time.Now().Add(time.Hour), 1000, 100))
	mock.ExpectQuery(`FROM bids WHERE auction_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(bidColumns().AddRow(int64(1), int64(7), "carol03", int64(1500), time.Now().Add(-time.Minute)))
	mock.ExpectExec(`INSERT INTO bids`).
		WithArgs(int64(7), "bob02", int64(1500)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, svc.PlaceBid(context.Background(), 7, "bob02", 1500))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceBid_HigherBidExists(t *testing.T) {
	svc, mock := newBidTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(auctionRow(time.Now().Add(time.Hour), 1000, 100))
	mock.ExpectQuery(`FROM bids WHERE auction_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(bidColumns().AddRow(int64(1), int64(7), "carol03", int64(2000), time.Now().Add(-time.Minute)))
	mock.ExpectRollback()

	err := svc.PlaceBid(context.Background(), 7, "bob02", 1500)
	assert.ErrorIs(t, err, apperrors.ErrHigherBidExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceBid_BelowStartingPrice(t *testing.T) {
	svc, mock := newBidTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(auctionRow(time.Now().Add(time.Hour), 1000, 100))
	mock.ExpectRollback()

	err := svc.PlaceBid(context.Background(), 7, "bob02", 500)
	assert.ErrorIs(t, err, apperrors.ErrBidBelowStartingPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceBid_AuctionEnded(t *testing.T) {
	svc, mock := newBidTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(auctionRow(time.Now().Add(-time.Minute), 1000, 100))
	mock.ExpectRollback()

	err := svc.PlaceBid(context.Background(), 7, "bob02", 1500)
	assert.ErrorIs(t, err, apperrors.ErrAuctionExpired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceBid_AuctionNotFound(t *testing.T) {
	svc, mock := newBidTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	err := svc.PlaceBid(context.Background(), 99, "bob02", 1500)
	assert.ErrorIs(t, err, apperrors.ErrAuctionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAuction_WriterOnly(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	svc := NewAuctionService(mock, mock, nil, &fakeUploader{}, zerolog.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery(auctionColumnsPattern).
		WithArgs(int64(7)).
		WillReturnRows(auctionRow(time.Now().Add(time.Hour), 1000, 100))
	mock.ExpectRollback()

	err = svc.Delete(context.Background(), 7, "mallory9")
	assert.ErrorIs(t, err, apperrors.ErrNotAuctionWriter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAuction_CascadesAndDropsImages(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	host := &fakeUploader{}
	svc := NewAuctionService(mock, mock, nil, host, zerolog.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery(auctionColumnsPattern).
		WithArgs(int64(7)).
		WillReturnRows(auctionRow(time.Now().Add(time.Hour), 1000, 100))
	mock.ExpectQuery(`FROM images WHERE auction_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"auction_id", "image_url", "delete_url"}).
			AddRow(int64(7), "https://host/a.jpg", "https://host/delete/a").
			AddRow(int64(7), "https://host/b.jpg", "https://host/delete/b"))
	mock.ExpectExec(`DELETE FROM images WHERE auction_id`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`DELETE FROM bids WHERE auction_id`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM viewers WHERE auction_id`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM auctions WHERE id`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	require.NoError(t, svc.Delete(context.Background(), 7, "alice01"))
	assert.Equal(t, []string{"https://host/delete/a", "https://host/delete/b"}, host.deletes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestViewerCount_NoCacheFallsThrough(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	svc := NewAuctionService(mock, mock, nil, &fakeUploader{}, zerolog.Nop())

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM viewers`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(4)))

	count, err := svc.ViewerCount(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
