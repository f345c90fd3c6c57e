package models

import "time"

// Auction is immutable once created except via deletion.
type Auction struct {
	ID              int64
	Writer          string
	ItemName        string
	ItemDescription string
	CreatedAt       time.Time
	ExpiresAt       time.Time
	StartPrice      int64
	BidStep         int64
}

// Bid rows are append-only; they are never updated, only deleted in cascade.
type Bid struct {
	ID        int64
	AuctionID int64
	Bidder    string
	Price     int64
	CreatedAt time.Time
}

// Image points at an externally hosted binary. DeleteURL is what the image
// host needs to remove it again.
type Image struct {
	AuctionID int64
	ImageURL  string
	DeleteURL string
}
