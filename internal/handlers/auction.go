package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"auctionhub/api/internal/middleware"
	"auctionhub/api/internal/models"
	"auctionhub/api/internal/service"
)

const (
	maxSubImages    = 3
	maxItemNameLen  = 20
	maxItemDescLen  = 200
	maxUploadMemory = 32 << 20
)

func (h HandlerSet) CreateAuction(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}

	itemName := c.PostForm("itemName")
	itemDescription := c.PostForm("itemDescription")
	expiresAtStr := c.PostForm("expiresAt")
	startPriceStr := c.PostForm("startPrice")
	bidStepStr := c.PostForm("bidStep")

	if itemName == "" || len(itemName) > maxItemNameLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemName must be 1-20 characters"})
		return
	}
	if len(itemDescription) > maxItemDescLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemDescription must be at most 200 characters"})
		return
	}
	expiresAt, err := time.Parse(time.RFC3339, expiresAtStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expiresAt must be an RFC3339 timestamp"})
		return
	}
	startPrice, err := strconv.ParseInt(startPriceStr, 10, 64)
	if err != nil || startPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startPrice must be a non-negative integer"})
		return
	}
	bidStep, err := strconv.ParseInt(bidStepStr, 10, 64)
	if err != nil || bidStep <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bidStep must be a positive integer"})
		return
	}

	form := c.Request.MultipartForm
	mains := form.File["mainImage"]
	if len(mains) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mainImage file required"})
		return
	}
	mainImage, err := readUpload(mains[0])
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read mainImage"})
		return
	}

	subs := form.File["subImage"]
	if len(subs) > maxSubImages {
		subs = subs[:maxSubImages]
	}
	subImages := make([]service.ImageUpload, 0, len(subs))
	for _, header := range subs {
		sub, err := readUpload(header)
		if err != nil {
			h.log.Warn().Err(err).Str("file", header.Filename).Msg("skipping unreadable sub image")
			continue
		}
		subImages = append(subImages, sub)
	}

	auctionID, err := h.auctionService.Create(c.Request.Context(), service.CreateAuctionInput{
		Writer:          userID,
		ItemName:        itemName,
		ItemDescription: itemDescription,
		ExpiresAt:       expiresAt,
		StartPrice:      startPrice,
		BidStep:         bidStep,
		MainImage:       mainImage,
		SubImages:       subImages,
	})
	if err != nil {
		h.respondError(c, err, "auction creation failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"auctionId": auctionID})
}

func readUpload(header *multipart.FileHeader) (service.ImageUpload, error) {
	file, err := header.Open()
	if err != nil {
		return service.ImageUpload{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return service.ImageUpload{}, err
	}
	return service.ImageUpload{Name: header.Filename, Data: data}, nil
}

type auctionResponse struct {
	ID              int64     `json:"id"`
	Writer          string    `json:"writer"`
	ItemName        string    `json:"itemName"`
	ItemDescription string    `json:"itemDescription"`
	CreatedAt       time.Time `json:"createdAt"`
	ExpiresAt       time.Time `json:"expiresAt"`
	StartPrice      int64     `json:"startPrice"`
	BidStep         int64     `json:"bidStep"`
}

func toAuctionResponse(auction models.Auction) auctionResponse {
	return auctionResponse{
		ID:              auction.ID,
		Writer:          auction.Writer,
		ItemName:        auction.ItemName,
		ItemDescription: auction.ItemDescription,
		CreatedAt:       auction.CreatedAt,
		ExpiresAt:       auction.ExpiresAt,
		StartPrice:      auction.StartPrice,
		BidStep:         auction.BidStep,
	}
}

func (h HandlerSet) ListAuctions(c *gin.Context) {
	pageCursor, _ := strconv.ParseInt(c.Query("pageCursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	auctions, err := h.auctionService.List(
		c.Request.Context(),
		pageCursor,
		c.Query("orderBy"),
		c.Query("order"),
		limit,
		c.Query("query"),
	)
	if err != nil {
		h.respondError(c, err, "auction listing failed")
		return
	}

	resp := make([]auctionResponse, 0, len(auctions))
	for _, auction := range auctions {
		resp = append(resp, toAuctionResponse(auction))
	}
	c.JSON(http.StatusOK, gin.H{"auctions": resp})
}

func (h HandlerSet) auctionIDParam(c *gin.Context) (int64, bool) {
	auctionID, err := strconv.ParseInt(c.Param("auctionId"), 10, 64)
	if err != nil || auctionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "auctionId parameter required"})
		return 0, false
	}
	return auctionID, true
}

func (h HandlerSet) AuctionDetail(c *gin.Context) {
	auctionID, ok := h.auctionIDParam(c)
	if !ok {
		return
	}

	auction, err := h.auctionService.Detail(c.Request.Context(), auctionID)
	if err != nil {
		h.respondError(c, err, "auction detail failed")
		return
	}
	c.JSON(http.StatusOK, toAuctionResponse(auction))
}

func (h HandlerSet) AuctionImages(c *gin.Context) {
	auctionID, ok := h.auctionIDParam(c)
	if !ok {
		return
	}

	images, err := h.auctionService.Images(c.Request.Context(), auctionID)
	if err != nil {
		h.respondError(c, err, "auction images failed")
		return
	}

	urls := make([]string, 0, len(images))
	for _, image := range images {
		urls = append(urls, image.ImageURL)
	}
	c.JSON(http.StatusOK, gin.H{"images": urls})
}

type bidResponse struct {
	Bidder    string    `json:"bidder"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h HandlerSet) BidList(c *gin.Context) {
	auctionID, ok := h.auctionIDParam(c)
	if !ok {
		return
	}

	bids, err := h.auctionService.Bids(c.Request.Context(), auctionID)
	if err != nil {
		h.respondError(c, err, "bid listing failed")
		return
	}

	resp := make([]bidResponse, 0, len(bids))
	for _, bid := range bids {
		resp = append(resp, bidResponse{Bidder: bid.Bidder, Price: bid.Price, CreatedAt: bid.CreatedAt})
	}
	c.JSON(http.StatusOK, gin.H{"bids": resp})
}

type placeBidRequest struct {
	Price int64 `json:"price" binding:"required,gt=0"`
}

func (h HandlerSet) PlaceBid(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	auctionID, ok := h.auctionIDParam(c)
	if !ok {
		return
	}

	var req placeBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price required"})
		return
	}

	if err := h.auctionService.PlaceBid(c.Request.Context(), auctionID, userID, req.Price); err != nil {
		h.respondError(c, err, "bid placement failed")
		return
	}

	c.Status(http.StatusCreated)
}

func (h HandlerSet) ViewerCount(c *gin.Context) {
	auctionID, ok := h.auctionIDParam(c)
	if !ok {
		return
	}

	count, err := h.auctionService.ViewerCount(c.Request.Context(), auctionID)
	if err != nil {
		h.respondError(c, err, "viewer count failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"viewerCount": count})
}

func (h HandlerSet) RegisterViewer(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	auctionID, ok := h.auctionIDParam(c)
	if !ok {
		return
	}

	if err := h.auctionService.RegisterViewer(c.Request.Context(), auctionID, userID); err != nil {
		h.respondError(c, err, "viewer registration failed")
		return
	}
	c.Status(http.StatusCreated)
}

func (h HandlerSet) DeleteAuction(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	auctionID, ok := h.auctionIDParam(c)
	if !ok {
		return
	}

	if err := h.auctionService.Delete(c.Request.Context(), auctionID, userID); err != nil {
		h.respondError(c, err, "auction deletion failed")
		return
	}
	c.Status(http.StatusNoContent)
}
