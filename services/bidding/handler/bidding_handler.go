package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	bidding "auction-engine/internal/biddingService"
	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"
	"auction-engine/internal/payment"
	"auction-engine/services/bidding/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=bidding_handler.go -destination=mock_bidding_handler.go -package=handler

type BiddingServiceInterface interface {
	PlaceBid(ctx context.Context, auctionID string, bidder model.User, amount float64) (model.Bid, error)
	CreateAuction(ctx context.Context, creator model.User, in bidding.NewAuction) (model.Auction, error)
	GetAuction(ctx context.Context, auctionID string) (model.Auction, error)
	ListAuctions(ctx context.Context, category model.Category) ([]model.Auction, error)
	MyAuctions(ctx context.Context, user model.Identity) ([]model.Auction, error)
	BiddedAuctions(ctx context.Context, user model.Identity) ([]model.Auction, error)
	GetBids(ctx context.Context, auctionID string) ([]model.Bid, error)
	GetWinningBid(ctx context.Context, auctionID string) (model.Bid, error)
	CloseAuction(ctx context.Context, auctionID string, caller model.Identity) (model.Auction, error)
	DeleteAuction(ctx context.Context, auctionID string, caller model.Identity) error
	RequestPaymentLink(ctx context.Context, auctionID string, caller model.Identity) (payment.Link, error)
	ConfirmPayment(ctx context.Context, linkID string) (model.Auction, error)
	StatsFor(ctx context.Context, user model.Identity) (model.UserStats, error)
	AddToWishlist(ctx context.Context, user model.Identity, auctionID string) (bool, error)
	RemoveFromWishlist(ctx context.Context, user model.Identity, auctionID string) error
	Wishlist(ctx context.Context, user model.Identity) ([]model.WishlistItem, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// caller returns the authenticated user or writes a 401
func caller(c *gin.Context, handlerName string) (model.User, bool) {
	user, ok := helpers.CurrentUser(c)
	if !ok {
		err := fmt.Errorf("%s: %w", handlerName, biddingerrors.ErrUnauthorized)
		utils.JSONError(c, http.StatusUnauthorized, err, "authentication required")
		return model.User{}, false
	}
	return user, true
}

// PlaceBidHandler handles POST /auctions/:auction_id/bids
func (h *BiddingHandler) PlaceBidHandler(c *gin.Context) {
	user, ok := caller(c, "PlaceBidHandler")
	if !ok {
		return
	}

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	auctionID := c.Param("auction_id")
	bid, err := h.service.PlaceBid(c.Request.Context(), auctionID, user, req.Amount)
	if err != nil {
		helpers.HandleServiceError(c, "PlaceBidHandler", "failed to place bid", err, map[string]any{
			"auction_id": auctionID,
			"bidder":     user.Key(),
			"amount":     req.Amount,
		})
		return
	}

	resp := helpers.PlaceBidResponse{
		BidResponse:  helpers.ToBidResponse(bid),
		CurrentPrice: bid.Amount,
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": bid.AuctionID,
		"bidder":     user.Key(),
		"amount":     bid.Amount,
	})
}

// CreateAuctionHandler handles POST /auctions
func (h *BiddingHandler) CreateAuctionHandler(c *gin.Context) {
	user, ok := caller(c, "CreateAuctionHandler")
	if !ok {
		return
	}

	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	in := bidding.NewAuction{
		Title:         req.Title,
		Description:   req.Description,
		Images:        req.Images,
		Category:      model.Category(req.Category),
		StartingPrice: req.StartingPrice,
		EndTime:       req.EndTime,
	}
	if req.StartTime != nil {
		in.StartTime = *req.StartTime
	}

	auction, err := h.service.CreateAuction(c.Request.Context(), user, in)
	if err != nil {
		helpers.HandleServiceError(c, "CreateAuctionHandler", "failed to create auction", err, map[string]any{
			"creator": user.Key(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToAuctionResponse(auction), "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": auction.AuctionID,
		"creator":    user.Key(),
	})
}

// ListAuctionsHandler handles GET /auctions?category=
func (h *BiddingHandler) ListAuctionsHandler(c *gin.Context) {
	category := model.Category(strings.TrimSpace(c.Query("category")))
	auctions, err := h.service.ListAuctions(c.Request.Context(), category)
	if err != nil {
		helpers.HandleServiceError(c, "ListAuctionsHandler", "failed to list auctions", err, map[string]any{
			"category": category,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponses(auctions), "auctions retrieved successfully")
	helpers.LogSuccess("ListAuctionsHandler", "auctions retrieved successfully", map[string]any{
		"category": category,
		"count":    len(auctions),
	})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *BiddingHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	auction, err := h.service.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		helpers.HandleServiceError(c, "GetAuctionHandler", "failed to get auction", err, map[string]any{
			"auction_id": auctionID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponse(auction), "auction retrieved successfully")
}

// DeleteAuctionHandler handles DELETE /auctions/:auction_id
func (h *BiddingHandler) DeleteAuctionHandler(c *gin.Context) {
	user, ok := caller(c, "DeleteAuctionHandler")
	if !ok {
		return
	}

	auctionID := c.Param("auction_id")
	if err := h.service.DeleteAuction(c.Request.Context(), auctionID, user.Identity); err != nil {
		helpers.HandleServiceError(c, "DeleteAuctionHandler", "failed to delete auction", err, map[string]any{
			"auction_id": auctionID,
			"caller":     user.Key(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"auction_id": auctionID}, "auction deleted successfully")
	helpers.LogSuccess("DeleteAuctionHandler", "auction deleted successfully", map[string]any{
		"auction_id": auctionID,
		"caller":     user.Key(),
	})
}

// CloseAuctionHandler handles POST /auctions/:auction_id/close
func (h *BiddingHandler) CloseAuctionHandler(c *gin.Context) {
	user, ok := caller(c, "CloseAuctionHandler")
	if !ok {
		return
	}

	auctionID := c.Param("auction_id")
	auction, err := h.service.CloseAuction(c.Request.Context(), auctionID, user.Identity)
	if err != nil {
		helpers.HandleServiceError(c, "CloseAuctionHandler", "failed to close auction", err, map[string]any{
			"auction_id": auctionID,
			"caller":     user.Key(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponse(auction), "auction closed successfully")
	helpers.LogSuccess("CloseAuctionHandler", "auction closed successfully", map[string]any{
		"auction_id": auctionID,
		"has_winner": auction.Winner != nil,
	})
}

// GetBidsHandler handles GET /auctions/:auction_id/bids
func (h *BiddingHandler) GetBidsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bids, err := h.service.GetBids(c.Request.Context(), auctionID)
	if err != nil {
		helpers.HandleServiceError(c, "GetBidsHandler", "error retrieving bids", err, map[string]any{
			"auction_id": auctionID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponses(bids), "bids retrieved successfully")
	helpers.LogSuccess("GetBidsHandler", "bids retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"count":      len(bids),
	})
}

// GetWinningBidHandler handles GET /auctions/:auction_id/winning
func (h *BiddingHandler) GetWinningBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bid, err := h.service.GetWinningBid(c.Request.Context(), auctionID)
	if err != nil {
		helpers.HandleServiceError(c, "GetWinningBidHandler", "winning bid error", err, map[string]any{
			"auction_id": auctionID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponse(bid), "winning bid retrieved successfully")
	helpers.LogSuccess("GetWinningBidHandler", "winning bid retrieved successfully", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": auctionID,
		"amount":     bid.Amount,
	})
}

// RequestPaymentLinkHandler handles POST /auctions/:auction_id/payment-link
func (h *BiddingHandler) RequestPaymentLinkHandler(c *gin.Context) {
	user, ok := caller(c, "RequestPaymentLinkHandler")
	if !ok {
		return
	}

	auctionID := c.Param("auction_id")
	link, err := h.service.RequestPaymentLink(c.Request.Context(), auctionID, user.Identity)
	if err != nil {
		helpers.HandleServiceError(c, "RequestPaymentLinkHandler", "failed to create payment link", err, map[string]any{
			"auction_id": auctionID,
			"caller":     user.Key(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToPaymentLinkResponse(link), "payment link created successfully")
	helpers.LogSuccess("RequestPaymentLinkHandler", "payment link created successfully", map[string]any{
		"auction_id": auctionID,
		"link_id":    link.LinkID,
	})
}

// ConfirmPaymentHandler handles POST /payments/confirm
func (h *BiddingHandler) ConfirmPaymentHandler(c *gin.Context) {
	var req helpers.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "ConfirmPaymentHandler", err)
		return
	}

	auction, err := h.service.ConfirmPayment(c.Request.Context(), req.LinkID)
	if err != nil {
		helpers.HandleServiceError(c, "ConfirmPaymentHandler", "payment confirmation rejected", err, map[string]any{
			"link_id": req.LinkID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponse(auction), "payment confirmed")
	helpers.LogSuccess("ConfirmPaymentHandler", "payment confirmed", map[string]any{
		"auction_id": auction.AuctionID,
		"link_id":    req.LinkID,
	})
}
