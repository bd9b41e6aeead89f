package handler

import (
	"fmt"
	"net/http"

	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"
	"auction-engine/services/bidding/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

// MyAuctionsHandler handles GET /me/auctions
func (h *BiddingHandler) MyAuctionsHandler(c *gin.Context) {
	user, ok := caller(c, "MyAuctionsHandler")
	if !ok {
		return
	}

	auctions, err := h.service.MyAuctions(c.Request.Context(), user.Identity)
	if err != nil {
		helpers.HandleServiceError(c, "MyAuctionsHandler", "error retrieving auctions", err, map[string]any{"user": user.Key()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponses(auctions), "auctions retrieved successfully")
	helpers.LogSuccess("MyAuctionsHandler", "auctions retrieved successfully", map[string]any{
		"user":  user.Key(),
		"count": len(auctions),
	})
}

// BiddedAuctionsHandler handles GET /me/bidded
func (h *BiddingHandler) BiddedAuctionsHandler(c *gin.Context) {
	user, ok := caller(c, "BiddedAuctionsHandler")
	if !ok {
		return
	}

	auctions, err := h.service.BiddedAuctions(c.Request.Context(), user.Identity)
	if err != nil {
		helpers.HandleServiceError(c, "BiddedAuctionsHandler", "error retrieving auctions", err, map[string]any{"user": user.Key()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToAuctionResponses(auctions), "auctions retrieved successfully")
	helpers.LogSuccess("BiddedAuctionsHandler", "auctions retrieved successfully", map[string]any{
		"user":  user.Key(),
		"count": len(auctions),
	})
}

// MyStatsHandler handles GET /me/stats
func (h *BiddingHandler) MyStatsHandler(c *gin.Context) {
	user, ok := caller(c, "MyStatsHandler")
	if !ok {
		return
	}
	h.writeStats(c, "MyStatsHandler", user.Identity)
}

// UserStatsHandler handles GET /users/:kind/:user_id/stats
func (h *BiddingHandler) UserStatsHandler(c *gin.Context) {
	id := model.Identity{Kind: model.AccountKind(c.Param("kind")), ID: c.Param("user_id")}
	if !id.Kind.Valid() {
		err := fmt.Errorf("UserStatsHandler: %w - unknown account kind %q", biddingerrors.ErrValidation, id.Kind)
		utils.JSONError(c, http.StatusBadRequest, err, "invalid account kind")
		return
	}
	h.writeStats(c, "UserStatsHandler", id)
}

func (h *BiddingHandler) writeStats(c *gin.Context, handlerName string, user model.Identity) {
	stats, err := h.service.StatsFor(c.Request.Context(), user)
	if err != nil {
		helpers.HandleServiceError(c, handlerName, "error computing stats", err, map[string]any{"user": user.Key()})
		return
	}
	utils.JSONResponse(c, http.StatusOK, stats, "stats retrieved successfully")
}

// WishlistHandler handles GET /me/wishlist
func (h *BiddingHandler) WishlistHandler(c *gin.Context) {
	user, ok := caller(c, "WishlistHandler")
	if !ok {
		return
	}

	items, err := h.service.Wishlist(c.Request.Context(), user.Identity)
	if err != nil {
		helpers.HandleServiceError(c, "WishlistHandler", "error retrieving wishlist", err, map[string]any{"user": user.Key()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToWishlistResponses(items), "wishlist retrieved successfully")
}

// AddToWishlistHandler handles POST /me/wishlist. Adding an auction already
// on the list answers 200 instead of 201.
func (h *BiddingHandler) AddToWishlistHandler(c *gin.Context) {
	user, ok := caller(c, "AddToWishlistHandler")
	if !ok {
		return
	}

	var req helpers.WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "AddToWishlistHandler", err)
		return
	}

	created, err := h.service.AddToWishlist(c.Request.Context(), user.Identity, req.AuctionID)
	if err != nil {
		helpers.HandleServiceError(c, "AddToWishlistHandler", "failed to add to wishlist", err, map[string]any{
			"user":       user.Key(),
			"auction_id": req.AuctionID,
		})
		return
	}

	if !created {
		utils.JSONResponse(c, http.StatusOK, gin.H{"auction_id": req.AuctionID}, "auction already in wishlist")
		return
	}
	utils.JSONResponse(c, http.StatusCreated, gin.H{"auction_id": req.AuctionID}, "auction added to wishlist")
	helpers.LogSuccess("AddToWishlistHandler", "auction added to wishlist", map[string]any{
		"user":       user.Key(),
		"auction_id": req.AuctionID,
	})
}

// RemoveFromWishlistHandler handles DELETE /me/wishlist/:auction_id
func (h *BiddingHandler) RemoveFromWishlistHandler(c *gin.Context) {
	user, ok := caller(c, "RemoveFromWishlistHandler")
	if !ok {
		return
	}

	auctionID := c.Param("auction_id")
	if err := h.service.RemoveFromWishlist(c.Request.Context(), user.Identity, auctionID); err != nil {
		helpers.HandleServiceError(c, "RemoveFromWishlistHandler", "failed to remove from wishlist", err, map[string]any{
			"user":       user.Key(),
			"auction_id": auctionID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"auction_id": auctionID}, "auction removed from wishlist")
}
