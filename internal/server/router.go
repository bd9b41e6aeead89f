package server

import (
	"auction-engine/internal/ratelimit"
	handler "auction-engine/services/bidding/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(
	biddingService handler.BiddingServiceInterface,
	notifications handler.NotificationServiceInterface,
	limiter ratelimit.Limiter,
) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.Use(IdentityMiddleware)
	if limiter != nil {
		router.Use(RateLimitMiddleware(limiter))
	}

	biddingHandler := handler.NewBiddingHandler(biddingService)
	notificationHandler := handler.NewNotificationHandler(notifications)

	auctions := router.Group("/auctions")
	{
		auctions.GET("", biddingHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", biddingHandler.GetAuctionHandler)
		auctions.GET("/:auction_id/bids", biddingHandler.GetBidsHandler)
		auctions.GET("/:auction_id/winning", biddingHandler.GetWinningBidHandler)

		auctions.POST("", RequireIdentity, biddingHandler.CreateAuctionHandler)
		auctions.DELETE("/:auction_id", RequireIdentity, biddingHandler.DeleteAuctionHandler)
		auctions.POST("/:auction_id/bids", RequireIdentity, biddingHandler.PlaceBidHandler)
		auctions.POST("/:auction_id/close", RequireIdentity, biddingHandler.CloseAuctionHandler)
		auctions.POST("/:auction_id/payment-link", RequireIdentity, biddingHandler.RequestPaymentLinkHandler)
	}

	payments := router.Group("/payments")
	{
		payments.POST("/confirm", biddingHandler.ConfirmPaymentHandler)
	}

	me := router.Group("/me", RequireIdentity)
	{
		me.GET("/auctions", biddingHandler.MyAuctionsHandler)
		me.GET("/bidded", biddingHandler.BiddedAuctionsHandler)
		me.GET("/stats", biddingHandler.MyStatsHandler)
		me.GET("/wishlist", biddingHandler.WishlistHandler)
		me.POST("/wishlist", biddingHandler.AddToWishlistHandler)
		me.DELETE("/wishlist/:auction_id", biddingHandler.RemoveFromWishlistHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/:kind/:user_id/stats", biddingHandler.UserStatsHandler)
	}

	notices := router.Group("/notifications", RequireIdentity)
	{
		notices.GET("", notificationHandler.ListHandler)
		notices.POST("/read-all", notificationHandler.MarkAllReadHandler)
		notices.DELETE("/:notification_id", notificationHandler.DeleteHandler)
	}

	return router
}
