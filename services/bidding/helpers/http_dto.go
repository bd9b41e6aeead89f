package helpers

import (
	"time"

	model "auction-engine/internal/models"
	"auction-engine/internal/payment"
)

// Request/Response DTOs
type PlaceBidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type CreateAuctionRequest struct {
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description" binding:"required"`
	Images        []string   `json:"images" binding:"required,min=1,dive,required"`
	Category      string     `json:"category" binding:"required"`
	StartingPrice float64    `json:"starting_price" binding:"required,gt=0"`
	StartTime     *time.Time `json:"start_time"`
	EndTime       time.Time  `json:"end_time" binding:"required"`
}

type WishlistRequest struct {
	AuctionID string `json:"auction_id" binding:"required"`
}

type ConfirmPaymentRequest struct {
	LinkID string `json:"link_id" binding:"required"`
}

type BidResponse struct {
	BidID      string  `json:"bid_id"`
	AuctionID  string  `json:"auction_id"`
	BidderID   string  `json:"bidder_id"`
	BidderName string  `json:"bidder_name"`
	Amount     float64 `json:"amount"`
	CreatedAt  string  `json:"created_at"`
}

// PlaceBidResponse is a BidResponse plus the auction's price after the bid
type PlaceBidResponse struct {
	BidResponse
	CurrentPrice float64 `json:"current_price"`
}

type AuctionResponse struct {
	AuctionID     string        `json:"auction_id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Images        []string      `json:"images"`
	Category      string        `json:"category"`
	StartingPrice float64       `json:"starting_price"`
	CurrentPrice  float64       `json:"current_price"`
	StartTime     string        `json:"start_time"`
	EndTime       string        `json:"end_time"`
	Status        string        `json:"status"`
	PaymentStatus string        `json:"payment_status"`
	Notified      bool          `json:"notified"`
	CreatedBy     string        `json:"created_by"`
	CreatorName   string        `json:"creator_name"`
	WinnerID      string        `json:"winner_id,omitempty"`
	Bids          []BidResponse `json:"bids"`
}

type WishlistItemResponse struct {
	AuctionID string          `json:"auction_id"`
	AddedAt   string          `json:"added_at"`
	Auction   AuctionResponse `json:"auction"`
}

type NotificationResponse struct {
	NotificationID string `json:"notification_id"`
	Type           string `json:"type"`
	Message        string `json:"message"`
	IsRead         bool   `json:"is_read"`
	AuctionID      string `json:"auction_id,omitempty"`
	CreatedAt      string `json:"created_at"`
}

type PaymentLinkResponse struct {
	LinkID   string `json:"link_id"`
	URL      string `json:"url"`
	Status   string `json:"status"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func ToBidResponse(b model.Bid) BidResponse {
	return BidResponse{
		BidID:      b.BidID,
		AuctionID:  b.AuctionID,
		BidderID:   b.Bidder.Key(),
		BidderName: b.BidderName,
		Amount:     b.Amount,
		CreatedAt:  formatTime(b.CreatedAt),
	}
}

func ToBidResponses(bids []model.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, ToBidResponse(b))
	}
	return out
}

// ToAuctionResponse renders an auction with its winner as an identity key
func ToAuctionResponse(a model.Auction) AuctionResponse {
	resp := AuctionResponse{
		AuctionID:     a.AuctionID,
		Title:         a.Title,
		Description:   a.Description,
		Images:        a.Images,
		Category:      string(a.Category),
		StartingPrice: a.StartingPrice,
		CurrentPrice:  a.CurrentPrice,
		StartTime:     formatTime(a.StartTime),
		EndTime:       formatTime(a.EndTime),
		Status:        string(a.Status),
		PaymentStatus: string(a.PaymentStatus),
		Notified:      a.Notified,
		CreatedBy:     a.CreatedBy.Key(),
		CreatorName:   a.CreatorName,
		Bids:          ToBidResponses(a.Bids),
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if a.Winner != nil {
		resp.WinnerID = a.Winner.Key()
	}
	return resp
}

func ToAuctionResponses(auctions []model.Auction) []AuctionResponse {
	out := make([]AuctionResponse, 0, len(auctions))
	for _, a := range auctions {
		out = append(out, ToAuctionResponse(a))
	}
	return out
}

func ToWishlistResponses(items []model.WishlistItem) []WishlistItemResponse {
	out := make([]WishlistItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, WishlistItemResponse{
			AuctionID: it.AuctionID,
			AddedAt:   formatTime(it.AddedAt),
			Auction:   ToAuctionResponse(it.Auction),
		})
	}
	return out
}

func ToNotificationResponses(notices []model.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notices))
	for _, n := range notices {
		out = append(out, NotificationResponse{
			NotificationID: n.NotificationID,
			Type:           string(n.Type),
			Message:        n.Message,
			IsRead:         n.IsRead,
			AuctionID:      n.AuctionID,
			CreatedAt:      formatTime(n.CreatedAt),
		})
	}
	return out
}

func ToPaymentLinkResponse(l payment.Link) PaymentLinkResponse {
	return PaymentLinkResponse{
		LinkID:   l.LinkID,
		URL:      l.URL,
		Status:   l.Status,
		Amount:   l.Amount.StringFixed(2),
		Currency: l.Currency,
	}
}
