package models

import (
	"fmt"
	"strings"
	"time"
)

// AccountKind distinguishes the account records an identity can resolve to
type AccountKind string

const (
	AccountCredentials AccountKind = "credentials"
	AccountOAuth       AccountKind = "oauth"
)

// Valid reports whether k is a known account kind
func (k AccountKind) Valid() bool {
	return k == AccountCredentials || k == AccountOAuth
}

// Identity is an authenticated user reference, independent of account kind
type Identity struct {
	Kind AccountKind `json:"kind"`
	ID   string      `json:"id"`
}

// Key returns the canonical "kind:id" form used for storage keys and topics
func (i Identity) Key() string {
	return string(i.Kind) + ":" + i.ID
}

// IsZero reports whether the identity is unset
func (i Identity) IsZero() bool {
	return i.ID == ""
}

// Equal compares two identities by kind and id
func (i Identity) Equal(other Identity) bool {
	return i.Kind == other.Kind && i.ID == other.ID
}

func (i Identity) String() string {
	return i.Key()
}

// ParseIdentity parses the "kind:id" form produced by Identity.Key
func ParseIdentity(key string) (Identity, error) {
	kind, id, ok := strings.Cut(key, ":")
	if !ok || id == "" || !AccountKind(kind).Valid() {
		return Identity{}, fmt.Errorf("malformed identity %q", key)
	}
	return Identity{Kind: AccountKind(kind), ID: id}, nil
}

// User is the caller as supplied by the identity provider
type User struct {
	Identity
	Username string `json:"username"`
}

// Category is the closed set of auction categories
type Category string

const (
	CategoryCollectibles Category = "Collectibles"
	CategoryArt          Category = "Art"
	CategoryElectronics  Category = "Electronics"
	CategoryFashion      Category = "Fashion"
	CategoryOther        Category = "Other"
)

// Categories lists every valid category
var Categories = []Category{CategoryCollectibles, CategoryArt, CategoryElectronics, CategoryFashion, CategoryOther}

// Valid reports whether c is one of Categories
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type AuctionStatus string

const (
	StatusActive AuctionStatus = "active"
	StatusClosed AuctionStatus = "closed"
)

type PaymentStatus string

const (
	PaymentActive PaymentStatus = "ACTIVE"
	PaymentPaid   PaymentStatus = "PAID"
)

// Bid represents a user's bid on an auction
type Bid struct {
	BidID      string    `json:"bid_id"`
	AuctionID  string    `json:"auction_id"`
	Bidder     Identity  `json:"bidder"`
	BidderName string    `json:"bidder_name"`
	Amount     float64   `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

// Auction is a timed sale whose price is driven up by bids
type Auction struct {
	AuctionID     string        `json:"auction_id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Images        []string      `json:"images"`
	Category      Category      `json:"category"`
	StartingPrice float64       `json:"starting_price"`
	CurrentPrice  float64       `json:"current_price"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	Status        AuctionStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Notified      bool          `json:"notified"`
	Winner        *Identity     `json:"winner,omitempty"`
	CreatedBy     Identity      `json:"created_by"`
	CreatorName   string        `json:"creator_name"`
	Bids          []Bid         `json:"bids"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// LastBid returns the most recently accepted bid, or nil when there are none
func (a Auction) LastBid() *Bid {
	if len(a.Bids) == 0 {
		return nil
	}
	return &a.Bids[len(a.Bids)-1]
}

// Expired reports whether the auction's end time has passed at now
func (a Auction) Expired(now time.Time) bool {
	return !a.EndTime.After(now)
}

// Clone returns a copy that shares no slices with a
func (a Auction) Clone() Auction {
	c := a
	c.Images = append([]string(nil), a.Images...)
	c.Bids = append([]Bid(nil), a.Bids...)
	if a.Winner != nil {
		w := *a.Winner
		c.Winner = &w
	}
	return c
}

type NotificationType string

const (
	NotificationBid     NotificationType = "bid"
	NotificationWin     NotificationType = "win"
	NotificationClose   NotificationType = "close"
	NotificationAdmin   NotificationType = "admin"
	NotificationGeneral NotificationType = "general"
	NotificationPayment NotificationType = "payment"
	NotificationCreate  NotificationType = "create"
)

// Notification is a durable message to one recipient
type Notification struct {
	NotificationID string           `json:"notification_id"`
	Recipient      Identity         `json:"recipient"`
	Type           NotificationType `json:"type"`
	Message        string           `json:"message"`
	IsRead         bool             `json:"is_read"`
	AuctionID      string           `json:"auction_id,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// WishlistEntry marks an auction a user is watching
type WishlistEntry struct {
	User      Identity  `json:"user"`
	AuctionID string    `json:"auction_id"`
	AddedAt   time.Time `json:"added_at"`
}

// WishlistItem is a wishlist entry joined with its auction
type WishlistItem struct {
	AuctionID string    `json:"auction_id"`
	AddedAt   time.Time `json:"added_at"`
	Auction   Auction   `json:"auction"`
}

// UserStats aggregates a user's auction participation
type UserStats struct {
	TotalBids       int `json:"total_bids"`
	AuctionsCreated int `json:"auctions_created"`
	AuctionsWon     int `json:"auctions_won"`
}

// BidEvent is the payload published on an auction's real-time topic
type BidEvent struct {
	BidID      string    `json:"bid_id"`
	Amount     float64   `json:"amount"`
	BidTime    time.Time `json:"bid_time"`
	BidderName string    `json:"bidder_name"`
}
