package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=payment.go -destination=mock_payment.go -package=payment

const (
	StatusActive = "ACTIVE"
	StatusPaid   = "PAID"

	// NotePayer and NoteAuction are the link note keys used to tie a payment
	// back to an auction and its winner
	NotePayer   = "payer"
	NoteAuction = "auction_id"
)

// LinkRequest describes a payment link for a settled auction
type LinkRequest struct {
	LinkID       string
	AuctionID    string
	Amount       decimal.Decimal
	Currency     string
	Purpose      string
	CustomerName string
	PayerKey     string
	Category     string
	ExpiresAt    time.Time
}

// Link is the gateway's view of a payment link
type Link struct {
	LinkID   string
	URL      string
	Status   string
	Amount   decimal.Decimal
	Currency string
	Notes    map[string]string
}

// Gateway creates payment links and reports their status
type Gateway interface {
	CreateLink(ctx context.Context, req LinkRequest) (Link, error)
	GetLink(ctx context.Context, linkID string) (Link, error)
}

// LinkID builds the link id for auctionID, unique per request time
func LinkID(auctionID string, at time.Time) string {
	return fmt.Sprintf("auction_%s_%d", auctionID, at.UnixMilli())
}

// AuctionIDFromLinkID extracts the auction id from a LinkID value
func AuctionIDFromLinkID(linkID string) (string, error) {
	rest, ok := strings.CutPrefix(linkID, "auction_")
	if !ok {
		return "", fmt.Errorf("malformed link id %q", linkID)
	}
	i := strings.LastIndex(rest, "_")
	if i <= 0 {
		return "", fmt.Errorf("malformed link id %q", linkID)
	}
	if _, err := strconv.ParseInt(rest[i+1:], 10, 64); err != nil {
		return "", fmt.Errorf("malformed link id %q", linkID)
	}
	return rest[:i], nil
}
