package bidding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"auction-engine/internal/biddingerrors"
	"auction-engine/internal/clock"
	model "auction-engine/internal/models"
	"auction-engine/internal/notification"
	"auction-engine/internal/payment"
	"auction-engine/internal/repository"
	"auction-engine/utils"
)

// PaymentOptions configures payment link creation
type PaymentOptions struct {
	Currency string
	LinkTTL  time.Duration
	Timeout  time.Duration
}

// BiddingService defines the business logic for auction bidding and settlement
type BiddingService struct {
	repo     repository.AuctionDB
	wishlist repository.WishlistDB
	notifier Notifier
	clock    clock.Clock
	gateway  payment.Gateway
	payOpts  PaymentOptions

	// background payment link requests started by settlement
	wg sync.WaitGroup
}

type Option func(*BiddingService)

func WithClock(c clock.Clock) Option {
	return func(s *BiddingService) { s.clock = c }
}

// WithGateway enables payment links. Without it settlement produces no link
// and payment requests fail with ErrPaymentUnavailable.
func WithGateway(g payment.Gateway, opts PaymentOptions) Option {
	return func(s *BiddingService) {
		s.gateway = g
		if opts.Currency == "" {
			opts.Currency = "INR"
		}
		if opts.Timeout <= 0 {
			opts.Timeout = 10 * time.Second
		}
		s.payOpts = opts
	}
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, wishlist repository.WishlistDB, notifier Notifier, opts ...Option) *BiddingService {
	s := &BiddingService{
		repo:     repo,
		wishlist: wishlist,
		notifier: notifier,
		clock:    clock.System{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Wait blocks until background work started by settlement has finished
func (s *BiddingService) Wait() {
	s.wg.Wait()
}

func validIdentity(id model.Identity) bool {
	return !id.IsZero() && id.Kind.Valid()
}

// PlaceBid validates and records a bid. A bid that loses a race with a
// concurrent bid is re-validated against the new price once before
// ErrConflict is returned.
func (s *BiddingService) PlaceBid(ctx context.Context, auctionID string, bidder model.User, amount float64) (model.Bid, error) {
	if err := validateBidInput(auctionID, bidder, amount); err != nil {
		return model.Bid{}, err
	}

	for attempt := 0; ; attempt++ {
		auction, err := s.repo.GetAuction(ctx, auctionID)
		if err != nil {
			return model.Bid{}, fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
		}

		now := s.clock.Now()
		if err := s.checkBid(ctx, auction, bidder.Identity, amount, now); err != nil {
			return model.Bid{}, err
		}

		bid := model.Bid{
			BidID:      utils.GenerateID(),
			AuctionID:  auctionID,
			Bidder:     bidder.Identity,
			BidderName: bidder.Username,
			Amount:     amount,
			CreatedAt:  now,
		}

		err = s.repo.RecordBid(ctx, bid, auction.CurrentPrice)
		switch {
		case err == nil:
			s.afterBid(ctx, auction, bid)
			return bid, nil
		case errors.Is(err, biddingerrors.ErrConflict) && attempt == 0:
			utils.Debug("service: bid lost a race, retrying", map[string]any{"auction_id": auctionID, "bidder": bidder.Key()})
			continue
		case errors.Is(err, biddingerrors.ErrConflict):
			return model.Bid{}, fmt.Errorf("service: %w",
				biddingerrors.WithReason(biddingerrors.ErrConflict, "the auction changed while your bid was placed, please try again"))
		default:
			return model.Bid{}, fmt.Errorf("service: failed to record bid on auction %s by %s: %w", auctionID, bidder.Key(), err)
		}
	}
}

func validateBidInput(auctionID string, bidder model.User, amount float64) error {
	if !validIdentity(bidder.Identity) {
		return fmt.Errorf("service: %w - missing bidder identity", biddingerrors.ErrUnauthorized)
	}
	if strings.TrimSpace(auctionID) == "" {
		return fmt.Errorf("service: %w", biddingerrors.WithReason(biddingerrors.ErrInvalidBid, "auction id is required"))
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("service: %w", biddingerrors.WithReason(biddingerrors.ErrInvalidBid, "bid amount must be a positive number"))
	}
	return nil
}

// checkBid applies the acceptance rules to the auction as last read
func (s *BiddingService) checkBid(ctx context.Context, auction model.Auction, bidder model.Identity, amount float64, now time.Time) error {
	if auction.Status != model.StatusActive {
		return fmt.Errorf("service: %w", biddingerrors.WithReason(biddingerrors.ErrAuctionClosed, "this auction has ended"))
	}
	if auction.Expired(now) {
		if err := s.settle(ctx, auction.AuctionID); err != nil {
			utils.Warn("service: implicit close failed", map[string]any{"auction_id": auction.AuctionID, "error": err.Error()})
		}
		return fmt.Errorf("service: %w", biddingerrors.WithReason(biddingerrors.ErrAuctionClosed, "this auction has ended"))
	}
	if auction.CreatedBy.Equal(bidder) {
		return fmt.Errorf("service: %w", biddingerrors.WithReason(biddingerrors.ErrSelfBid, "you cannot bid on your own auction"))
	}
	if amount <= auction.CurrentPrice {
		return fmt.Errorf("service: %w", biddingerrors.WithReason(biddingerrors.ErrBidTooLow, "bid must exceed %s", formatAmount(auction.CurrentPrice)))
	}
	if last := auction.LastBid(); last != nil && last.Bidder.Equal(bidder) {
		return fmt.Errorf("service: %w", biddingerrors.WithReason(biddingerrors.ErrConsecutiveBid, "you cannot bid twice in a row"))
	}
	return nil
}

// afterBid runs the side effects of an accepted bid. before is the auction as
// it was when the bid won the price compare-and-swap, so its last bid is the
// bid that was just outbid. Failures are logged, never returned.
func (s *BiddingService) afterBid(ctx context.Context, before model.Auction, bid model.Bid) {
	if err := s.repo.RecordBiddedAuction(ctx, bid.Bidder, bid.AuctionID); err != nil {
		utils.Error("service: failed to record bidded auction", map[string]any{
			"auction_id": bid.AuctionID,
			"bidder":     bid.Bidder.Key(),
			"error":      err.Error(),
		})
	}

	if prev := before.LastBid(); prev != nil && !prev.Bidder.Equal(bid.Bidder) {
		s.notify(ctx, prev.Bidder, model.NotificationBid,
			fmt.Sprintf("You have been outbid on \"%s\". The current bid is %s.", before.Title, formatAmount(bid.Amount)),
			bid.AuctionID)
	}
	s.notify(ctx, bid.Bidder, model.NotificationBid,
		fmt.Sprintf("Your bid of %s on \"%s\" has been placed.", formatAmount(bid.Amount), before.Title),
		bid.AuctionID)

	s.notifier.Broadcast(notification.AuctionTopic(bid.AuctionID), notification.EventNewBid, model.BidEvent{
		BidID:      bid.BidID,
		Amount:     bid.Amount,
		BidTime:    bid.CreatedAt,
		BidderName: bid.BidderName,
	})
}

// notify sends a plain-text notification and logs, rather than returns, any
// failure
func (s *BiddingService) notify(ctx context.Context, recipient model.Identity, typ model.NotificationType, message, auctionID string) bool {
	return s.logNotifyErr(s.notifier.Notify, ctx, recipient, typ, message, auctionID)
}

// notifyHTML is notify for messages built as HTML; user-supplied text in them
// must already be escaped
func (s *BiddingService) notifyHTML(ctx context.Context, recipient model.Identity, typ model.NotificationType, message, auctionID string) bool {
	return s.logNotifyErr(s.notifier.NotifyHTML, ctx, recipient, typ, message, auctionID)
}

type notifyFunc func(ctx context.Context, recipient model.Identity, typ model.NotificationType, message, auctionID string) (string, error)

func (s *BiddingService) logNotifyErr(send notifyFunc, ctx context.Context, recipient model.Identity, typ model.NotificationType, message, auctionID string) bool {
	if _, err := send(ctx, recipient, typ, message, auctionID); err != nil {
		utils.Warn("service: failed to send notification", map[string]any{
			"recipient":  recipient.Key(),
			"type":       typ,
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return false
	}
	return true
}
