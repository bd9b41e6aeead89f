package bidding

import (
	"context"
	"fmt"
	"html"
	"strings"

	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"
	"auction-engine/internal/payment"
	"auction-engine/utils"

	"github.com/shopspring/decimal"
)

// createPaymentLink asks the gateway for a link covering the final price of a
// settled auction
func (s *BiddingService) createPaymentLink(ctx context.Context, auction model.Auction, winnerBid model.Bid) (payment.Link, error) {
	ctx, cancel := context.WithTimeout(ctx, s.payOpts.Timeout)
	defer cancel()

	now := s.clock.Now()
	req := payment.LinkRequest{
		LinkID:       payment.LinkID(auction.AuctionID, now),
		AuctionID:    auction.AuctionID,
		Amount:       decimal.NewFromFloat(auction.CurrentPrice),
		Currency:     s.payOpts.Currency,
		Purpose:      "Payment for auction: " + auction.Title,
		CustomerName: winnerBid.BidderName,
		PayerKey:     auction.Winner.Key(),
		Category:     string(auction.Category),
	}
	if s.payOpts.LinkTTL > 0 {
		req.ExpiresAt = now.Add(s.payOpts.LinkTTL)
	}

	link, err := s.gateway.CreateLink(ctx, req)
	if err != nil {
		return payment.Link{}, fmt.Errorf("service: failed to create payment link for auction %s: %w", auction.AuctionID, err)
	}
	return link, nil
}

// sendPaymentLink creates a link and notifies the winner. Runs detached after
// settlement, so failures are only logged; the winner can request a new link.
func (s *BiddingService) sendPaymentLink(ctx context.Context, auction model.Auction, winnerBid model.Bid) {
	link, err := s.createPaymentLink(ctx, auction, winnerBid)
	if err != nil {
		utils.Warn("service: automatic payment link failed", map[string]any{"auction_id": auction.AuctionID, "error": err.Error()})
		return
	}
	s.notifyPaymentLink(ctx, auction, link)
}

func (s *BiddingService) notifyPaymentLink(ctx context.Context, auction model.Auction, link payment.Link) {
	s.notifyHTML(ctx, *auction.Winner, model.NotificationPayment,
		fmt.Sprintf(`<p>Complete your payment of %s for "%s": <a href="%s">pay now</a></p>`,
			formatAmount(auction.CurrentPrice), html.EscapeString(auction.Title), html.EscapeString(link.URL)),
		auction.AuctionID)
}

// RequestPaymentLink creates a fresh payment link for a settled auction. The
// winner and the creator may request one. Gateway failures are returned.
func (s *BiddingService) RequestPaymentLink(ctx context.Context, auctionID string, caller model.Identity) (payment.Link, error) {
	if s.gateway == nil {
		return payment.Link{}, fmt.Errorf("service: %w",
			biddingerrors.WithReason(biddingerrors.ErrPaymentUnavailable, "payments are not configured"))
	}

	auction, err := s.GetAuction(ctx, auctionID)
	if err != nil {
		return payment.Link{}, err
	}
	if auction.Status != model.StatusClosed || auction.Winner == nil {
		return payment.Link{}, fmt.Errorf("service: %w",
			biddingerrors.WithReason(biddingerrors.ErrNoWinner, "the auction has not produced a winner"))
	}
	if !caller.Equal(*auction.Winner) && !caller.Equal(auction.CreatedBy) {
		return payment.Link{}, fmt.Errorf("service: %w",
			biddingerrors.WithReason(biddingerrors.ErrForbidden, "only the winner or the seller can request a payment link"))
	}
	if auction.PaymentStatus == model.PaymentPaid {
		return payment.Link{}, fmt.Errorf("service: %w",
			biddingerrors.WithReason(biddingerrors.ErrAlreadyPaid, "this auction has already been paid for"))
	}

	winnerBid := computeWinner(auction.Bids)
	if winnerBid == nil {
		return payment.Link{}, fmt.Errorf("service: auction %s: %w", auctionID, biddingerrors.ErrNoBids)
	}

	link, err := s.createPaymentLink(ctx, auction, *winnerBid)
	if err != nil {
		return payment.Link{}, err
	}
	s.notifyPaymentLink(ctx, auction, link)
	return link, nil
}

// ConfirmPayment verifies a completed payment link against its auction and
// marks the auction PAID. Replays of an already applied confirmation return
// the auction unchanged and send nothing.
func (s *BiddingService) ConfirmPayment(ctx context.Context, linkID string) (model.Auction, error) {
	linkID = strings.TrimSpace(linkID)
	auctionID, err := payment.AuctionIDFromLinkID(linkID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: %w", biddingerrors.WithReason(biddingerrors.ErrValidation, "invalid payment link id"))
	}

	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
	}
	if auction.Status != model.StatusClosed || auction.Winner == nil {
		return model.Auction{}, fmt.Errorf("service: auction %s: %w", auctionID, biddingerrors.ErrNoWinner)
	}
	if auction.PaymentStatus == model.PaymentPaid {
		return auction, nil
	}
	if s.gateway == nil {
		return model.Auction{}, fmt.Errorf("service: %w", biddingerrors.ErrPaymentUnavailable)
	}

	gctx, cancel := context.WithTimeout(ctx, s.payOpts.Timeout)
	link, err := s.gateway.GetLink(gctx, linkID)
	cancel()
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to fetch payment link %s: %w", linkID, err)
	}

	if link.Status != payment.StatusPaid {
		return model.Auction{}, fmt.Errorf("service: %w",
			biddingerrors.WithReason(biddingerrors.ErrPaymentIncomplete, "payment has not been completed (status %s)", link.Status))
	}
	if link.Notes[payment.NotePayer] != auction.Winner.Key() {
		return model.Auction{}, fmt.Errorf("service: %w",
			biddingerrors.WithReason(biddingerrors.ErrPaymentMismatch, "payer does not match the auction winner"))
	}
	if !link.Amount.Equal(decimal.NewFromFloat(auction.CurrentPrice)) {
		return model.Auction{}, fmt.Errorf("service: %w",
			biddingerrors.WithReason(biddingerrors.ErrPaymentMismatch, "paid %s but the final price is %s",
				link.Amount.StringFixed(2), decimal.NewFromFloat(auction.CurrentPrice).StringFixed(2)))
	}

	changed, err := s.repo.MarkPaid(ctx, auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to mark auction %s paid: %w", auctionID, err)
	}
	if changed {
		s.notify(ctx, *auction.Winner, model.NotificationPayment,
			fmt.Sprintf("Your payment for \"%s\" has been received. Thank you!", auction.Title),
			auctionID)
		utils.Info("service: payment confirmed", map[string]any{"auction_id": auctionID, "link_id": linkID})
	}

	auction, err = s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to reload auction %s: %w", auctionID, err)
	}
	return auction, nil
}
