package bidding

import (
	"context"
	"fmt"

	model "auction-engine/internal/models"
	"auction-engine/internal/notification"
	"auction-engine/utils"
)

// computeWinner returns the highest bid. Equal amounts go to the earliest
// bid time, then to the earlier position in the history.
func computeWinner(bids []model.Bid) *model.Bid {
	var best *model.Bid
	for i := range bids {
		b := &bids[i]
		if best == nil ||
			b.Amount > best.Amount ||
			(b.Amount == best.Amount && b.CreatedAt.Before(best.CreatedAt)) {
			best = b
		}
	}
	if best == nil {
		return nil
	}
	w := *best
	return &w
}

// SweepExpired closes every active auction whose end time has passed and
// settles every closed auction that has not been settled yet. It returns the
// number of auctions this call settled.
func (s *BiddingService) SweepExpired(ctx context.Context) (int, error) {
	now := s.clock.Now()
	closed, err := s.repo.ExpireAuctions(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("service: failed to expire auctions: %w", err)
	}

	pending, err := s.repo.PendingSettlement(ctx)
	if err != nil {
		return 0, fmt.Errorf("service: failed to list auctions pending settlement: %w", err)
	}

	settled := 0
	for _, auction := range pending {
		ok, err := s.finalize(ctx, auction)
		if err != nil {
			utils.Error("service: settlement failed", map[string]any{"auction_id": auction.AuctionID, "error": err.Error()})
			continue
		}
		if ok {
			settled++
		}
	}

	if closed > 0 || settled > 0 {
		utils.Info("service: settlement sweep", map[string]any{"closed": closed, "settled": settled})
	}
	return settled, nil
}

// settle closes one auction if its end time has passed and finalizes it if
// it is closed and not yet settled
func (s *BiddingService) settle(ctx context.Context, auctionID string) error {
	if _, err := s.repo.ExpireAuctions(ctx, s.clock.Now(), auctionID); err != nil {
		return fmt.Errorf("service: failed to expire auction %s: %w", auctionID, err)
	}

	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
	}
	if auction.Status != model.StatusClosed || auction.Notified {
		return nil
	}

	if _, err := s.finalize(ctx, auction); err != nil {
		return err
	}
	return nil
}

// finalize records the winner of a closed auction. The store's notified
// compare-and-swap picks exactly one caller to send the win notification and
// request the payment link; every other caller gets false.
func (s *BiddingService) finalize(ctx context.Context, auction model.Auction) (bool, error) {
	winnerBid := computeWinner(auction.Bids)
	var winner *model.Identity
	if winnerBid != nil {
		w := winnerBid.Bidder
		winner = &w
	}

	ok, err := s.repo.SettleAuction(ctx, auction.AuctionID, winner)
	if err != nil {
		return false, fmt.Errorf("service: failed to settle auction %s: %w", auction.AuctionID, err)
	}
	if !ok {
		return false, nil
	}

	s.notifier.Broadcast(notification.AuctionTopic(auction.AuctionID), notification.EventAuctionClose, map[string]any{
		"auction_id":  auction.AuctionID,
		"final_price": auction.CurrentPrice,
		"has_winner":  winner != nil,
	})
	if winnerBid == nil {
		utils.Info("service: auction closed without bids", map[string]any{"auction_id": auction.AuctionID})
		return true, nil
	}

	s.notify(ctx, winnerBid.Bidder, model.NotificationWin,
		fmt.Sprintf("Congratulations! You won \"%s\" with a bid of %s.", auction.Title, formatAmount(winnerBid.Amount)),
		auction.AuctionID)
	utils.Info("service: auction settled", map[string]any{
		"auction_id": auction.AuctionID,
		"winner":     winnerBid.Bidder.Key(),
		"amount":     winnerBid.Amount,
	})

	if s.gateway != nil {
		auction.Status = model.StatusClosed
		auction.Notified = true
		auction.Winner = winner
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.sendPaymentLink(context.Background(), auction, *winnerBid)
		}()
	}
	return true, nil
}
