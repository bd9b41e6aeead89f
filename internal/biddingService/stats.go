package bidding

import (
	"context"
	"fmt"
	"strings"

	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"
	"auction-engine/internal/repository"
)

// StatsFor counts the user's bids, created auctions and won auctions. A user
// with no activity gets zero counts.
func (s *BiddingService) StatsFor(ctx context.Context, user model.Identity) (model.UserStats, error) {
	if !validIdentity(user) {
		return model.UserStats{}, fmt.Errorf("service: %w - invalid user identity", biddingerrors.ErrValidation)
	}

	auctions, err := s.repo.ListAuctions(ctx, repository.AuctionFilter{})
	if err != nil {
		return model.UserStats{}, fmt.Errorf("service: failed to compute stats for %s: %w", user.Key(), err)
	}

	var stats model.UserStats
	for _, a := range auctions {
		for _, b := range a.Bids {
			if b.Bidder.Equal(user) {
				stats.TotalBids++
			}
		}
		if a.CreatedBy.Equal(user) {
			stats.AuctionsCreated++
		}
		if a.Winner != nil && a.Winner.Equal(user) {
			stats.AuctionsWon++
		}
	}
	return stats, nil
}

// AddToWishlist adds an existing auction to the user's wishlist. It reports
// false when the auction was already there.
func (s *BiddingService) AddToWishlist(ctx context.Context, user model.Identity, auctionID string) (bool, error) {
	if strings.TrimSpace(auctionID) == "" {
		return false, fmt.Errorf("service: %w - empty auction ID", biddingerrors.ErrValidation)
	}
	if _, err := s.repo.GetAuction(ctx, auctionID); err != nil {
		return false, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}

	created, err := s.wishlist.AddToWishlist(ctx, model.WishlistEntry{
		User:      user,
		AuctionID: auctionID,
		AddedAt:   s.clock.Now(),
	})
	if err != nil {
		return false, fmt.Errorf("service: failed to add auction %s to wishlist of %s: %w", auctionID, user.Key(), err)
	}
	return created, nil
}

func (s *BiddingService) RemoveFromWishlist(ctx context.Context, user model.Identity, auctionID string) error {
	if err := s.wishlist.RemoveFromWishlist(ctx, user, auctionID); err != nil {
		return fmt.Errorf("service: failed to remove auction %s from wishlist of %s: %w", auctionID, user.Key(), err)
	}
	return nil
}

// Wishlist returns the user's wishlist joined with the auctions, newest first.
// Entries whose auction no longer exists are left out.
func (s *BiddingService) Wishlist(ctx context.Context, user model.Identity) ([]model.WishlistItem, error) {
	entries, err := s.wishlist.ListWishlist(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list wishlist of %s: %w", user.Key(), err)
	}
	if len(entries) == 0 {
		return []model.WishlistItem{}, nil
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.AuctionID)
	}
	auctions, err := s.repo.ListAuctions(ctx, repository.AuctionFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("service: failed to load wishlist auctions of %s: %w", user.Key(), err)
	}
	byID := make(map[string]model.Auction, len(auctions))
	for _, a := range auctions {
		byID[a.AuctionID] = a
	}

	items := make([]model.WishlistItem, 0, len(entries))
	for _, e := range entries {
		a, ok := byID[e.AuctionID]
		if !ok {
			continue
		}
		items = append(items, model.WishlistItem{AuctionID: e.AuctionID, AddedAt: e.AddedAt, Auction: a})
	}
	return items, nil
}
