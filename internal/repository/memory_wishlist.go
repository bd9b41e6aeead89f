package repository

import (
	"context"
	"fmt"
	"sort"

	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"
)

func wishlistKey(user model.Identity, auctionID string) string {
	return user.Key() + "|" + auctionID
}

// AddToWishlist adds an entry unless the pair already exists
func (r *MemoryRepo) AddToWishlist(_ context.Context, entry model.WishlistEntry) (bool, error) {
	r.wishMu.Lock()
	defer r.wishMu.Unlock()

	key := wishlistKey(entry.User, entry.AuctionID)
	if _, exists := r.wishlists[key]; exists {
		return false, nil
	}
	r.wishlists[key] = entry
	return true, nil
}

// RemoveFromWishlist deletes the (user, auction) entry
func (r *MemoryRepo) RemoveFromWishlist(_ context.Context, user model.Identity, auctionID string) error {
	r.wishMu.Lock()
	defer r.wishMu.Unlock()

	key := wishlistKey(user, auctionID)
	if _, exists := r.wishlists[key]; !exists {
		return fmt.Errorf("remove wishlist entry %s: %w", auctionID, biddingerrors.ErrWishlistEntryNotFound)
	}
	delete(r.wishlists, key)
	return nil
}

// ListWishlist returns the user's entries, newest first
func (r *MemoryRepo) ListWishlist(_ context.Context, user model.Identity) ([]model.WishlistEntry, error) {
	r.wishMu.RLock()
	defer r.wishMu.RUnlock()

	out := make([]model.WishlistEntry, 0)
	for _, w := range r.wishlists {
		if w.User.Equal(user) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AuctionID < out[j].AuctionID
		}
		return out[i].AddedAt.After(out[j].AddedAt)
	})
	return out, nil
}
