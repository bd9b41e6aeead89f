package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// AuctionFilter narrows ListAuctions. Zero fields match everything.
type AuctionFilter struct {
	Category  model.Category
	CreatedBy *model.Identity
	Winner    *model.Identity
	IDs       []string
}

// AuctionDB defines the auction storage interface. Every mutating method is
// a single atomic conditional update scoped to one auction.
type AuctionDB interface {
	CreateAuction(ctx context.Context, auction model.Auction) error
	GetAuction(ctx context.Context, auctionID string) (model.Auction, error)
	// ListAuctions returns matching auctions ordered by end time, latest first
	ListAuctions(ctx context.Context, filter AuctionFilter) ([]model.Auction, error)
	// DeleteAuction removes an active auction owned by owner
	DeleteAuction(ctx context.Context, auctionID string, owner model.Identity, now time.Time) error
	// RecordBid appends bid and sets the current price to its amount only if the
	// stored current price still equals expectedPrice and the auction is open
	// at bid.CreatedAt. A lost race yields biddingerrors.ErrConflict.
	RecordBid(ctx context.Context, bid model.Bid, expectedPrice float64) error
	// RecordBiddedAuction adds auctionID to the user's bidded set; idempotent
	RecordBiddedAuction(ctx context.Context, user model.Identity, auctionID string) error
	BiddedAuctionIDs(ctx context.Context, user model.Identity) ([]string, error)
	// CloseAuction force-closes an active auction owned by owner, setting its
	// end time to now
	CloseAuction(ctx context.Context, auctionID string, owner model.Identity, now time.Time) error
	// ExpireAuctions closes active auctions whose end time is at or before now,
	// limited to auctionIDs when given. Returns the number closed.
	ExpireAuctions(ctx context.Context, now time.Time, auctionIDs ...string) (int, error)
	// PendingSettlement returns closed auctions that have not been notified
	PendingSettlement(ctx context.Context) ([]model.Auction, error)
	// SettleAuction flips notified false->true, closes the auction and records
	// winner (may be nil) in one step. Reports false when already settled.
	SettleAuction(ctx context.Context, auctionID string, winner *model.Identity) (bool, error)
	// MarkPaid flips the payment status of a settled auction ACTIVE->PAID.
	// Reports false when it was already PAID.
	MarkPaid(ctx context.Context, auctionID string) (bool, error)
}

// NotificationDB defines notification storage
type NotificationDB interface {
	InsertNotification(ctx context.Context, n model.Notification) error
	// ListNotifications returns the recipient's notifications, newest first
	ListNotifications(ctx context.Context, recipient model.Identity) ([]model.Notification, error)
	MarkAllRead(ctx context.Context, recipient model.Identity) (int64, error)
	// DeleteNotification fails with ErrForbidden when the notification exists
	// but belongs to someone else
	DeleteNotification(ctx context.Context, notificationID string, recipient model.Identity) error
	PurgeNotifications(ctx context.Context, olderThan time.Time) (int64, error)
}

// WishlistDB defines wishlist storage
type WishlistDB interface {
	// AddToWishlist reports false when the entry already existed
	AddToWishlist(ctx context.Context, entry model.WishlistEntry) (bool, error)
	RemoveFromWishlist(ctx context.Context, user model.Identity, auctionID string) error
	// ListWishlist returns the user's entries, newest first
	ListWishlist(ctx context.Context, user model.Identity) ([]model.WishlistEntry, error)
}

// auctionEntry holds one auction behind its own lock
type auctionEntry struct {
	mu      sync.Mutex
	auction model.Auction
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB,
// NotificationDB and WishlistDB. The map lock only guards membership; auction
// state is guarded per auction.
type MemoryRepo struct {
	mu         sync.RWMutex
	auctions   map[string]*auctionEntry // key: auctionID
	biddedMu   sync.Mutex
	userBidded map[string][]string // key: identity key -> auctionIDs user has bid on
	noticeMu   sync.RWMutex
	notices    map[string]model.Notification // key: notificationID
	wishMu     sync.RWMutex
	wishlists  map[string]model.WishlistEntry // key: identity key + "|" + auctionID
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		auctions:   make(map[string]*auctionEntry),
		userBidded: make(map[string][]string),
		notices:    make(map[string]model.Notification),
		wishlists:  make(map[string]model.WishlistEntry),
	}
}

func (r *MemoryRepo) entry(auctionID string) (*auctionEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.auctions[auctionID]
	return e, ok
}

func (r *MemoryRepo) entries() []*auctionEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*auctionEntry, 0, len(r.auctions))
	for _, e := range r.auctions {
		out = append(out, e)
	}
	return out
}

// CreateAuction stores a new auction
func (r *MemoryRepo) CreateAuction(_ context.Context, auction model.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.auctions[auction.AuctionID]; exists {
		return fmt.Errorf("create auction %s: %w", auction.AuctionID, biddingerrors.ErrConflict)
	}
	r.auctions[auction.AuctionID] = &auctionEntry{auction: auction.Clone()}
	return nil
}

// GetAuction returns a copy of the auction
func (r *MemoryRepo) GetAuction(_ context.Context, auctionID string) (model.Auction, error) {
	e, ok := r.entry(auctionID)
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.auction.Clone(), nil
}

// ListAuctions returns matching auctions, latest end time first
func (r *MemoryRepo) ListAuctions(_ context.Context, filter AuctionFilter) ([]model.Auction, error) {
	var ids map[string]bool
	if len(filter.IDs) > 0 {
		ids = make(map[string]bool, len(filter.IDs))
		for _, id := range filter.IDs {
			ids[id] = true
		}
	}

	out := make([]model.Auction, 0)
	for _, e := range r.entries() {
		e.mu.Lock()
		a := e.auction
		match := (filter.Category == "" || a.Category == filter.Category) &&
			(filter.CreatedBy == nil || a.CreatedBy.Equal(*filter.CreatedBy)) &&
			(filter.Winner == nil || (a.Winner != nil && a.Winner.Equal(*filter.Winner))) &&
			(ids == nil || ids[a.AuctionID])
		if match {
			out = append(out, a.Clone())
		}
		e.mu.Unlock()
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EndTime.Equal(out[j].EndTime) {
			return out[i].AuctionID < out[j].AuctionID
		}
		return out[i].EndTime.After(out[j].EndTime)
	})
	return out, nil
}

// DeleteAuction removes an active, unexpired auction owned by owner, along
// with wishlist entries for it
func (r *MemoryRepo) DeleteAuction(_ context.Context, auctionID string, owner model.Identity, now time.Time) error {
	r.mu.Lock()
	e, ok := r.auctions[auctionID]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("delete auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	e.mu.Lock()
	switch {
	case !e.auction.CreatedBy.Equal(owner):
		e.mu.Unlock()
		r.mu.Unlock()
		return fmt.Errorf("delete auction %s: %w", auctionID, biddingerrors.ErrNotAuctionOwner)
	case e.auction.Status != model.StatusActive || e.auction.Expired(now):
		e.mu.Unlock()
		r.mu.Unlock()
		return fmt.Errorf("delete auction %s: %w", auctionID, biddingerrors.ErrAuctionClosed)
	}
	delete(r.auctions, auctionID)
	e.mu.Unlock()
	r.mu.Unlock()

	r.wishMu.Lock()
	defer r.wishMu.Unlock()
	for k, w := range r.wishlists {
		if w.AuctionID == auctionID {
			delete(r.wishlists, k)
		}
	}
	return nil
}

// RecordBid appends a bid if the auction's price is still expectedPrice
func (r *MemoryRepo) RecordBid(_ context.Context, bid model.Bid, expectedPrice float64) error {
	e, ok := r.entry(bid.AuctionID)
	if !ok {
		return fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, biddingerrors.ErrAuctionNotFound)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	a := &e.auction
	if a.Status != model.StatusActive || a.Expired(bid.CreatedAt) {
		return fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, biddingerrors.ErrConflict)
	}
	if a.CurrentPrice != expectedPrice || bid.Amount <= a.CurrentPrice {
		return fmt.Errorf("record bid for auction %s: price moved from %v: %w", bid.AuctionID, expectedPrice, biddingerrors.ErrConflict)
	}

	a.Bids = append(a.Bids, bid)
	a.CurrentPrice = bid.Amount
	a.UpdatedAt = bid.CreatedAt
	return nil
}

// RecordBiddedAuction records that user has bid on auctionID
func (r *MemoryRepo) RecordBiddedAuction(_ context.Context, user model.Identity, auctionID string) error {
	r.biddedMu.Lock()
	defer r.biddedMu.Unlock()

	key := user.Key()
	for _, id := range r.userBidded[key] {
		if id == auctionID {
			return nil
		}
	}
	r.userBidded[key] = append(r.userBidded[key], auctionID)
	return nil
}

// BiddedAuctionIDs returns the auctions user has bid on, in first-bid order
func (r *MemoryRepo) BiddedAuctionIDs(_ context.Context, user model.Identity) ([]string, error) {
	r.biddedMu.Lock()
	defer r.biddedMu.Unlock()
	return append([]string(nil), r.userBidded[user.Key()]...), nil
}

// CloseAuction force-closes an active auction on behalf of its owner
func (r *MemoryRepo) CloseAuction(_ context.Context, auctionID string, owner model.Identity, now time.Time) error {
	e, ok := r.entry(auctionID)
	if !ok {
		return fmt.Errorf("close auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	a := &e.auction
	if !a.CreatedBy.Equal(owner) {
		return fmt.Errorf("close auction %s: %w", auctionID, biddingerrors.ErrNotAuctionOwner)
	}
	if a.Status != model.StatusActive {
		return fmt.Errorf("close auction %s: %w", auctionID, biddingerrors.ErrAuctionClosed)
	}
	a.Status = model.StatusClosed
	a.EndTime = now
	a.UpdatedAt = now
	return nil
}

// ExpireAuctions closes active auctions whose end time has passed
func (r *MemoryRepo) ExpireAuctions(_ context.Context, now time.Time, auctionIDs ...string) (int, error) {
	var targets []*auctionEntry
	if len(auctionIDs) == 0 {
		targets = r.entries()
	} else {
		for _, id := range auctionIDs {
			if e, ok := r.entry(id); ok {
				targets = append(targets, e)
			}
		}
	}

	closed := 0
	for _, e := range targets {
		e.mu.Lock()
		if e.auction.Status == model.StatusActive && e.auction.Expired(now) {
			e.auction.Status = model.StatusClosed
			e.auction.UpdatedAt = now
			closed++
		}
		e.mu.Unlock()
	}
	return closed, nil
}

// PendingSettlement returns closed auctions not yet notified
func (r *MemoryRepo) PendingSettlement(_ context.Context) ([]model.Auction, error) {
	var out []model.Auction
	for _, e := range r.entries() {
		e.mu.Lock()
		if e.auction.Status == model.StatusClosed && !e.auction.Notified {
			out = append(out, e.auction.Clone())
		}
		e.mu.Unlock()
	}
	return out, nil
}

// SettleAuction performs the one-time notified flip
func (r *MemoryRepo) SettleAuction(_ context.Context, auctionID string, winner *model.Identity) (bool, error) {
	e, ok := r.entry(auctionID)
	if !ok {
		return false, fmt.Errorf("settle auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.auction.Notified {
		return false, nil
	}
	e.auction.Status = model.StatusClosed
	e.auction.Notified = true
	if winner != nil {
		w := *winner
		e.auction.Winner = &w
	}
	return true, nil
}

// MarkPaid flips payment status to PAID for a settled auction with a winner
func (r *MemoryRepo) MarkPaid(_ context.Context, auctionID string) (bool, error) {
	e, ok := r.entry(auctionID)
	if !ok {
		return false, fmt.Errorf("mark paid %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.auction.Status != model.StatusClosed || e.auction.Winner == nil {
		return false, fmt.Errorf("mark paid %s: %w", auctionID, biddingerrors.ErrNoWinner)
	}
	if e.auction.PaymentStatus == model.PaymentPaid {
		return false, nil
	}
	e.auction.PaymentStatus = model.PaymentPaid
	return true, nil
}

// AddAuction adds an auction to the repository as-is. This method is intended for tests only.
func (r *MemoryRepo) AddAuction(auction model.Auction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auctions[auction.AuctionID] = &auctionEntry{auction: auction.Clone()}
}
