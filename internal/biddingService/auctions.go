package bidding

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/utils"
)

const (
	maxTitleLength       = 120
	maxDescriptionLength = 5000
	maxImages            = 10
)

// NewAuction is the caller-supplied part of an auction
type NewAuction struct {
	Title         string
	Description   string
	Images        []string
	Category      model.Category
	StartingPrice float64
	StartTime     time.Time // zero means now
	EndTime       time.Time
}

func invalidAuction(format string, args ...any) error {
	return fmt.Errorf("service: %w", biddingerrors.WithReason(biddingerrors.ErrInvalidAuction, format, args...))
}

func (in NewAuction) validate(now time.Time) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return invalidAuction("title is required")
	case len(in.Title) > maxTitleLength:
		return invalidAuction("title must be at most %d characters", maxTitleLength)
	case strings.TrimSpace(in.Description) == "":
		return invalidAuction("description is required")
	case len(in.Description) > maxDescriptionLength:
		return invalidAuction("description must be at most %d characters", maxDescriptionLength)
	case len(in.Images) == 0:
		return invalidAuction("at least one image is required")
	case len(in.Images) > maxImages:
		return invalidAuction("at most %d images are allowed", maxImages)
	case !in.Category.Valid():
		return invalidAuction("category must be one of %v", model.Categories)
	case in.StartingPrice <= 0 || math.IsNaN(in.StartingPrice) || math.IsInf(in.StartingPrice, 0):
		return invalidAuction("starting price must be a positive number")
	case !in.EndTime.After(in.StartTime):
		return invalidAuction("end time must be after start time")
	case !in.EndTime.After(now):
		return invalidAuction("end time must be in the future")
	}
	for _, img := range in.Images {
		u, err := url.Parse(img)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalidAuction("image %q is not an absolute http(s) URL", img)
		}
	}
	return nil
}

// CreateAuction validates and stores a new active auction owned by creator
func (s *BiddingService) CreateAuction(ctx context.Context, creator model.User, in NewAuction) (model.Auction, error) {
	if !validIdentity(creator.Identity) {
		return model.Auction{}, fmt.Errorf("service: %w - missing creator identity", biddingerrors.ErrUnauthorized)
	}

	now := s.clock.Now()
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.StartTime.IsZero() {
		in.StartTime = now
	}
	if err := in.validate(now); err != nil {
		return model.Auction{}, err
	}

	auction := model.Auction{
		AuctionID:     utils.GenerateID(),
		Title:         in.Title,
		Description:   in.Description,
		Images:        append([]string(nil), in.Images...),
		Category:      in.Category,
		StartingPrice: in.StartingPrice,
		CurrentPrice:  in.StartingPrice,
		StartTime:     in.StartTime.UTC(),
		EndTime:       in.EndTime.UTC(),
		Status:        model.StatusActive,
		PaymentStatus: model.PaymentActive,
		CreatedBy:     creator.Identity,
		CreatorName:   creator.Username,
		Bids:          []model.Bid{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateAuction(ctx, auction); err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to create auction: %w", err)
	}

	s.notify(ctx, creator.Identity, model.NotificationCreate,
		fmt.Sprintf("Your auction \"%s\" is live with a starting price of %s.", auction.Title, formatAmount(auction.StartingPrice)),
		auction.AuctionID)
	return auction, nil
}

// GetAuction returns one auction, settling it first if its end time has passed
func (s *BiddingService) GetAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	if strings.TrimSpace(auctionID) == "" {
		return model.Auction{}, fmt.Errorf("service: %w - empty auction ID", biddingerrors.ErrValidation)
	}

	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	if !s.needsSettlement(auction) {
		return auction, nil
	}

	if err := s.settle(ctx, auctionID); err != nil {
		utils.Warn("service: on-demand settlement failed", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return auction, nil
	}
	auction, err = s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to reload auction %s: %w", auctionID, err)
	}
	return auction, nil
}

func (s *BiddingService) needsSettlement(a model.Auction) bool {
	if a.Notified {
		return false
	}
	return a.Status == model.StatusClosed || a.Expired(s.clock.Now())
}

// ListAuctions returns every auction, or those in category when it is set,
// latest end time first
func (s *BiddingService) ListAuctions(ctx context.Context, category model.Category) ([]model.Auction, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("service: %w",
			biddingerrors.WithReason(biddingerrors.ErrValidation, "category must be one of %v", model.Categories))
	}

	auctions, err := s.repo.ListAuctions(ctx, repository.AuctionFilter{Category: category})
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}
	return auctions, nil
}

// MyAuctions returns the auctions created by user
func (s *BiddingService) MyAuctions(ctx context.Context, user model.Identity) ([]model.Auction, error) {
	auctions, err := s.repo.ListAuctions(ctx, repository.AuctionFilter{CreatedBy: &user})
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions of %s: %w", user.Key(), err)
	}
	return auctions, nil
}

// BiddedAuctions returns the auctions user has placed at least one bid on
func (s *BiddingService) BiddedAuctions(ctx context.Context, user model.Identity) ([]model.Auction, error) {
	ids, err := s.repo.BiddedAuctionIDs(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bidded auctions of %s: %w", user.Key(), err)
	}
	if len(ids) == 0 {
		return []model.Auction{}, nil
	}

	auctions, err := s.repo.ListAuctions(ctx, repository.AuctionFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("service: failed to list bidded auctions of %s: %w", user.Key(), err)
	}
	return auctions, nil
}

// GetBids returns an auction's bid history in acceptance order
func (s *BiddingService) GetBids(ctx context.Context, auctionID string) ([]model.Bid, error) {
	auction, err := s.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if auction.Bids == nil {
		return []model.Bid{}, nil
	}
	return auction.Bids, nil
}

// GetWinningBid returns the bid currently leading the auction, or the winning
// bid once it is closed
func (s *BiddingService) GetWinningBid(ctx context.Context, auctionID string) (model.Bid, error) {
	auction, err := s.GetAuction(ctx, auctionID)
	if err != nil {
		return model.Bid{}, err
	}
	winner := computeWinner(auction.Bids)
	if winner == nil {
		return model.Bid{}, fmt.Errorf("service: auction %s: %w", auctionID, biddingerrors.ErrNoBids)
	}
	return *winner, nil
}

// DeleteAuction removes an auction. Only its creator may do so, and only
// while it is active.
func (s *BiddingService) DeleteAuction(ctx context.Context, auctionID string, caller model.Identity) error {
	// settles first so an expired auction is not deleted out from under its winner
	if _, err := s.GetAuction(ctx, auctionID); err != nil {
		return err
	}
	if err := s.repo.DeleteAuction(ctx, auctionID, caller, s.clock.Now()); err != nil {
		return fmt.Errorf("service: failed to delete auction %s: %w", auctionID, err)
	}
	utils.Info("service: auction deleted", map[string]any{"auction_id": auctionID, "by": caller.Key()})
	return nil
}

// CloseAuction force-closes an active auction on behalf of its creator and
// settles it immediately
func (s *BiddingService) CloseAuction(ctx context.Context, auctionID string, caller model.Identity) (model.Auction, error) {
	if strings.TrimSpace(auctionID) == "" {
		return model.Auction{}, fmt.Errorf("service: %w - empty auction ID", biddingerrors.ErrValidation)
	}

	if err := s.repo.CloseAuction(ctx, auctionID, caller, s.clock.Now()); err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to close auction %s: %w", auctionID, err)
	}
	if err := s.settle(ctx, auctionID); err != nil {
		return model.Auction{}, err
	}

	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to reload auction %s: %w", auctionID, err)
	}
	return auction, nil
}
