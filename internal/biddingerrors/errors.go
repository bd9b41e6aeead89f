package biddingerrors

import (
	"errors"
	"fmt"
)

// Error kinds. Specialised errors below wrap one of these.
var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrValidation          = errors.New("validation failed")
	ErrConflict            = errors.New("conflict")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Repository-level errors
var (
	ErrAuctionNotFound       = fmt.Errorf("auction %w", ErrNotFound)
	ErrNotificationNotFound  = fmt.Errorf("notification %w", ErrNotFound)
	ErrWishlistEntryNotFound = fmt.Errorf("wishlist entry %w", ErrNotFound)
	ErrNoBids                = errors.New("no bids found for auction")
)

// business logic errors
var (
	ErrInvalidBid         = fmt.Errorf("invalid bid: %w", ErrValidation)
	ErrInvalidAuction     = fmt.Errorf("invalid auction: %w", ErrValidation)
	ErrBidTooLow          = errors.New("bid amount too low")
	ErrAuctionClosed      = errors.New("auction closed")
	ErrConsecutiveBid     = errors.New("consecutive bid forbidden")
	ErrSelfBid            = fmt.Errorf("bidding on own auction: %w", ErrForbidden)
	ErrNotAuctionOwner    = fmt.Errorf("not the auction owner: %w", ErrForbidden)
	ErrNoWinner           = fmt.Errorf("auction has no winner: %w", ErrConflict)
	ErrAlreadyPaid        = fmt.Errorf("auction already paid: %w", ErrConflict)
	ErrPaymentIncomplete  = fmt.Errorf("payment not completed: %w", ErrValidation)
	ErrPaymentMismatch    = fmt.Errorf("payment does not match auction: %w", ErrValidation)
	ErrPaymentUnavailable = fmt.Errorf("payment gateway: %w", ErrUpstreamUnavailable)
)

// ReasonError attaches a user-facing explanation to a sentinel error
type ReasonError struct {
	Err    error
	Reason string
}

func (e *ReasonError) Error() string {
	return e.Err.Error() + ": " + e.Reason
}

func (e *ReasonError) Unwrap() error {
	return e.Err
}

// WithReason wraps err with a formatted user-facing reason
func WithReason(err error, format string, args ...any) error {
	return &ReasonError{Err: err, Reason: fmt.Sprintf(format, args...)}
}

// Reason returns the user-facing reason carried anywhere in err's chain
func Reason(err error) (string, bool) {
	var re *ReasonError
	if errors.As(err, &re) {
		return re.Reason, true
	}
	return "", false
}
