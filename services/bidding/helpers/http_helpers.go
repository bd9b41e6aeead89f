package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

const userContextKey = "auction.user"

// SetUser stores the authenticated caller on the request context
func SetUser(c *gin.Context, user model.User) {
	c.Set(userContextKey, user)
}

// CurrentUser returns the caller stored by SetUser
func CurrentUser(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return model.User{}, false
	}
	user, ok := v.(model.User)
	return user, ok
}

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message.
// Errors carrying a reason use it as the message.
func MapErrorToHTTP(err error) (int, string) {
	status, message := mapKind(err)
	if reason, ok := biddingerrors.Reason(err); ok {
		message = reason
	}
	return status, message
}

func mapKind(err error) (int, string) {
	switch {
	case errors.Is(err, biddingerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, biddingerrors.ErrNotificationNotFound):
		return http.StatusNotFound, "notification not found"
	case errors.Is(err, biddingerrors.ErrWishlistEntryNotFound):
		return http.StatusNotFound, "auction is not in your wishlist"
	case errors.Is(err, biddingerrors.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, biddingerrors.ErrNoBids):
		return http.StatusNotFound, "no bids found for auction"
	case errors.Is(err, biddingerrors.ErrUnauthorized):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, biddingerrors.ErrSelfBid):
		return http.StatusForbidden, "you cannot bid on your own auction"
	case errors.Is(err, biddingerrors.ErrNotAuctionOwner):
		return http.StatusForbidden, "only the auction owner can do this"
	case errors.Is(err, biddingerrors.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, biddingerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, biddingerrors.ErrInvalidAuction):
		return http.StatusBadRequest, "invalid auction details"
	case errors.Is(err, biddingerrors.ErrPaymentIncomplete):
		return http.StatusBadRequest, "payment not completed"
	case errors.Is(err, biddingerrors.ErrPaymentMismatch):
		return http.StatusBadRequest, "payment does not match the auction"
	case errors.Is(err, biddingerrors.ErrValidation):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, biddingerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, biddingerrors.ErrConsecutiveBid):
		return http.StatusConflict, "you cannot bid twice in a row"
	case errors.Is(err, biddingerrors.ErrAuctionClosed):
		return http.StatusConflict, "auction closed"
	case errors.Is(err, biddingerrors.ErrNoWinner):
		return http.StatusConflict, "auction has no winner"
	case errors.Is(err, biddingerrors.ErrAlreadyPaid):
		return http.StatusConflict, "auction already paid"
	case errors.Is(err, biddingerrors.ErrConflict):
		return http.StatusConflict, "conflicting update, please retry"
	case errors.Is(err, biddingerrors.ErrUpstreamUnavailable):
		return http.StatusBadGateway, "upstream service unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// HandleServiceError writes the mapped error response and logs it. Server
// errors are logged at error level, client errors at warn.
func HandleServiceError(c *gin.Context, handlerName, action string, err error, ctx map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	fields := map[string]any{"handler": handlerName, "status": status, "error": err.Error()}
	for k, v := range ctx {
		fields[k] = v
	}
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": "+action, fields)
		return
	}
	utils.Warn(handlerName+": "+action, fields)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
