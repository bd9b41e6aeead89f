package bidding

import (
	"context"

	model "auction-engine/internal/models"
)

//go:generate mockgen -source=notifier.go -destination=mock_notifier.go -package=bidding

// Notifier persists user notifications and publishes real-time events
type Notifier interface {
	Notify(ctx context.Context, recipient model.Identity, typ model.NotificationType, message, auctionID string) (string, error)
	NotifyHTML(ctx context.Context, recipient model.Identity, typ model.NotificationType, message, auctionID string) (string, error)
	Broadcast(topic, event string, payload any)
}
