package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"auction-engine/internal/biddingerrors"
	"auction-engine/internal/clock"
	model "auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/utils"
)

//go:generate mockgen -source=notification.go -destination=mock_notification.go -package=notification

// Publisher delivers events to the real-time channel. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, topic, event string, payload any) error
}

const (
	EventNotification = "notification"
	EventNewBid       = "new-bid"
	EventAuctionClose = "auction-closed"
)

// UserTopic is the real-time topic for one user's notifications
func UserTopic(user model.Identity) string {
	return "user-" + user.Key()
}

// AuctionTopic is the real-time topic for one auction's bid stream
func AuctionTopic(auctionID string) string {
	return "auction-" + auctionID
}

// Push is the payload published on a user topic when a notification is stored
type Push struct {
	NotificationID string                 `json:"notification_id"`
	Type           model.NotificationType `json:"type"`
	Preview        string                 `json:"preview"`
	AuctionID      string                 `json:"auction_id,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

// Dispatcher persists notifications and pushes them to the real-time channel.
// Persistence is the source of truth; a failed push is logged and dropped.
type Dispatcher struct {
	repo        repository.NotificationDB
	publisher   Publisher
	clock       clock.Clock
	pushTimeout time.Duration
	wg          sync.WaitGroup
}

type Option func(*Dispatcher)

func WithClock(c clock.Clock) Option {
	return func(d *Dispatcher) { d.clock = c }
}

func WithPushTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.pushTimeout = timeout
		}
	}
}

func NewDispatcher(repo repository.NotificationDB, publisher Publisher, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		repo:        repo,
		publisher:   publisher,
		clock:       clock.System{},
		pushTimeout: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Notify stores a plain-text notification for recipient and pushes a preview
// of it
func (d *Dispatcher) Notify(ctx context.Context, recipient model.Identity, typ model.NotificationType, message, auctionID string) (string, error) {
	return d.deliver(ctx, recipient, typ, message, auctionID, Preview)
}

// NotifyHTML stores a notification whose message is HTML markup. The pushed
// preview is the markup's text content.
func (d *Dispatcher) NotifyHTML(ctx context.Context, recipient model.Identity, typ model.NotificationType, message, auctionID string) (string, error) {
	return d.deliver(ctx, recipient, typ, message, auctionID, PreviewHTML)
}

func (d *Dispatcher) deliver(ctx context.Context, recipient model.Identity, typ model.NotificationType, message, auctionID string, preview func(string) string) (string, error) {
	if recipient.IsZero() || !recipient.Kind.Valid() {
		return "", fmt.Errorf("notification: %w - invalid recipient %q", biddingerrors.ErrValidation, recipient.Key())
	}

	n := model.Notification{
		NotificationID: utils.GenerateID(),
		Recipient:      recipient,
		Type:           typ,
		Message:        message,
		AuctionID:      auctionID,
		CreatedAt:      d.clock.Now(),
	}
	if err := d.repo.InsertNotification(ctx, n); err != nil {
		return "", fmt.Errorf("notification: failed to store for %s: %w", recipient.Key(), err)
	}

	d.Broadcast(UserTopic(recipient), EventNotification, Push{
		NotificationID: n.NotificationID,
		Type:           n.Type,
		Preview:        preview(n.Message),
		AuctionID:      n.AuctionID,
		CreatedAt:      n.CreatedAt,
	})
	return n.NotificationID, nil
}

// Broadcast publishes in the background with a bounded timeout. It never
// blocks the caller and never reports failure.
func (d *Dispatcher) Broadcast(topic, event string, payload any) {
	if d.publisher == nil {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.pushTimeout)
		defer cancel()

		if err := d.publisher.Publish(ctx, topic, event, payload); err != nil {
			utils.Warn("notification: push failed", map[string]any{
				"topic": topic,
				"event": event,
				"error": err.Error(),
			})
		}
	}()
}

// Wait blocks until in-flight pushes finish
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// ListForUser returns the recipient's notifications, newest first
func (d *Dispatcher) ListForUser(ctx context.Context, recipient model.Identity) ([]model.Notification, error) {
	list, err := d.repo.ListNotifications(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("notification: failed to list for %s: %w", recipient.Key(), err)
	}
	return list, nil
}

func (d *Dispatcher) MarkAllRead(ctx context.Context, recipient model.Identity) (int64, error) {
	n, err := d.repo.MarkAllRead(ctx, recipient)
	if err != nil {
		return 0, fmt.Errorf("notification: failed to mark read for %s: %w", recipient.Key(), err)
	}
	return n, nil
}

// Delete removes a notification; only its recipient may do so
func (d *Dispatcher) Delete(ctx context.Context, notificationID string, recipient model.Identity) error {
	if notificationID == "" {
		return fmt.Errorf("notification: %w - empty notification id", biddingerrors.ErrValidation)
	}
	if err := d.repo.DeleteNotification(ctx, notificationID, recipient); err != nil {
		return fmt.Errorf("notification: %w", err)
	}
	return nil
}

// Purge drops notifications older than retention
func (d *Dispatcher) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := d.clock.Now().Add(-retention)
	n, err := d.repo.PurgeNotifications(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("notification: failed to purge before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	if n > 0 {
		utils.Info("notification: purged expired notifications", map[string]any{"count": n, "cutoff": cutoff})
	}
	return n, nil
}
