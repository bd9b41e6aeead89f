package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"
)

// InsertNotification stores a notification
func (r *MemoryRepo) InsertNotification(_ context.Context, n model.Notification) error {
	r.noticeMu.Lock()
	defer r.noticeMu.Unlock()

	if _, exists := r.notices[n.NotificationID]; exists {
		return fmt.Errorf("insert notification %s: %w", n.NotificationID, biddingerrors.ErrConflict)
	}
	r.notices[n.NotificationID] = n
	return nil
}

// ListNotifications returns the recipient's notifications, newest first
func (r *MemoryRepo) ListNotifications(_ context.Context, recipient model.Identity) ([]model.Notification, error) {
	r.noticeMu.RLock()
	defer r.noticeMu.RUnlock()

	out := make([]model.Notification, 0)
	for _, n := range r.notices {
		if n.Recipient.Equal(recipient) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].NotificationID > out[j].NotificationID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// MarkAllRead marks every unread notification of recipient as read
func (r *MemoryRepo) MarkAllRead(_ context.Context, recipient model.Identity) (int64, error) {
	r.noticeMu.Lock()
	defer r.noticeMu.Unlock()

	var updated int64
	for id, n := range r.notices {
		if n.Recipient.Equal(recipient) && !n.IsRead {
			n.IsRead = true
			r.notices[id] = n
			updated++
		}
	}
	return updated, nil
}

// DeleteNotification removes a notification owned by recipient
func (r *MemoryRepo) DeleteNotification(_ context.Context, notificationID string, recipient model.Identity) error {
	r.noticeMu.Lock()
	defer r.noticeMu.Unlock()

	n, ok := r.notices[notificationID]
	if !ok {
		return fmt.Errorf("delete notification %s: %w", notificationID, biddingerrors.ErrNotificationNotFound)
	}
	if !n.Recipient.Equal(recipient) {
		return fmt.Errorf("delete notification %s: %w", notificationID, biddingerrors.ErrForbidden)
	}
	delete(r.notices, notificationID)
	return nil
}

// PurgeNotifications drops notifications created before olderThan
func (r *MemoryRepo) PurgeNotifications(_ context.Context, olderThan time.Time) (int64, error) {
	r.noticeMu.Lock()
	defer r.noticeMu.Unlock()

	var purged int64
	for id, n := range r.notices {
		if n.CreatedAt.Before(olderThan) {
			delete(r.notices, id)
			purged++
		}
	}
	return purged, nil
}
