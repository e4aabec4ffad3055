package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/y4my4my4m/nexus-sync/internal/models"
	"github.com/y4my4my4m/nexus-sync/internal/pagination"
)

// NotificationTable keeps each user's notifications ascending by
// (createdAt, id); delivery pages are newest first through the shared
// pagination engine.
type NotificationTable struct {
	mu     sync.RWMutex
	byUser map[uuid.UUID][]models.Notification
	owner  map[uuid.UUID]uuid.UUID // notification id -> target user id
	rec    Recorder
}

func newNotificationTable(rec Recorder) *NotificationTable {
	return &NotificationTable{
		byUser: make(map[uuid.UUID][]models.Notification),
		owner:  make(map[uuid.UUID]uuid.UUID),
		rec:    rec,
	}
}

// Add creates exactly one notification for a triggering domain event.
func (t *NotificationTable) Add(userID uuid.UUID, typ models.NotificationType, relatedID uuid.UUID, extra string) models.Notification {
	t.mu.Lock()
	defer t.mu.Unlock()

	notif := models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typ,
		RelatedID: relatedID,
		CreatedAt: time.Now().UnixMilli(),
		Extra:     extra,
	}
	t.byUser[userID] = insertOrdered(t.byUser[userID], notif)
	t.owner[notif.ID] = userID

	if t.rec != nil {
		t.rec.SaveNotification(notif)
	}
	return notif
}

// Page serves the legacy `before` dialect over the cursor engine. The
// historyComplete flag is true exactly when no older notification remains
// past the returned page.
func (t *NotificationTable) Page(userID uuid.UUID, before *int64, limit int) ([]models.Notification, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	page, err := pagination.Paginate(t.byUser[userID], pagination.FromLegacyBefore(before), models.Backward, limit)
	if err != nil {
		return nil, false, err
	}
	return page.Items, !page.HasMore, nil
}

// MarkRead flips the read flag. Marking an already-read notification is a
// no-op success, so retries and duplicate requests cannot fail. Another
// user's notification is indistinguishable from a missing one.
func (t *NotificationTable) MarkRead(notificationID uuid.UUID, by uuid.UUID) (models.Notification, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	userID, exists := t.owner[notificationID]
	if !exists || userID != by {
		return models.Notification{}, ErrNotFound
	}

	list := t.byUser[userID]
	for i := range list {
		if list[i].ID == notificationID {
			if !list[i].Read {
				list[i].Read = true
				if t.rec != nil {
					t.rec.SaveNotification(list[i])
				}
			}
			return list[i], nil
		}
	}
	return models.Notification{}, ErrNotFound
}

// Restore installs a persisted notification.
func (t *NotificationTable) Restore(notif models.Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.byUser[notif.UserID] = insertOrdered(t.byUser[notif.UserID], notif)
	t.owner[notif.ID] = notif.UserID
}
