package handlers

import (
	"errors"

	"github.com/y4my4my4m/nexus-sync/internal/hub"
	"github.com/y4my4my4m/nexus-sync/internal/pagination"
	"github.com/y4my4my4m/nexus-sync/internal/protocol"
	"github.com/y4my4my4m/nexus-sync/internal/store"
)

func handleGetNotifications(client *hub.Client, m *protocol.GetNotifications) {
	notifs, complete, err := st.Notifications.Page(client.UserID(), m.Before, pagination.DefaultLimit)
	if err != nil {
		sendNotice(client, "Invalid pagination cursor", true)
		return
	}

	sendEvent(client, protocol.Notifications{
		Notifications:   notifs,
		HistoryComplete: complete,
	})
}

// handleMarkNotificationRead is idempotent: marking an already read
// notification succeeds and re-acknowledges it.
func handleMarkNotificationRead(client *hub.Client, m *protocol.MarkNotificationRead) {
	notif, err := st.Notifications.MarkRead(m.NotificationID, client.UserID())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			sendNotice(client, "No such notification", true)
			return
		}
		sugar.Error(err)
		sendNotice(client, "Couldn't update notification", true)
		return
	}
	sendEvent(client, protocol.NotificationUpdated{
		NotificationID: notif.ID,
		Read:           notif.Read,
	})
}
