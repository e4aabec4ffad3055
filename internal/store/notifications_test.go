package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/y4my4my4m/nexus-sync/internal/models"
)

func TestNotificationsNewestFirst(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")

	first := st.Notifications.Add(alice.ID, models.NotifDM, uuid.New(), "bob")
	second := st.Notifications.Add(alice.ID, models.NotifMention, uuid.New(), "carol")
	third := st.Notifications.Add(alice.ID, models.NotifThreadReply, uuid.New(), "")

	notifs, complete, err := st.Notifications.Page(alice.ID, nil, 10)
	require.NoError(t, err)
	require.True(t, complete)
	require.Len(t, notifs, 3)

	// newest first, ties broken by id
	ids := []uuid.UUID{notifs[0].ID, notifs[1].ID, notifs[2].ID}
	require.ElementsMatch(t, []uuid.UUID{first.ID, second.ID, third.ID}, ids)
	require.GreaterOrEqual(t, notifs[0].CreatedAt, notifs[1].CreatedAt)
	require.GreaterOrEqual(t, notifs[1].CreatedAt, notifs[2].CreatedAt)
}

func TestNotificationPagingBefore(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")

	for i := 0; i < 5; i++ {
		st.Notifications.Restore(models.Notification{
			ID:        uuid.New(),
			UserID:    alice.ID,
			Type:      models.NotifAnnouncement,
			CreatedAt: int64(100 + i),
		})
	}

	notifs, complete, err := st.Notifications.Page(alice.ID, nil, 2)
	require.NoError(t, err)
	require.False(t, complete)
	require.Equal(t, int64(104), notifs[0].CreatedAt)
	require.Equal(t, int64(103), notifs[1].CreatedAt)

	before := notifs[1].CreatedAt
	notifs, complete, err = st.Notifications.Page(alice.ID, &before, 10)
	require.NoError(t, err)
	require.True(t, complete)
	require.Len(t, notifs, 3)
	require.Equal(t, int64(102), notifs[0].CreatedAt)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")
	notif := st.Notifications.Add(alice.ID, models.NotifDM, uuid.New(), "bob")

	marked, err := st.Notifications.MarkRead(notif.ID, alice.ID)
	require.NoError(t, err)
	require.True(t, marked.Read)

	again, err := st.Notifications.MarkRead(notif.ID, alice.ID)
	require.NoError(t, err)
	require.True(t, again.Read)
}

func TestMarkReadHidesOtherUsersNotifications(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")
	bob := registerUser(t, st, "bob")
	notif := st.Notifications.Add(alice.ID, models.NotifDM, uuid.New(), "bob")

	_, err := st.Notifications.MarkRead(notif.ID, bob.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = st.Notifications.MarkRead(uuid.New(), alice.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNotificationsScopedToUser(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")
	bob := registerUser(t, st, "bob")

	st.Notifications.Add(alice.ID, models.NotifDM, uuid.New(), "bob")

	notifs, _, err := st.Notifications.Page(bob.ID, nil, 10)
	require.NoError(t, err)
	require.Empty(t, notifs)
}
