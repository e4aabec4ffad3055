package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/y4my4my4m/nexus-sync/internal/models"
	"github.com/y4my4my4m/nexus-sync/internal/pagination"
)

func appendChannelMessages(st *Store, channelID uuid.UUID, timestamps ...int64) []models.ChannelMessage {
	msgs := make([]models.ChannelMessage, len(timestamps))
	for i, ts := range timestamps {
		msgs[i] = models.ChannelMessage{
			ID:        uuid.New(),
			ChannelID: channelID,
			Timestamp: ts,
			Content:   "msg",
		}
		st.Messages.AppendChannelMessage(msgs[i])
	}
	return msgs
}

func TestChannelPageNewestFirst(t *testing.T) {
	st := newTestStore(t)
	channelID := uuid.New()
	msgs := appendChannelMessages(st, channelID, 100, 101, 102, 103, 104)

	page, err := st.Messages.ChannelPage(channelID, models.StartCursor(), models.Backward, 2)
	require.NoError(t, err)
	require.Equal(t, msgs[4].ID, page.Items[0].ID)
	require.Equal(t, msgs[3].ID, page.Items[1].ID)
	require.True(t, page.HasMore)
	require.Equal(t, 5, page.TotalCount)
}

func TestChannelMessageCursorLegacyDialect(t *testing.T) {
	st := newTestStore(t)
	channelID := uuid.New()
	msgs := appendChannelMessages(st, channelID, 10, 20, 30)

	cursor, err := st.Messages.ChannelMessageCursor(channelID, msgs[1].ID)
	require.NoError(t, err)

	page, err := st.Messages.ChannelPage(channelID, cursor, models.Backward, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, msgs[0].ID, page.Items[0].ID)
	require.False(t, page.HasMore)
}

func TestChannelMessageCursorUnknownID(t *testing.T) {
	st := newTestStore(t)
	channelID := uuid.New()
	appendChannelMessages(st, channelID, 10)

	_, err := st.Messages.ChannelMessageCursor(channelID, uuid.New())
	require.ErrorIs(t, err, pagination.ErrBadCursor)
}

func TestAppendOutOfOrderKeepsAscending(t *testing.T) {
	st := newTestStore(t)
	channelID := uuid.New()
	appendChannelMessages(st, channelID, 30, 10, 20)

	page, err := st.Messages.ChannelPage(channelID, models.StartCursor(), models.Backward, 10)
	require.NoError(t, err)
	require.Equal(t, int64(30), page.Items[0].Timestamp)
	require.Equal(t, int64(20), page.Items[1].Timestamp)
	require.Equal(t, int64(10), page.Items[2].Timestamp)
}

func TestDMConversationSharedBothWays(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")
	bob := registerUser(t, st, "bob")

	st.Messages.AppendDirectMessage(models.DirectMessage{
		ID: uuid.New(), From: alice.ID, To: bob.ID, Timestamp: 100, Content: "hi",
	})
	st.Messages.AppendDirectMessage(models.DirectMessage{
		ID: uuid.New(), From: bob.ID, To: alice.ID, Timestamp: 101, Content: "yo",
	})

	fromAlice, err := st.Messages.DMPage(alice.ID, bob.ID, models.StartCursor(), models.Backward, 10)
	require.NoError(t, err)
	fromBob, err := st.Messages.DMPage(bob.ID, alice.ID, models.StartCursor(), models.Backward, 10)
	require.NoError(t, err)

	require.Len(t, fromAlice.Items, 2)
	require.Equal(t, fromAlice.Items, fromBob.Items)
}

func TestDMPartners(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")
	bob := registerUser(t, st, "bob")
	carol := registerUser(t, st, "carol")

	st.Messages.AppendDirectMessage(models.DirectMessage{
		ID: uuid.New(), From: alice.ID, To: bob.ID, Timestamp: 1,
	})
	st.Messages.AppendDirectMessage(models.DirectMessage{
		ID: uuid.New(), From: carol.ID, To: alice.ID, Timestamp: 2,
	})

	partners := st.Messages.DMPartners(alice.ID)
	require.ElementsMatch(t, []uuid.UUID{bob.ID, carol.ID}, partners)

	require.ElementsMatch(t, []uuid.UUID{alice.ID}, st.Messages.DMPartners(bob.ID))
	require.Empty(t, st.Messages.DMPartners(uuid.New()))
}
