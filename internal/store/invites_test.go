package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/y4my4my4m/nexus-sync/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(zap.NewNop().Sugar(), nil)
}

func registerUser(t *testing.T, st *Store, username string) models.User {
	t.Helper()
	user, err := st.Users.Register(username, "hunter2secret")
	require.NoError(t, err)
	return user
}

func createServer(t *testing.T, st *Store, owner uuid.UUID, name string) models.Server {
	t.Helper()
	return st.Servers.Create(models.Server{
		Name:  name,
		Owner: owner,
		Channels: []models.Channel{
			{Name: "general"},
		},
	})
}

func TestSendInviteRejectsDuplicatePending(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")
	bob := registerUser(t, st, "bob")
	server := createServer(t, st, alice.ID, "den")

	_, err := st.Invites.Send(alice, bob.ID, server)
	require.NoError(t, err)

	_, err = st.Invites.Send(alice, bob.ID, server)
	require.ErrorIs(t, err, ErrDuplicatePendingInvite)
}

func TestSendInviteAllowedAgainAfterResolution(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")
	bob := registerUser(t, st, "bob")
	server := createServer(t, st, alice.ID, "den")

	invite, err := st.Invites.Send(alice, bob.ID, server)
	require.NoError(t, err)

	_, err = st.Invites.Respond(invite.ID, bob.ID, false)
	require.NoError(t, err)

	_, err = st.Invites.Send(alice, bob.ID, server)
	require.NoError(t, err)
}

func TestAcceptAddsMemberToServerAndFirstChannel(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")
	bob := registerUser(t, st, "bob")
	server := createServer(t, st, alice.ID, "den")

	invite, err := st.Invites.Send(alice, bob.ID, server)
	require.NoError(t, err)

	resolved, updated, err := st.RespondToInvite(invite.ID, bob.ID, true)
	require.NoError(t, err)
	require.Equal(t, models.InviteAccepted, resolved.Status)

	require.Contains(t, updated.Userlist, bob.ID)
	require.Contains(t, updated.Channels[0].Userlist, bob.ID)
	require.Contains(t, updated.Channels[0].Permissions.CanRead, bob.ID)
	require.Contains(t, updated.Channels[0].Permissions.CanWrite, bob.ID)
}

func TestDeclineDoesNotAddMember(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")
	bob := registerUser(t, st, "bob")
	server := createServer(t, st, alice.ID, "den")

	invite, err := st.Invites.Send(alice, bob.ID, server)
	require.NoError(t, err)

	resolved, _, err := st.RespondToInvite(invite.ID, bob.ID, false)
	require.NoError(t, err)
	require.Equal(t, models.InviteDeclined, resolved.Status)
	require.False(t, st.Servers.IsMember(server.ID, bob.ID))
}

func TestSecondResponseFailsResolved(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")
	bob := registerUser(t, st, "bob")
	server := createServer(t, st, alice.ID, "den")

	invite, err := st.Invites.Send(alice, bob.ID, server)
	require.NoError(t, err)

	_, _, err = st.RespondToInvite(invite.ID, bob.ID, true)
	require.NoError(t, err)

	_, _, err = st.RespondToInvite(invite.ID, bob.ID, false)
	require.ErrorIs(t, err, ErrInviteResolved)
}

func TestOnlyInviteeMayRespond(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")
	bob := registerUser(t, st, "bob")
	eve := registerUser(t, st, "eve")
	server := createServer(t, st, alice.ID, "den")

	invite, err := st.Invites.Send(alice, bob.ID, server)
	require.NoError(t, err)

	_, err = st.Invites.Respond(invite.ID, eve.ID, true)
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestRespondByInviterResolvesDeterministically(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")
	bob := registerUser(t, st, "bob")
	server := createServer(t, st, alice.ID, "den")

	invite, err := st.Invites.Send(alice, bob.ID, server)
	require.NoError(t, err)

	resolved, _, err := st.RespondToInviteFromUser(alice.ID, bob.ID, true)
	require.NoError(t, err)
	require.Equal(t, invite.ID, resolved.ID)

	_, _, err = st.RespondToInviteFromUser(alice.ID, bob.ID, true)
	require.ErrorIs(t, err, ErrNoPendingInvite)
}

func TestRespondByInviterRejectsAmbiguity(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")
	bob := registerUser(t, st, "bob")
	first := createServer(t, st, alice.ID, "den")
	second := createServer(t, st, alice.ID, "attic")

	_, err := st.Invites.Send(alice, bob.ID, first)
	require.NoError(t, err)
	_, err = st.Invites.Send(alice, bob.ID, second)
	require.NoError(t, err)

	_, _, err = st.RespondToInviteFromUser(alice.ID, bob.ID, true)
	require.ErrorIs(t, err, ErrAmbiguousPendingInvite)
}

func TestExpireBeforeSweepsStalePending(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")
	bob := registerUser(t, st, "bob")
	server := createServer(t, st, alice.ID, "den")

	invite, err := st.Invites.Send(alice, bob.ID, server)
	require.NoError(t, err)

	expired := st.Invites.ExpireBefore(time.Now().Add(time.Minute))
	require.Len(t, expired, 1)
	require.Equal(t, invite.ID, expired[0].ID)
	require.Equal(t, models.InviteExpired, expired[0].Status)

	// the sweep resolves toward the inviter, so the returned invite must
	// still identify both ends
	require.Equal(t, alice.ID, expired[0].From.ID)
	require.Equal(t, bob.ID, expired[0].To)

	// expiry is terminal
	_, err = st.Invites.Respond(invite.ID, bob.ID, true)
	require.ErrorIs(t, err, ErrInviteResolved)

	// and frees the pending slot
	_, err = st.Invites.Send(alice, bob.ID, server)
	require.NoError(t, err)
}

func TestPendingForListsOnlyPending(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")
	bob := registerUser(t, st, "bob")
	first := createServer(t, st, alice.ID, "den")
	second := createServer(t, st, alice.ID, "attic")

	kept, err := st.Invites.Send(alice, bob.ID, first)
	require.NoError(t, err)
	declined, err := st.Invites.Send(alice, bob.ID, second)
	require.NoError(t, err)

	_, err = st.Invites.Respond(declined.ID, bob.ID, false)
	require.NoError(t, err)

	pending := st.Invites.PendingFor(bob.ID)
	require.Len(t, pending, 1)
	require.Equal(t, kept.ID, pending[0].ID)
}
