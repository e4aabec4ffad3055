package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/y4my4my4m/nexus-sync/internal/models"
)

func TestRegisterRejectsTakenUsername(t *testing.T) {
	st := newTestStore(t)
	registerUser(t, st, "alice")

	_, err := st.Users.Register("alice", "anotherpassword")
	require.ErrorIs(t, err, ErrUsernameTaken)

	// case-insensitive
	_, err = st.Users.Register("ALICE", "anotherpassword")
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthenticate(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")

	user, err := st.Users.Authenticate("alice", "hunter2secret")
	require.NoError(t, err)
	require.Equal(t, alice.ID, user.ID)

	_, err = st.Users.Authenticate("alice", "wrong")
	require.ErrorIs(t, err, ErrBadCredentials)

	_, err = st.Users.Authenticate("nobody", "hunter2secret")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestProfileNeverExposesHash(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")

	profile, err := st.Users.Profile(alice.ID)
	require.NoError(t, err)
	require.Nil(t, profile.Hash)
}

func TestUpdatePasswordReplacesHash(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")

	require.NoError(t, st.Users.UpdatePassword(alice.ID, "newerpassword"))

	_, err := st.Users.Authenticate("alice", "hunter2secret")
	require.ErrorIs(t, err, ErrBadCredentials)

	_, err = st.Users.Authenticate("alice", "newerpassword")
	require.NoError(t, err)
}

func TestUpdateProfilePartial(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")

	bio := "hello"
	user, err := st.Users.UpdateProfile(alice.ID, ProfileUpdate{Bio: &bio})
	require.NoError(t, err)

	profile, err := st.Users.Profile(user.ID)
	require.NoError(t, err)
	require.Equal(t, "hello", profile.Bio)

	// absent fields stay untouched
	loc := "basement"
	_, err = st.Users.UpdateProfile(alice.ID, ProfileUpdate{Location: &loc})
	require.NoError(t, err)

	profile, err = st.Users.Profile(alice.ID)
	require.NoError(t, err)
	require.Equal(t, "hello", profile.Bio)
	require.Equal(t, "basement", profile.Location)
}

func TestUpdateStatus(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")

	user, err := st.Users.UpdateStatus(alice.ID, models.StatusAway)
	require.NoError(t, err)
	require.Equal(t, models.StatusAway, user.Status)
}

func TestAvatarsReturnsOnlyKnownUsers(t *testing.T) {
	st := newTestStore(t)
	alice := registerUser(t, st, "alice")

	pic := "data:image/png;base64,xyzzy"
	_, err := st.Users.UpdateProfile(alice.ID, ProfileUpdate{ProfilePic: &pic})
	require.NoError(t, err)

	bob := registerUser(t, st, "bob")

	avatars := st.Users.Avatars([]uuid.UUID{alice.ID, bob.ID, uuid.New()})
	require.Equal(t, pic, avatars[alice.ID])
	require.NotContains(t, avatars, uuid.Nil)
	require.Len(t, avatars, 2)
}
