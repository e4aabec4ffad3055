package handlers

import (
	"github.com/google/uuid"

	"github.com/y4my4my4m/nexus-sync/internal/hub"
	"github.com/y4my4my4m/nexus-sync/internal/models"
	"github.com/y4my4my4m/nexus-sync/internal/protocol"
	"github.com/y4my4my4m/nexus-sync/internal/store"
	"github.com/y4my4my4m/nexus-sync/internal/validator"
)

func handleUpdatePassword(client *hub.Client, m *protocol.UpdatePassword) {
	if err := validator.Password(m.Password, cfg.Security.MinPasswordLength, cfg.Security.RequireSecurePasswords); err != nil {
		sendNotice(client, err.Error(), true)
		return
	}

	if err := st.Users.UpdatePassword(client.UserID(), m.Password); err != nil {
		sugar.Error(err)
		sendNotice(client, "Couldn't update password", true)
		return
	}
	sendNotice(client, "Password updated", false)
}

func handleUpdateColor(client *hub.Client, m *protocol.UpdateColor) {
	if !m.Color.Valid() {
		sendNotice(client, "Unrecognized color", true)
		return
	}

	user, err := st.Users.UpdateColor(client.UserID(), m.Color)
	if err != nil {
		sugar.Error(err)
		sendNotice(client, "Couldn't update color", true)
		return
	}
	broadcastUserUpdate(user)
}

func handleUpdateProfile(client *hub.Client, m *protocol.UpdateProfile) {
	user, err := st.Users.UpdateProfile(client.UserID(), store.ProfileUpdate{
		Bio:         m.Bio,
		URL1:        m.URL1,
		URL2:        m.URL2,
		URL3:        m.URL3,
		Location:    m.Location,
		ProfilePic:  m.ProfilePic,
		CoverBanner: m.CoverBanner,
	})
	if err != nil {
		sugar.Error(err)
		sendNotice(client, "Couldn't update profile", true)
		return
	}

	// a changed avatar invalidates what other clients have cached for it
	if m.ProfilePic != nil {
		imgCache.Invalidate([]string{user.ID.String()})
	}
	broadcastUserUpdate(user)
}

func handleUpdateStatus(client *hub.Client, m *protocol.UpdateStatus) {
	if !m.Status.Valid() {
		sendNotice(client, "Unrecognized status", true)
		return
	}

	user, err := st.Users.UpdateStatus(client.UserID(), m.Status)
	if err != nil {
		sugar.Error(err)
		sendNotice(client, "Couldn't update status", true)
		return
	}
	broadcastUserUpdate(user)
}

func broadcastUserUpdate(user models.User) {
	if err := h.Emit(hub.TopicGlobal, protocol.UserUpdated{User: user}); err != nil {
		sugar.Error(err)
	}
}

// handleGetUserList answers with the currently connected users.
func handleGetUserList(client *hub.Client) {
	users := []models.UserInfo{}
	for _, id := range h.ConnectedUsers() {
		user, err := st.Users.Get(id)
		if err != nil {
			continue
		}
		users = append(users, user.Info())
	}
	sendEvent(client, protocol.UserList{Users: users})
}

func handleGetProfile(client *hub.Client, m *protocol.GetProfile) {
	profile, err := st.Users.Profile(m.UserID)
	if err != nil {
		sendNotice(client, "No such user", true)
		return
	}
	sendEvent(client, protocol.Profile{Profile: profile})
}

func handleGetAvatars(client *hub.Client, m *protocol.GetAvatars) {
	avatars := st.Users.Avatars(m.UserIDs)
	for id := range avatars {
		imgCache.Put(id.String(), int64(len(avatars[id])))
	}
	sendEvent(client, protocol.Avatars{Avatars: avatars})
}

func userInfoByID(id uuid.UUID) (models.UserInfo, bool) {
	user, err := st.Users.Get(id)
	if err != nil {
		return models.UserInfo{}, false
	}
	return user.Info(), true
}
