package handlers

import (
	"errors"

	"github.com/y4my4my4m/nexus-sync/internal/hub"
	"github.com/y4my4my4m/nexus-sync/internal/models"
	"github.com/y4my4my4m/nexus-sync/internal/protocol"
	"github.com/y4my4my4m/nexus-sync/internal/store"
	"github.com/y4my4my4m/nexus-sync/internal/validator"
)

func handleRegister(client *hub.Client, m *protocol.Register) {
	if err := validate.Struct(m); err != nil {
		sendEvent(client, protocol.AuthFailure{Reason: "Invalid registration"})
		return
	}
	if err := validator.Username(m.Username); err != nil {
		sendEvent(client, protocol.AuthFailure{Reason: err.Error()})
		return
	}
	if err := validator.Password(m.Password, cfg.Security.MinPasswordLength, cfg.Security.RequireSecurePasswords); err != nil {
		sendEvent(client, protocol.AuthFailure{Reason: err.Error()})
		return
	}

	user, err := st.Users.Register(m.Username, m.Password)
	if err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			sendEvent(client, protocol.AuthFailure{Reason: "Username is already taken"})
		} else {
			sugar.Error(err)
			sendEvent(client, protocol.AuthFailure{Reason: "Registration failed"})
		}
		return
	}

	// public servers take every new account
	for _, server := range st.Servers.ListPublic() {
		if _, err := st.Servers.AddMember(server.ID, user.ID); err != nil {
			sugar.Error(err)
		}
	}

	sugar.Infof("Registered user [%s] as %s", user.Username, user.ID)
	completeAuth(client, user)
}

func handleLogin(client *hub.Client, m *protocol.Login) {
	user, err := st.Users.Authenticate(m.Username, m.Password)
	if err != nil {
		sugar.Debugf("Session ID %d failed login for [%s]: %v", client.SessionID, m.Username, err)
		sendEvent(client, protocol.AuthFailure{Reason: "Invalid username or password"})
		return
	}

	completeAuth(client, user)
}

func handleAuthenticate(client *hub.Client, m *protocol.Authenticate) {
	claims, err := issuer.Verify(m.Token)
	if err != nil {
		sugar.Debugf("Session ID %d presented a bad token: %v", client.SessionID, err)
		sendEvent(client, protocol.AuthFailure{Reason: "Invalid session token"})
		return
	}

	user, err := st.Users.Get(claims.UserID)
	if err != nil {
		sendEvent(client, protocol.AuthFailure{Reason: "Unknown user"})
		return
	}

	completeAuth(client, user)
}

// completeAuth flips the user Connected, binds the session, answers with
// AuthSuccess, then replays anything that arrived while they were away.
func completeAuth(client *hub.Client, user models.User) {
	user, err := st.Users.UpdateStatus(user.ID, models.StatusConnected)
	if err != nil {
		sugar.Error(err)
		sendEvent(client, protocol.AuthFailure{Reason: "Login failed"})
		return
	}

	if err := h.Authenticate(client, user.ID); err != nil {
		sugar.Error(err)
		sendEvent(client, protocol.AuthFailure{Reason: "Login failed"})
		return
	}

	sessionToken, err := issuer.Create(user.ID)
	if err != nil {
		sugar.Error(err)
		sendEvent(client, protocol.AuthFailure{Reason: "Login failed"})
		return
	}

	sendEvent(client, protocol.AuthSuccess{User: user, Token: sessionToken})

	if err := h.Emit(hub.TopicGlobal, protocol.UserJoined{User: user.Info()}); err != nil {
		sugar.Error(err)
	}

	for _, invite := range st.Invites.PendingFor(user.ID) {
		sendEvent(client, protocol.IncomingServerInvite{Invite: invite})
	}
}

// handleLogout only closes the session; the disconnect path owns the
// status flip and the UserLeft broadcast so they happen exactly once.
func handleLogout(client *hub.Client) {
	sugar.Debugf("User %s logged out", client.UserID())
	client.Close()
}
