package handlers

import (
	"errors"

	"github.com/google/uuid"

	"github.com/y4my4my4m/nexus-sync/internal/hub"
	"github.com/y4my4my4m/nexus-sync/internal/models"
	"github.com/y4my4my4m/nexus-sync/internal/protocol"
	"github.com/y4my4my4m/nexus-sync/internal/store"
)

func handleSendServerInvite(client *hub.Client, m *protocol.SendServerInvite) {
	inviter, err := st.Users.Get(client.UserID())
	if err != nil {
		sugar.Error(err)
		sendNotice(client, "Couldn't send invite", true)
		return
	}

	server, err := st.Servers.Get(m.ServerID)
	if err != nil {
		sendNotice(client, "No such server", true)
		return
	}
	if !st.Servers.IsMember(server.ID, inviter.ID) {
		sendNotice(client, "You're not a member of this server", true)
		return
	}
	if _, err := st.Users.Get(m.To); err != nil {
		sendNotice(client, "No such user", true)
		return
	}
	if m.To == inviter.ID {
		sendNotice(client, "You can't invite yourself", true)
		return
	}
	if st.Servers.IsMember(server.ID, m.To) {
		sendNotice(client, "Already a member of this server", true)
		return
	}

	invite, err := st.Invites.Send(inviter, m.To, server)
	if err != nil {
		if errors.Is(err, store.ErrDuplicatePendingInvite) {
			sendNotice(client, "Invite already pending", true)
			return
		}
		sugar.Error(err)
		sendNotice(client, "Couldn't send invite", true)
		return
	}

	if err := h.EmitToUser(m.To, protocol.IncomingServerInvite{Invite: invite}); err != nil {
		sugar.Error(err)
	}

	notif := st.Notifications.Add(m.To, models.NotifServerInvite, invite.ID, server.Name)
	pushNotification(m.To, notif)

	sendNotice(client, "Invite sent", false)
}

func handleRespondToServerInvite(client *hub.Client, m *protocol.RespondToServerInvite) {
	invite, server, err := st.RespondToInvite(m.InviteID, client.UserID(), m.Accept)
	finishInviteResponse(client, invite, server, m.Accept, err)
}

// handleInviteFromUser resolves the pending invite by inviter identity, for
// clients that reply to an invite without knowing its id.
func handleInviteFromUser(client *hub.Client, from uuid.UUID, accept bool) {
	invite, server, err := st.RespondToInviteFromUser(from, client.UserID(), accept)
	finishInviteResponse(client, invite, server, accept, err)
}

func finishInviteResponse(client *hub.Client, invite models.ServerInvite, server models.Server, accepted bool, err error) {
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNoPendingInvite), errors.Is(err, store.ErrNotFound):
			sendNotice(client, "No pending invite", true)
		case errors.Is(err, store.ErrInviteResolved):
			sendNotice(client, "Invite already answered", true)
		case errors.Is(err, store.ErrNotAuthorized):
			sendNotice(client, "This invite isn't for you", true)
		default:
			// covers ErrAmbiguousPendingInvite and server lookup failures
			sugar.Error(err)
			sendNotice(client, "Couldn't respond to invite", true)
		}
		return
	}

	if err := h.EmitToUser(invite.From.ID, protocol.ServerInviteResponse{
		InviteID: invite.ID,
		By:       invite.To,
		Accepted: accepted,
	}); err != nil {
		sugar.Error(err)
	}

	if !accepted {
		sendNotice(client, "Invite declined", false)
		return
	}

	if info, ok := userInfoByID(invite.To); ok {
		if err := h.Emit(hub.TopicServer(server.ID), protocol.ServerMembershipChanged{
			ServerID: server.ID,
			User:     info,
			Joined:   true,
		}); err != nil {
			sugar.Error(err)
		}
	}

	if err := h.Subscribe(client, hub.TopicServer(server.ID)); err != nil {
		sugar.Error(err)
	}
	sendEvent(client, protocol.Servers{Servers: st.Servers.ListFor(invite.To)})
}
