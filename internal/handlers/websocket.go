package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/y4my4my4m/nexus-sync/internal/hub"
	"github.com/y4my4my4m/nexus-sync/internal/models"
	"github.com/y4my4my4m/nexus-sync/internal/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

func HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.SessionCount() >= cfg.Network.MaxConnections {
		http.Error(w, "Server is full", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		sugar.Error(err)
		return
	}

	client, err := h.Register(conn)
	if err != nil {
		sugar.Error(err)
		conn.Close()
		return
	}
	defer disconnect(client)

	idleTimeout := time.Duration(cfg.Network.ConnectionTimeoutSeconds) * time.Second
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(idleTimeout))
	})

	for {
		if err := conn.SetReadDeadline(time.Now().Add(idleTimeout)); err != nil {
			return
		}
		_, raw, err := conn.ReadMessage()
		if err != nil {
			sugar.Debugf("Session ID %d read loop ended: %v", client.SessionID, err)
			return
		}
		dispatch(client, raw)
	}
}

// disconnect tears the session down and, when it was the user's last one,
// flips their status to Offline and broadcasts the departure.
func disconnect(client *hub.Client) {
	userID := client.UserID()
	h.Unregister(client)

	if userID == uuid.Nil {
		return
	}

	for _, connected := range h.ConnectedUsers() {
		if connected == userID {
			return // another session keeps the user Connected
		}
	}

	if _, err := st.Users.UpdateStatus(userID, models.StatusOffline); err != nil {
		sugar.Error(err)
		return
	}
	if err := h.Emit(hub.TopicGlobal, protocol.UserLeft{UserID: userID}); err != nil {
		sugar.Error(err)
	}
}

func dispatch(client *hub.Client, raw []byte) {
	msg, err := protocol.DecodeClient(raw)
	if err != nil {
		sugar.Debugf("Session ID %d sent an undecodable request: %v", client.SessionID, err)
		sendNotice(client, "Unrecognized request", true)
		return
	}

	// the auth handshake is the only unauthenticated surface
	switch m := msg.(type) {
	case *protocol.Register:
		handleRegister(client, m)
		return
	case *protocol.Login:
		handleLogin(client, m)
		return
	case *protocol.Authenticate:
		handleAuthenticate(client, m)
		return
	}

	if client.UserID() == uuid.Nil {
		sendEvent(client, protocol.AuthFailure{Reason: "Not logged in"})
		return
	}

	switch m := msg.(type) {
	case *protocol.Logout:
		handleLogout(client)
	case *protocol.UpdatePassword:
		handleUpdatePassword(client, m)
	case *protocol.UpdateColor:
		handleUpdateColor(client, m)
	case *protocol.UpdateProfile:
		handleUpdateProfile(client, m)
	case *protocol.UpdateStatus:
		handleUpdateStatus(client, m)
	case *protocol.GetForums:
		handleGetForums(client)
	case *protocol.CreateThread:
		handleCreateThread(client, m)
	case *protocol.CreatePost:
		handleCreatePost(client, m)
	case *protocol.DeletePost:
		handleDeletePost(client, m)
	case *protocol.DeleteThread:
		handleDeleteThread(client, m)
	case *protocol.SendDirectMessage:
		handleSendDirectMessage(client, m)
	case *protocol.SendChannelMessage:
		handleSendChannelMessage(client, m)
	case *protocol.SendServerInvite:
		handleSendServerInvite(client, m)
	case *protocol.RespondToServerInvite:
		handleRespondToServerInvite(client, m)
	case *protocol.AcceptServerInviteFromUser:
		handleInviteFromUser(client, m.From, true)
	case *protocol.DeclineServerInviteFromUser:
		handleInviteFromUser(client, m.From, false)
	case *protocol.GetUserList:
		handleGetUserList(client)
	case *protocol.GetProfile:
		handleGetProfile(client, m)
	case *protocol.GetServers:
		handleGetServers(client)
	case *protocol.GetChannelMessages:
		handleGetChannelMessages(client, m)
	case *protocol.GetChannelHistory:
		handleGetChannelHistory(client, m)
	case *protocol.GetChannelUserList:
		handleGetChannelUserList(client, m)
	case *protocol.GetDMUserList:
		handleGetDMUserList(client)
	case *protocol.GetDirectMessages:
		handleGetDirectMessages(client, m)
	case *protocol.GetDMHistory:
		handleGetDMHistory(client, m)
	case *protocol.GetNotifications:
		handleGetNotifications(client, m)
	case *protocol.MarkNotificationRead:
		handleMarkNotificationRead(client, m)
	case *protocol.InvalidateImageCache:
		handleInvalidateImageCache(client, m)
	case *protocol.GetCacheStats:
		handleGetCacheStats(client)
	case *protocol.GetAvatars:
		handleGetAvatars(client, m)
	default:
		sugar.Errorf("Session ID %d sent a decoded but unhandled request %T", client.SessionID, msg)
		sendNotice(client, "Unrecognized request", true)
	}
}

func sendEvent(client *hub.Client, event any) {
	if err := h.SendTo(client, event); err != nil {
		sugar.Error(err)
	}
}

func sendNotice(client *hub.Client, message string, isError bool) {
	sendEvent(client, protocol.Notice{Message: message, IsError: isError})
}
