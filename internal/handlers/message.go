package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/y4my4my4m/nexus-sync/internal/hub"
	"github.com/y4my4my4m/nexus-sync/internal/models"
	"github.com/y4my4my4m/nexus-sync/internal/pagination"
	"github.com/y4my4my4m/nexus-sync/internal/protocol"
)

// checkMessageContent enforces the moderation config on outgoing messages.
// Returns a user-facing reason when the message is rejected.
func checkMessageContent(content string) (string, bool) {
	if strings.TrimSpace(content) == "" {
		return "Message is empty", false
	}
	if limit := cfg.Moderation.MessageLengthLimit; limit > 0 && len(content) > limit {
		return "Message is too long", false
	}
	if cfg.Moderation.AutoModerationEnabled {
		lowered := strings.ToLower(content)
		for _, word := range cfg.Moderation.BlockedWords {
			if strings.Contains(lowered, strings.ToLower(word)) {
				return "Message blocked by moderation", false
			}
		}
	}
	return "", true
}

func handleSendChannelMessage(client *hub.Client, m *protocol.SendChannelMessage) {
	if reason, ok := checkMessageContent(m.Content); !ok {
		sendNotice(client, reason, true)
		return
	}

	author, err := st.Users.Get(client.UserID())
	if err != nil {
		sugar.Error(err)
		sendNotice(client, "Couldn't send message", true)
		return
	}

	if !st.Servers.CanWrite(m.ChannelID, author.ID) {
		sendNotice(client, "You can't write to this channel", true)
		return
	}

	msg := models.ChannelMessage{
		ID:               uuid.New(),
		ChannelID:        m.ChannelID,
		SentBy:           author.ID,
		Timestamp:        time.Now().UnixMilli(),
		Content:          m.Content,
		AuthorUsername:   author.Username,
		AuthorColor:      author.Color,
		AuthorProfilePic: author.ProfilePic,
	}
	st.Messages.AppendChannelMessage(msg)

	if err := h.Emit(hub.TopicChannel(m.ChannelID), protocol.NewChannelMessage{Message: msg}); err != nil {
		sugar.Error(err)
	}
	notifyMentions(author, m.Content, msg.ID)
}

func handleSendDirectMessage(client *hub.Client, m *protocol.SendDirectMessage) {
	if reason, ok := checkMessageContent(m.Content); !ok {
		sendNotice(client, reason, true)
		return
	}

	author, err := st.Users.Get(client.UserID())
	if err != nil {
		sugar.Error(err)
		sendNotice(client, "Couldn't send message", true)
		return
	}
	if _, err := st.Users.Get(m.To); err != nil {
		sendNotice(client, "No such user", true)
		return
	}
	if m.To == author.ID {
		sendNotice(client, "You can't message yourself", true)
		return
	}

	msg := models.DirectMessage{
		ID:               uuid.New(),
		From:             author.ID,
		To:               m.To,
		Timestamp:        time.Now().UnixMilli(),
		Content:          m.Content,
		AuthorUsername:   author.Username,
		AuthorColor:      author.Color,
		AuthorProfilePic: author.ProfilePic,
	}
	st.Messages.AppendDirectMessage(msg)

	event := protocol.NewDirectMessage{Message: msg}
	if err := h.EmitToUser(m.To, event); err != nil {
		sugar.Error(err)
	}
	if err := h.EmitToUser(author.ID, event); err != nil {
		sugar.Error(err)
	}

	notif := st.Notifications.Add(m.To, models.NotifDM, author.ID, author.Username)
	pushNotification(m.To, notif)
}

// handleGetChannelMessages answers the timestamp-anchored history fetch. The
// optional before field names the oldest message the client already has.
func handleGetChannelMessages(client *hub.Client, m *protocol.GetChannelMessages) {
	if !st.Servers.CanRead(m.ChannelID, client.UserID()) {
		sendNotice(client, "You can't read this channel", true)
		return
	}

	cursor := models.StartCursor()
	if m.Before != nil {
		var err error
		cursor, err = st.Messages.ChannelMessageCursor(m.ChannelID, *m.Before)
		if err != nil {
			sendNotice(client, "Invalid pagination cursor", true)
			return
		}
	}

	page, err := st.Messages.ChannelPage(m.ChannelID, cursor, models.Backward, pagination.DefaultLimit)
	if err != nil {
		sendNotice(client, "Invalid pagination cursor", true)
		return
	}

	if err := h.Subscribe(client, hub.TopicChannel(m.ChannelID)); err != nil {
		sugar.Error(err)
	}

	sendEvent(client, protocol.ChannelMessages{
		ChannelID:       m.ChannelID,
		Messages:        page.Items,
		HistoryComplete: !page.HasMore,
	})
}

func handleGetChannelHistory(client *hub.Client, m *protocol.GetChannelHistory) {
	if !st.Servers.CanRead(m.ChannelID, client.UserID()) {
		sendNotice(client, "You can't read this channel", true)
		return
	}

	page, err := st.Messages.ChannelPage(m.ChannelID, m.Cursor, m.Direction, m.Limit)
	if err != nil {
		if errors.Is(err, pagination.ErrBadCursor) {
			sendNotice(client, "Invalid pagination cursor", true)
			return
		}
		sugar.Error(err)
		sendNotice(client, "Couldn't fetch history", true)
		return
	}

	if err := h.Subscribe(client, hub.TopicChannel(m.ChannelID)); err != nil {
		sugar.Error(err)
	}

	sendEvent(client, protocol.ChannelMessages{
		ChannelID:       m.ChannelID,
		Messages:        page.Items,
		HistoryComplete: !page.HasMore,
		NextCursor:      page.NextCursor,
		PrevCursor:      page.PrevCursor,
		TotalCount:      page.TotalCount,
	})
}

func handleGetChannelUserList(client *hub.Client, m *protocol.GetChannelUserList) {
	if !st.Servers.CanRead(m.ChannelID, client.UserID()) {
		sendNotice(client, "You can't read this channel", true)
		return
	}

	ids, err := st.Servers.ChannelMembers(m.ChannelID)
	if err != nil {
		sendNotice(client, "No such channel", true)
		return
	}

	users := []models.User{}
	for _, id := range ids {
		user, err := st.Users.Get(id)
		if err != nil {
			continue
		}
		users = append(users, user)
	}
	sendEvent(client, protocol.ChannelUserList{ChannelID: m.ChannelID, Users: users})
}

// handleGetDMUserList answers with every user the requester has exchanged
// direct messages with.
func handleGetDMUserList(client *hub.Client) {
	users := []models.UserInfo{}
	for _, id := range st.Messages.DMPartners(client.UserID()) {
		if info, ok := userInfoByID(id); ok {
			users = append(users, info)
		}
	}
	sendEvent(client, protocol.DMUserList{Users: users})
}

func handleGetDirectMessages(client *hub.Client, m *protocol.GetDirectMessages) {
	cursor := pagination.FromLegacyBefore(m.Before)
	page, err := st.Messages.DMPage(client.UserID(), m.UserID, cursor, models.Backward, pagination.DefaultLimit)
	if err != nil {
		sendNotice(client, "Invalid pagination cursor", true)
		return
	}

	sendEvent(client, protocol.DirectMessages{
		UserID:          m.UserID,
		Messages:        page.Items,
		HistoryComplete: !page.HasMore,
	})
}

func handleGetDMHistory(client *hub.Client, m *protocol.GetDMHistory) {
	page, err := st.Messages.DMPage(client.UserID(), m.UserID, m.Cursor, m.Direction, m.Limit)
	if err != nil {
		if errors.Is(err, pagination.ErrBadCursor) {
			sendNotice(client, "Invalid pagination cursor", true)
			return
		}
		sugar.Error(err)
		sendNotice(client, "Couldn't fetch history", true)
		return
	}

	sendEvent(client, protocol.DirectMessages{
		UserID:          m.UserID,
		Messages:        page.Items,
		HistoryComplete: !page.HasMore,
		NextCursor:      page.NextCursor,
		PrevCursor:      page.PrevCursor,
	})
}
