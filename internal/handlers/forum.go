package handlers

import (
	"errors"

	"github.com/google/uuid"

	"github.com/y4my4my4m/nexus-sync/internal/hub"
	"github.com/y4my4my4m/nexus-sync/internal/models"
	"github.com/y4my4my4m/nexus-sync/internal/protocol"
	"github.com/y4my4my4m/nexus-sync/internal/store"
)

func handleGetForums(client *hub.Client) {
	sendEvent(client, protocol.Forums{Forums: st.Forums.List()})
}

func handleCreateThread(client *hub.Client, m *protocol.CreateThread) {
	if m.Title == "" {
		sendNotice(client, "Thread needs a title", true)
		return
	}
	if reason, ok := checkMessageContent(m.Content); !ok {
		sendNotice(client, reason, true)
		return
	}

	author, err := st.Users.Get(client.UserID())
	if err != nil {
		sugar.Error(err)
		sendNotice(client, "Couldn't create thread", true)
		return
	}

	if _, err := st.Forums.CreateThread(m.ForumID, m.Title, m.Content, author); err != nil {
		sendNotice(client, "No such forum", true)
		return
	}

	sendEvent(client, protocol.Forums{Forums: st.Forums.List()})
}

func handleCreatePost(client *hub.Client, m *protocol.CreatePost) {
	if reason, ok := checkMessageContent(m.Content); !ok {
		sendNotice(client, reason, true)
		return
	}

	author, err := st.Users.Get(client.UserID())
	if err != nil {
		sugar.Error(err)
		sendNotice(client, "Couldn't create post", true)
		return
	}

	post, threadAuthorID, err := st.Forums.CreatePost(m.ThreadID, m.Content, m.ReplyTo, author)
	if err != nil {
		if errors.Is(err, store.ErrBadReplyTarget) {
			sendNotice(client, "Replied-to post is not in this thread", true)
		} else {
			sendNotice(client, "No such thread", true)
		}
		return
	}

	// one notification per triggering event: the thread author hears about
	// replies to their thread, mentioned users hear about the mention
	if threadAuthorID != author.ID {
		notif := st.Notifications.Add(threadAuthorID, models.NotifThreadReply, m.ThreadID, post.Content)
		pushNotification(threadAuthorID, notif)
	}
	notifyMentions(author, post.Content, post.ID)

	sendEvent(client, protocol.Forums{Forums: st.Forums.List()})
}

func handleDeletePost(client *hub.Client, m *protocol.DeletePost) {
	actor, err := st.Users.Get(client.UserID())
	if err != nil {
		sugar.Error(err)
		sendNotice(client, "Couldn't delete post", true)
		return
	}

	authorID, err := st.Forums.PostAuthor(m.PostID)
	if err != nil {
		sendNotice(client, "No such post", true)
		return
	}

	if authorID != actor.ID && !actor.Role.AtLeast(models.RoleModerator) {
		sendNotice(client, "You can't delete this post", true)
		return
	}

	if _, err := st.Forums.DeletePost(m.PostID); err != nil {
		sendNotice(client, "No such post", true)
		return
	}

	if cfg.Security.AuditLoggingEnabled {
		sugar.Infof("Post %s deleted by %s (%s)", m.PostID, actor.Username, actor.Role)
	}
	sendEvent(client, protocol.Forums{Forums: st.Forums.List()})
}

func handleDeleteThread(client *hub.Client, m *protocol.DeleteThread) {
	actor, err := st.Users.Get(client.UserID())
	if err != nil {
		sugar.Error(err)
		sendNotice(client, "Couldn't delete thread", true)
		return
	}

	if !actor.Role.AtLeast(models.RoleModerator) {
		sendNotice(client, "You can't delete threads", true)
		return
	}

	if err := st.Forums.DeleteThread(m.ThreadID); err != nil {
		sendNotice(client, "No such thread", true)
		return
	}

	if cfg.Security.AuditLoggingEnabled {
		sugar.Infof("Thread %s deleted by %s (%s)", m.ThreadID, actor.Username, actor.Role)
	}
	sendEvent(client, protocol.Forums{Forums: st.Forums.List()})
}

// notifyMentions scans content for @username references and notifies each
// mentioned user once.
func notifyMentions(author models.User, content string, relatedID uuid.UUID) {
	seen := map[string]struct{}{}
	for _, username := range scanMentions(content) {
		if _, dup := seen[username]; dup {
			continue
		}
		seen[username] = struct{}{}

		id, exists := st.Users.LookupID(username)
		if !exists || id == author.ID {
			continue
		}

		notif := st.Notifications.Add(id, models.NotifMention, relatedID, content)
		pushNotification(id, notif)
		if err := h.EmitToUser(id, protocol.MentionNotification{From: author.Info(), Content: content}); err != nil {
			sugar.Error(err)
		}
	}
}

func scanMentions(content string) []string {
	mentions := []string{}
	runes := []rune(content)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '@' {
			continue
		}
		j := i + 1
		for j < len(runes) && isMentionRune(runes[j]) {
			j++
		}
		if j > i+1 {
			mentions = append(mentions, string(runes[i+1:j]))
		}
		i = j - 1
	}
	return mentions
}

func isMentionRune(r rune) bool {
	return r == '_' || r == '-' || r == '.' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// pushNotification delivers a freshly created notification to the target's
// live sessions; offline users pick it up through GetNotifications.
func pushNotification(userID uuid.UUID, notif models.Notification) {
	err := h.EmitToUser(userID, protocol.Notifications{
		Notifications:   []models.Notification{notif},
		HistoryComplete: false,
	})
	if err != nil {
		sugar.Error(err)
	}
}
