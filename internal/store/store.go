// Package store owns the authoritative in-memory state of the
// synchronization core: users, forums, servers/channels, message history,
// invites and notifications. Each table guards its state with its own lock;
// cross-references between tables are ids, resolved through the owning
// table. Connections never hold table state, only ids.
package store

import (
	"go.uber.org/zap"

	"github.com/google/uuid"

	"github.com/y4my4my4m/nexus-sync/internal/models"
)

// Recorder is the write-through hook to the persistence layer. Every method
// must be safe to call from under a table lock and must not block; the
// sqlite recorder queues and applies writes on its own goroutine. A nil
// Recorder disables persistence.
type Recorder interface {
	SaveUser(models.UserProfile)
	SaveForum(models.Forum)
	SaveServer(models.Server)
	SaveChannelMessage(models.ChannelMessage)
	SaveDirectMessage(models.DirectMessage)
	SaveInvite(models.ServerInvite)
	SaveNotification(models.Notification)
}

type Store struct {
	sugar *zap.SugaredLogger

	Users         *UserTable
	Forums        *ForumTable
	Servers       *ServerTable
	Messages      *MessageTable
	Invites       *InviteTable
	Notifications *NotificationTable
}

func New(sugar *zap.SugaredLogger, rec Recorder) *Store {
	return &Store{
		sugar:         sugar,
		Users:         newUserTable(rec),
		Forums:        newForumTable(rec),
		Servers:       newServerTable(rec),
		Messages:      newMessageTable(rec),
		Invites:       newInviteTable(rec),
		Notifications: newNotificationTable(rec),
	}
}

// RespondToInvite resolves an invite and, on acceptance, adds the invitee to
// the server's member list and its first channel's member list. The invite
// table commits the transition before membership changes, so a second
// response to the same invite always fails with ErrInviteResolved.
func (s *Store) RespondToInvite(inviteID uuid.UUID, by uuid.UUID, accept bool) (models.ServerInvite, models.Server, error) {
	invite, err := s.Invites.Respond(inviteID, by, accept)
	if err != nil {
		return models.ServerInvite{}, models.Server{}, err
	}

	if !accept {
		return invite, models.Server{}, nil
	}

	server, err := s.Servers.AddMember(invite.Server.ID, by)
	if err != nil {
		// the invite stays Accepted; the target server is simply gone
		s.sugar.Warnf("invite %s accepted but server %s is unavailable: %v", inviteID, invite.Server.ID, err)
		return invite, models.Server{}, err
	}

	return invite, server, nil
}

// RespondToInviteFromUser is the alternate entry point addressed by inviter
// identity. It resolves deterministically to the single pending invite
// between the pair, and refuses to guess when the uniqueness invariant has
// been violated upstream.
func (s *Store) RespondToInviteFromUser(inviter uuid.UUID, by uuid.UUID, accept bool) (models.ServerInvite, models.Server, error) {
	invite, err := s.Invites.ResolvePending(inviter, by)
	if err != nil {
		return models.ServerInvite{}, models.Server{}, err
	}
	return s.RespondToInvite(invite.ID, by, accept)
}
