package protocol

import (
	"github.com/google/uuid"

	"github.com/y4my4my4m/nexus-sync/internal/models"
)

// Server event tags.
const (
	TypeAuthSuccess             = "AuthSuccess"
	TypeAuthFailure             = "AuthFailure"
	TypeForums                  = "Forums"
	TypeNewDirectMessage        = "DirectMessage"
	TypeMentionNotification     = "MentionNotification"
	TypeNotice                  = "Notification"
	TypeUserList                = "UserList"
	TypeUserJoined              = "UserJoined"
	TypeUserLeft                = "UserLeft"
	TypeProfile                 = "Profile"
	TypeUserUpdated             = "UserUpdated"
	TypeServers                 = "Servers"
	TypeNewChannelMessage       = "NewChannelMessage"
	TypeChannelMessages         = "ChannelMessages"
	TypeChannelUserList         = "ChannelUserList"
	TypeDMUserList              = "DMUserList"
	TypeDirectMessages          = "DirectMessages"
	TypeNotifications           = "Notifications"
	TypeNotificationUpdated     = "NotificationUpdated"
	TypeIncomingServerInvite    = "ServerInvite"
	TypeServerInviteResponse    = "ServerInviteResponse"
	TypeServerMembershipChanged = "ServerMembershipChanged"
	TypeImageCacheInvalidated   = "ImageCacheInvalidated"
	TypeCacheStats              = "CacheStats"
	TypeAvatars                 = "Avatars"
)

type AuthSuccess struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type AuthFailure struct {
	Reason string `json:"reason"`
}

type Forums struct {
	Forums []models.ForumLightweight `json:"forums"`
}

type NewDirectMessage struct {
	Message models.DirectMessage `json:"message"`
}

type MentionNotification struct {
	From    models.UserInfo `json:"from"`
	Content string          `json:"content"`
}

// Notice is the user-visible soft failure/status line. It never carries
// internal detail; invariant violations arrive here as a generic error.
type Notice struct {
	Message string `json:"message"`
	IsError bool   `json:"isError"`
}

type UserList struct {
	Users []models.UserInfo `json:"users"`
}

type UserJoined struct {
	User models.UserInfo `json:"user"`
}

type UserLeft struct {
	UserID uuid.UUID `json:"userID"`
}

type Profile struct {
	Profile models.UserProfile `json:"profile"`
}

type UserUpdated struct {
	User models.User `json:"user"`
}

type Servers struct {
	Servers []models.Server `json:"servers"`
}

type NewChannelMessage struct {
	Message models.ChannelMessage `json:"message"`
}

type ChannelMessages struct {
	ChannelID       uuid.UUID               `json:"channelID"`
	Messages        []models.ChannelMessage `json:"messages"`
	HistoryComplete bool                    `json:"historyComplete"`
	NextCursor      models.Cursor           `json:"nextCursor,omitempty"`
	PrevCursor      models.Cursor           `json:"prevCursor,omitempty"`
	TotalCount      int                     `json:"totalCount,omitempty"`
}

type ChannelUserList struct {
	ChannelID uuid.UUID     `json:"channelID"`
	Users     []models.User `json:"users"`
}

type DMUserList struct {
	Users []models.UserInfo `json:"users"`
}

type DirectMessages struct {
	UserID          uuid.UUID              `json:"userID"`
	Messages        []models.DirectMessage `json:"messages"`
	HistoryComplete bool                   `json:"historyComplete"`
	NextCursor      models.Cursor          `json:"nextCursor,omitempty"`
	PrevCursor      models.Cursor          `json:"prevCursor,omitempty"`
}

type Notifications struct {
	Notifications   []models.Notification `json:"notifications"`
	HistoryComplete bool                  `json:"historyComplete"`
}

type NotificationUpdated struct {
	NotificationID uuid.UUID `json:"notificationID"`
	Read           bool      `json:"read"`
}

type IncomingServerInvite struct {
	Invite models.ServerInvite `json:"invite"`
}

// ServerInviteResponse is delivered to the inviter exactly once per invite
// resolution.
type ServerInviteResponse struct {
	InviteID uuid.UUID `json:"inviteID"`
	By       uuid.UUID `json:"by"`
	Accepted bool      `json:"accepted"`
}

type ServerMembershipChanged struct {
	ServerID uuid.UUID       `json:"serverID"`
	User     models.UserInfo `json:"user"`
	Joined   bool            `json:"joined"`
}

// ImageCacheInvalidated acknowledges an InvalidateImageCache request with
// the subset of keys the cache actually recognized.
type ImageCacheInvalidated struct {
	Keys []string `json:"keys"`
}

type CacheStats struct {
	Entries  int     `json:"entries"`
	SizeMB   float64 `json:"sizeMB"`
	HitRatio float64 `json:"hitRatio"`
	Expired  int     `json:"expired"`
}

type Avatars struct {
	Avatars map[uuid.UUID]string `json:"avatars"`
}
