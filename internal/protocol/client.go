package protocol

import (
	"github.com/google/uuid"

	"github.com/y4my4my4m/nexus-sync/internal/models"
)

// Client request tags. Tag strings match the variant names the first client
// generation shipped with, so every dialect decodes through the same table.
const (
	TypeRegister                    = "Register"
	TypeLogin                       = "Login"
	TypeAuthenticate                = "Authenticate"
	TypeLogout                      = "Logout"
	TypeUpdatePassword              = "UpdatePassword"
	TypeUpdateColor                 = "UpdateColor"
	TypeUpdateProfile               = "UpdateProfile"
	TypeUpdateStatus                = "UpdateStatus"
	TypeGetForums                   = "GetForums"
	TypeCreateThread                = "CreateThread"
	TypeCreatePost                  = "CreatePost"
	TypeDeletePost                  = "DeletePost"
	TypeDeleteThread                = "DeleteThread"
	TypeSendDirectMessage           = "SendDirectMessage"
	TypeSendChannelMessage          = "SendChannelMessage"
	TypeSendServerInvite            = "SendServerInvite"
	TypeRespondToServerInvite       = "RespondToServerInvite"
	TypeAcceptServerInviteFromUser  = "AcceptServerInviteFromUser"
	TypeDeclineServerInviteFromUser = "DeclineServerInviteFromUser"
	TypeGetUserList                 = "GetUserList"
	TypeGetProfile                  = "GetProfile"
	TypeGetServers                  = "GetServers"
	TypeGetChannelMessages          = "GetChannelMessages"
	TypeGetChannelHistory           = "GetChannelHistory"
	TypeGetChannelUserList          = "GetChannelUserList"
	TypeGetDMUserList               = "GetDMUserList"
	TypeGetDirectMessages           = "GetDirectMessages"
	TypeGetDMHistory                = "GetDMHistory"
	TypeGetNotifications            = "GetNotifications"
	TypeMarkNotificationRead        = "MarkNotificationRead"
	TypeInvalidateImageCache        = "InvalidateImageCache"
	TypeGetCacheStats               = "GetCacheStats"
	TypeGetAvatars                  = "GetAvatars"
)

type Register struct {
	Username string `json:"username" validate:"required,min=2,max=32"`
	Password string `json:"password" validate:"required"`
}

type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Authenticate resumes a session with the token handed out by AuthSuccess,
// so a reconnecting client skips the password round-trip.
type Authenticate struct {
	Token string `json:"token"`
}

type Logout struct{}

type UpdatePassword struct {
	Password string `json:"password"`
}

type UpdateColor struct {
	Color models.Color `json:"color"`
}

type UpdateProfile struct {
	Bio         *string `json:"bio,omitempty"`
	URL1        *string `json:"url1,omitempty"`
	URL2        *string `json:"url2,omitempty"`
	URL3        *string `json:"url3,omitempty"`
	Location    *string `json:"location,omitempty"`
	ProfilePic  *string `json:"profilePic,omitempty"`
	CoverBanner *string `json:"coverBanner,omitempty"`
}

type UpdateStatus struct {
	Status models.UserStatus `json:"status"`
}

type GetForums struct{}

type CreateThread struct {
	ForumID uuid.UUID `json:"forumID"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
}

type CreatePost struct {
	ThreadID uuid.UUID  `json:"threadID"`
	Content  string     `json:"content"`
	ReplyTo  *uuid.UUID `json:"replyTo,omitempty"`
}

type DeletePost struct {
	PostID uuid.UUID `json:"postID"`
}

type DeleteThread struct {
	ThreadID uuid.UUID `json:"threadID"`
}

type SendDirectMessage struct {
	To      uuid.UUID `json:"to"`
	Content string    `json:"content"`
}

type SendChannelMessage struct {
	ChannelID uuid.UUID `json:"channelID"`
	Content   string    `json:"content"`
}

type SendServerInvite struct {
	To       uuid.UUID `json:"to"`
	ServerID uuid.UUID `json:"serverID"`
}

type RespondToServerInvite struct {
	InviteID uuid.UUID `json:"inviteID"`
	Accept   bool      `json:"accept"`
}

// AcceptServerInviteFromUser resolves the single pending invite from the
// named inviter, used by inline reply commands that don't know invite ids.
type AcceptServerInviteFromUser struct {
	From uuid.UUID `json:"from"`
}

type DeclineServerInviteFromUser struct {
	From uuid.UUID `json:"from"`
}

type GetUserList struct{}

type GetProfile struct {
	UserID uuid.UUID `json:"userID"`
}

type GetServers struct{}

// GetChannelMessages is the legacy dialect: a bare optional message id,
// meaning "the page of messages older than this one".
type GetChannelMessages struct {
	ChannelID uuid.UUID  `json:"channelID"`
	Before    *uuid.UUID `json:"before,omitempty"`
}

// GetChannelHistory is the cursor dialect of the same intent.
type GetChannelHistory struct {
	ChannelID uuid.UUID        `json:"channelID"`
	Cursor    models.Cursor    `json:"cursor"`
	Direction models.Direction `json:"direction"`
	Limit     int              `json:"limit,omitempty"`
}

type GetChannelUserList struct {
	ChannelID uuid.UUID `json:"channelID"`
}

type GetDMUserList struct{}

// GetDirectMessages is the legacy dialect, paginated by bare timestamp.
type GetDirectMessages struct {
	UserID uuid.UUID `json:"userID"`
	Before *int64    `json:"before,omitempty"`
}

type GetDMHistory struct {
	UserID    uuid.UUID        `json:"userID"`
	Cursor    models.Cursor    `json:"cursor"`
	Direction models.Direction `json:"direction"`
	Limit     int              `json:"limit,omitempty"`
}

type GetNotifications struct {
	Before *int64 `json:"before,omitempty"`
}

type MarkNotificationRead struct {
	NotificationID uuid.UUID `json:"notificationID"`
}

type InvalidateImageCache struct {
	Keys []string `json:"keys"`
}

type GetCacheStats struct{}

type GetAvatars struct {
	UserIDs []uuid.UUID `json:"userIDs"`
}
