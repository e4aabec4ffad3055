// Package protocol defines the two tagged unions exchanged between clients
// and the synchronization core, and the envelope codec that frames them.
// The vocabulary evolves additively: old request dialects stay decodable
// next to their replacements, and fields a peer doesn't know decode to
// defaults instead of failing the envelope.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownType = errors.New("unknown message type")

type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

var clientMessages = map[string]func() any{
	TypeRegister:                    func() any { return new(Register) },
	TypeLogin:                       func() any { return new(Login) },
	TypeAuthenticate:                func() any { return new(Authenticate) },
	TypeLogout:                      func() any { return new(Logout) },
	TypeUpdatePassword:              func() any { return new(UpdatePassword) },
	TypeUpdateColor:                 func() any { return new(UpdateColor) },
	TypeUpdateProfile:               func() any { return new(UpdateProfile) },
	TypeUpdateStatus:                func() any { return new(UpdateStatus) },
	TypeGetForums:                   func() any { return new(GetForums) },
	TypeCreateThread:                func() any { return new(CreateThread) },
	TypeCreatePost:                  func() any { return new(CreatePost) },
	TypeDeletePost:                  func() any { return new(DeletePost) },
	TypeDeleteThread:                func() any { return new(DeleteThread) },
	TypeSendDirectMessage:           func() any { return new(SendDirectMessage) },
	TypeSendChannelMessage:          func() any { return new(SendChannelMessage) },
	TypeSendServerInvite:            func() any { return new(SendServerInvite) },
	TypeRespondToServerInvite:       func() any { return new(RespondToServerInvite) },
	TypeAcceptServerInviteFromUser:  func() any { return new(AcceptServerInviteFromUser) },
	TypeDeclineServerInviteFromUser: func() any { return new(DeclineServerInviteFromUser) },
	TypeGetUserList:                 func() any { return new(GetUserList) },
	TypeGetProfile:                  func() any { return new(GetProfile) },
	TypeGetServers:                  func() any { return new(GetServers) },
	TypeGetChannelMessages:          func() any { return new(GetChannelMessages) },
	TypeGetChannelHistory:           func() any { return new(GetChannelHistory) },
	TypeGetChannelUserList:          func() any { return new(GetChannelUserList) },
	TypeGetDMUserList:               func() any { return new(GetDMUserList) },
	TypeGetDirectMessages:           func() any { return new(GetDirectMessages) },
	TypeGetDMHistory:                func() any { return new(GetDMHistory) },
	TypeGetNotifications:            func() any { return new(GetNotifications) },
	TypeMarkNotificationRead:        func() any { return new(MarkNotificationRead) },
	TypeInvalidateImageCache:        func() any { return new(InvalidateImageCache) },
	TypeGetCacheStats:               func() any { return new(GetCacheStats) },
	TypeGetAvatars:                  func() any { return new(GetAvatars) },
}

// DecodeClient parses one client request envelope and returns a pointer to
// the typed request struct. Fields absent from the payload keep their zero
// values, which is what keeps removed-field dialects decodable.
func DecodeClient(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", err)
	}

	ctor, ok := clientMessages[env.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}

	msg := ctor()
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, msg); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Type, err)
		}
	}
	return msg, nil
}

// Encode frames a server event into an envelope. Unknown event types are a
// programming error.
func Encode(msg any) ([]byte, error) {
	tag, err := TagOf(msg)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Envelope{Type: tag, Data: data})
}

// TagOf maps a message value to its wire tag.
func TagOf(msg any) (string, error) {
	switch msg.(type) {
	case *AuthSuccess, AuthSuccess:
		return TypeAuthSuccess, nil
	case *AuthFailure, AuthFailure:
		return TypeAuthFailure, nil
	case *Forums, Forums:
		return TypeForums, nil
	case *NewDirectMessage, NewDirectMessage:
		return TypeNewDirectMessage, nil
	case *MentionNotification, MentionNotification:
		return TypeMentionNotification, nil
	case *Notice, Notice:
		return TypeNotice, nil
	case *UserList, UserList:
		return TypeUserList, nil
	case *UserJoined, UserJoined:
		return TypeUserJoined, nil
	case *UserLeft, UserLeft:
		return TypeUserLeft, nil
	case *Profile, Profile:
		return TypeProfile, nil
	case *UserUpdated, UserUpdated:
		return TypeUserUpdated, nil
	case *Servers, Servers:
		return TypeServers, nil
	case *NewChannelMessage, NewChannelMessage:
		return TypeNewChannelMessage, nil
	case *ChannelMessages, ChannelMessages:
		return TypeChannelMessages, nil
	case *ChannelUserList, ChannelUserList:
		return TypeChannelUserList, nil
	case *DMUserList, DMUserList:
		return TypeDMUserList, nil
	case *DirectMessages, DirectMessages:
		return TypeDirectMessages, nil
	case *Notifications, Notifications:
		return TypeNotifications, nil
	case *NotificationUpdated, NotificationUpdated:
		return TypeNotificationUpdated, nil
	case *IncomingServerInvite, IncomingServerInvite:
		return TypeIncomingServerInvite, nil
	case *ServerInviteResponse, ServerInviteResponse:
		return TypeServerInviteResponse, nil
	case *ServerMembershipChanged, ServerMembershipChanged:
		return TypeServerMembershipChanged, nil
	case *ImageCacheInvalidated, ImageCacheInvalidated:
		return TypeImageCacheInvalidated, nil
	case *CacheStats, CacheStats:
		return TypeCacheStats, nil
	case *Avatars, Avatars:
		return TypeAvatars, nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnknownType, msg)
	}
}
