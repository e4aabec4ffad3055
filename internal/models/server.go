package models

import "github.com/google/uuid"

type Server struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Public      bool        `json:"public"`
	InviteCode  string      `json:"inviteCode,omitempty"`
	Icon        string      `json:"icon,omitempty"`
	Banner      string      `json:"banner,omitempty"`
	Owner       uuid.UUID   `json:"owner"`
	Mods        []uuid.UUID `json:"mods"`
	Userlist    []uuid.UUID `json:"userlist"`
	Channels    []Channel   `json:"channels"`
}

type Channel struct {
	ID          uuid.UUID          `json:"id"`
	ServerID    uuid.UUID          `json:"serverID"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Permissions ChannelPermissions `json:"permissions"`
	Userlist    []uuid.UUID        `json:"userlist"`
}

type ChannelPermissions struct {
	CanRead  []uuid.UUID `json:"canRead"`
	CanWrite []uuid.UUID `json:"canWrite"`
}

// ChannelMessage is immutable once created. The author* fields are a
// snapshot of the sender at send time, not live-updated.
type ChannelMessage struct {
	ID               uuid.UUID `json:"id"`
	ChannelID        uuid.UUID `json:"channelID"`
	SentBy           uuid.UUID `json:"sentBy"`
	Timestamp        int64     `json:"timestamp"`
	Content          string    `json:"content"`
	AuthorUsername   string    `json:"authorUsername"`
	AuthorColor      Color     `json:"authorColor"`
	AuthorProfilePic string    `json:"authorProfilePic,omitempty"`
}

type DirectMessage struct {
	ID               uuid.UUID `json:"id"`
	From             uuid.UUID `json:"from"`
	To               uuid.UUID `json:"to"`
	Timestamp        int64     `json:"timestamp"`
	Content          string    `json:"content"`
	AuthorUsername   string    `json:"authorUsername"`
	AuthorColor      Color     `json:"authorColor"`
	AuthorProfilePic string    `json:"authorProfilePic,omitempty"`
}

func (m ChannelMessage) PageKey() (int64, uuid.UUID) { return m.Timestamp, m.ID }

func (m DirectMessage) PageKey() (int64, uuid.UUID) { return m.Timestamp, m.ID }
