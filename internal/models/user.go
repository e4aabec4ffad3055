package models

import (
	"github.com/google/uuid"
)

// UserRole is a total order: User < Moderator < Admin.
type UserRole int

const (
	RoleUser UserRole = iota
	RoleModerator
	RoleAdmin
)

func (r UserRole) String() string {
	switch r {
	case RoleModerator:
		return "moderator"
	case RoleAdmin:
		return "admin"
	default:
		return "user"
	}
}

func (r UserRole) AtLeast(other UserRole) bool {
	return r >= other
}

type UserStatus string

const (
	StatusConnected UserStatus = "connected"
	StatusAway      UserStatus = "away"
	StatusBusy      UserStatus = "busy"
	StatusOffline   UserStatus = "offline"
)

func (s UserStatus) Valid() bool {
	switch s {
	case StatusConnected, StatusAway, StatusBusy, StatusOffline:
		return true
	}
	return false
}

// User is the broadcastable view of an account. It never carries credentials.
type User struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Color       Color      `json:"color"`
	Role        UserRole   `json:"role"`
	ProfilePic  string     `json:"profilePic,omitempty"`
	CoverBanner string     `json:"coverBanner,omitempty"`
	Status      UserStatus `json:"status"`
}

// UserInfo is the projection of User used in lists and mentions, where
// shipping avatar payloads would be wasteful. Always derived, never stored.
type UserInfo struct {
	ID       uuid.UUID  `json:"id"`
	Username string     `json:"username"`
	Color    Color      `json:"color"`
	Role     UserRole   `json:"role"`
	Status   UserStatus `json:"status"`
}

func (u User) Info() UserInfo {
	return UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Color:    u.Color,
		Role:     u.Role,
		Status:   u.Status,
	}
}

// UserProfile is the full server-side account record. The credential hash is
// json-tagged out so it can never leak into an encoded event.
type UserProfile struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Hash        []byte     `json:"-"`
	Color       Color      `json:"color"`
	Role        UserRole   `json:"role"`
	Status      UserStatus `json:"status"`
	Bio         string     `json:"bio,omitempty"`
	URL1        string     `json:"url1,omitempty"`
	URL2        string     `json:"url2,omitempty"`
	URL3        string     `json:"url3,omitempty"`
	Location    string     `json:"location,omitempty"`
	ProfilePic  string     `json:"profilePic,omitempty"`
	CoverBanner string     `json:"coverBanner,omitempty"`
}

func (p UserProfile) User() User {
	return User{
		ID:          p.ID,
		Username:    p.Username,
		Color:       p.Color,
		Role:        p.Role,
		ProfilePic:  p.ProfilePic,
		CoverBanner: p.CoverBanner,
		Status:      p.Status,
	}
}
