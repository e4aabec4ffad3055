package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NotificationType is a closed set of kinds plus an open-ended "other:<tag>"
// escape hatch, so new client generations can introduce kinds old servers
// pass through untouched.
type NotificationType string

const (
	NotifThreadReply   NotificationType = "thread_reply"
	NotifDM            NotificationType = "dm"
	NotifAnnouncement  NotificationType = "announcement"
	NotifMention       NotificationType = "mention"
	NotifServerInvite  NotificationType = "server_invite"
	notifOtherPrefix                    = "other:"
)

func NotifOther(tag string) NotificationType {
	return NotificationType(notifOtherPrefix + tag)
}

func (t NotificationType) OtherTag() (string, bool) {
	return strings.CutPrefix(string(t), notifOtherPrefix)
}

func (t *NotificationType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = NotificationType(s)
		return nil
	}
	// legacy structured form: {"Other": "some-tag"}
	var structured struct {
		Other *string `json:"Other"`
	}
	if err := json.Unmarshal(data, &structured); err != nil || structured.Other == nil {
		return fmt.Errorf("unrecognized notification type %s", data)
	}
	*t = NotifOther(*structured.Other)
	return nil
}

// Notification is created exactly once per triggering event and mutated only
// to flip Read.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"userID"`
	Type      NotificationType `json:"type"`
	RelatedID uuid.UUID        `json:"relatedID"`
	CreatedAt int64            `json:"createdAt"`
	Read      bool             `json:"read"`
	Extra     string           `json:"extra,omitempty"`
}

func (n Notification) PageKey() (int64, uuid.UUID) { return n.CreatedAt, n.ID }

type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
	InviteExpired  InviteStatus = "expired"
)

// Terminal reports whether the status can never change again.
func (s InviteStatus) Terminal() bool { return s != InvitePending }

// ServerInvite carries a snapshot of the target server so the invitee can
// render it without being a member yet.
type ServerInvite struct {
	ID        uuid.UUID    `json:"id"`
	From      User         `json:"from"`
	To        uuid.UUID    `json:"to"`
	Server    Server       `json:"server"`
	Timestamp int64        `json:"timestamp"`
	Status    InviteStatus `json:"status"`
}
