package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/y4my4my4m/nexus-sync/internal/models"
)

func TestDecodeClientKnownTypes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want any
	}{
		{
			name: "register",
			raw:  `{"type":"Register","data":{"username":"alice","password":"secretpass"}}`,
			want: &Register{Username: "alice", Password: "secretpass"},
		},
		{
			name: "login",
			raw:  `{"type":"Login","data":{"username":"alice","password":"secretpass"}}`,
			want: &Login{Username: "alice", Password: "secretpass"},
		},
		{
			name: "logout without payload",
			raw:  `{"type":"Logout"}`,
			want: &Logout{},
		},
		{
			name: "mark notification read",
			raw:  `{"type":"MarkNotificationRead","data":{"notificationID":"6ba7b810-9dad-11d1-80b4-00c04fd430c8"}}`,
			want: &MarkNotificationRead{NotificationID: uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeClient([]byte(tt.raw))
			if err != nil {
				t.Fatal(err)
			}
			gotJSON, _ := json.Marshal(got)
			wantJSON, _ := json.Marshal(tt.want)
			if string(gotJSON) != string(wantJSON) {
				t.Errorf("got %s, want %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestDecodeClientUnknownTypeFails(t *testing.T) {
	_, err := DecodeClient([]byte(`{"type":"SelfDestruct","data":{}}`))
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}

func TestDecodeClientMalformedEnvelopeFails(t *testing.T) {
	if _, err := DecodeClient([]byte(`{"type":`)); err == nil {
		t.Error("expected error for truncated envelope")
	}
	if _, err := DecodeClient([]byte(`{"type":"Login","data":"not an object"}`)); err == nil {
		t.Error("expected error for mistyped payload")
	}
}

// Unknown fields must decode to defaults so newer clients keep working
// against this node.
func TestDecodeClientIgnoresUnknownFields(t *testing.T) {
	raw := `{"type":"Login","data":{"username":"alice","password":"pw","futureFlag":true}}`
	got, err := DecodeClient([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	login, ok := got.(*Login)
	if !ok {
		t.Fatalf("expected *Login, got %T", got)
	}
	if login.Username != "alice" || login.Password != "pw" {
		t.Errorf("unexpected decode: %+v", login)
	}
}

func TestDecodeClientAbsentFieldsDefault(t *testing.T) {
	got, err := DecodeClient([]byte(`{"type":"GetNotifications","data":{}}`))
	if err != nil {
		t.Fatal(err)
	}
	req := got.(*GetNotifications)
	if req.Before != nil {
		t.Errorf("expected nil Before, got %v", *req.Before)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	event := Notice{Message: "Invite sent", IsError: false}
	raw, err := Encode(event)
	if err != nil {
		t.Fatal(err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatal(err)
	}
	if env.Type != TypeNotice {
		t.Errorf("expected tag %q, got %q", TypeNotice, env.Type)
	}

	var decoded Notice
	if err := json.Unmarshal(env.Data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded != event {
		t.Errorf("got %+v, want %+v", decoded, event)
	}
}

func TestEncodeUnknownTypeFails(t *testing.T) {
	if _, err := Encode(struct{ X int }{1}); !errors.Is(err, ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}

// Legacy tag spellings stay pinned; renaming one breaks every old client.
func TestWireTagSpellings(t *testing.T) {
	tests := []struct {
		event any
		tag   string
	}{
		{Notice{}, "Notification"},
		{NewDirectMessage{}, "DirectMessage"},
		{IncomingServerInvite{}, "ServerInvite"},
		{NewChannelMessage{}, "NewChannelMessage"},
		{AuthSuccess{}, "AuthSuccess"},
	}

	for _, tt := range tests {
		tag, err := TagOf(tt.event)
		if err != nil {
			t.Fatal(err)
		}
		if tag != tt.tag {
			t.Errorf("%T: got tag %q, want %q", tt.event, tag, tt.tag)
		}
	}
}

func TestCursorFieldsTravelOpaque(t *testing.T) {
	req := GetChannelHistory{
		ChannelID: uuid.New(),
		Cursor:    models.TimestampCursor(123, uuid.New()),
		Direction: models.Backward,
		Limit:     25,
	}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}

	var back GetChannelHistory
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Cursor != req.Cursor || back.Direction != req.Direction || back.Limit != req.Limit {
		t.Errorf("cursor did not survive transport: %+v vs %+v", back, req)
	}
}
