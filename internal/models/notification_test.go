package models

import (
	"encoding/json"
	"testing"
)

func TestNotificationTypeUnmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want NotificationType
	}{
		{`"dm"`, NotifDM},
		{`"mention"`, NotifMention},
		{`"other:poke"`, NotifOther("poke")},
		{`{"Other":"poke"}`, NotifOther("poke")},
	}

	for _, tt := range tests {
		var got NotificationType
		if err := json.Unmarshal([]byte(tt.raw), &got); err != nil {
			t.Fatalf("%s: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.raw, got, tt.want)
		}
	}

	var got NotificationType
	if err := json.Unmarshal([]byte(`{"Wrong":"shape"}`), &got); err == nil {
		t.Error("expected error for unrecognized structured type")
	}
}

func TestNotificationTypeOtherTag(t *testing.T) {
	tag, ok := NotifOther("poke").OtherTag()
	if !ok || tag != "poke" {
		t.Errorf("got (%q, %v)", tag, ok)
	}
	if _, ok := NotifDM.OtherTag(); ok {
		t.Error("dm is not an other-type")
	}
}

func TestInviteStatusTerminal(t *testing.T) {
	if InvitePending.Terminal() {
		t.Error("pending must not be terminal")
	}
	for _, s := range []InviteStatus{InviteAccepted, InviteDeclined, InviteExpired} {
		if !s.Terminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
}
