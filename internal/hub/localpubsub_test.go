package hub

import (
	"slices"
	"testing"

	"github.com/google/uuid"
)

func TestSubscribeAndFanOut(t *testing.T) {
	ps := NewLocalPubSub()
	ps.Subscribe("global", 1)
	ps.Subscribe("global", 2)
	ps.Subscribe("channel:x", 2)

	subs := ps.Subscribers("global")
	slices.Sort(subs)
	if !slices.Equal(subs, []int64{1, 2}) {
		t.Errorf("global subscribers = %v, want [1 2]", subs)
	}

	if subs := ps.Subscribers("channel:x"); !slices.Equal(subs, []int64{2}) {
		t.Errorf("channel subscribers = %v, want [2]", subs)
	}

	if subs := ps.Subscribers("nobody"); len(subs) != 0 {
		t.Errorf("unknown topic must have no subscribers, got %v", subs)
	}
}

func TestSubscribeIsIdempotent(t *testing.T) {
	ps := NewLocalPubSub()
	ps.Subscribe("global", 1)
	ps.Subscribe("global", 1)

	if subs := ps.Subscribers("global"); len(subs) != 1 {
		t.Errorf("duplicate subscribe must not duplicate delivery, got %v", subs)
	}
}

func TestUnsubscribe(t *testing.T) {
	ps := NewLocalPubSub()
	ps.Subscribe("global", 1)
	ps.Subscribe("global", 2)

	ps.Unsubscribe("global", 1)
	if subs := ps.Subscribers("global"); !slices.Equal(subs, []int64{2}) {
		t.Errorf("subscribers = %v, want [2]", subs)
	}

	// unsubscribing an absent session is a no-op
	ps.Unsubscribe("global", 99)
	ps.Unsubscribe("ghost-topic", 1)
}

func TestUnsubscribeAll(t *testing.T) {
	ps := NewLocalPubSub()
	ps.Subscribe("global", 1)
	ps.Subscribe("channel:x", 1)
	ps.Subscribe("channel:x", 2)

	ps.UnsubscribeAll(1)

	if subs := ps.Subscribers("global"); len(subs) != 0 {
		t.Errorf("session still subscribed to global: %v", subs)
	}
	if subs := ps.Subscribers("channel:x"); !slices.Equal(subs, []int64{2}) {
		t.Errorf("channel subscribers = %v, want [2]", subs)
	}
}

func TestTopicNames(t *testing.T) {
	// topic naming is part of the redis wire contract between nodes
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	if got := TopicUser(id); got != "user:6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Errorf("TopicUser = %q", got)
	}
	if got := TopicChannel(id); got != "channel:6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Errorf("TopicChannel = %q", got)
	}
	if got := TopicServer(id); got != "server:6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Errorf("TopicServer = %q", got)
	}
	if TopicGlobal != "global" {
		t.Errorf("TopicGlobal = %q", TopicGlobal)
	}
}
