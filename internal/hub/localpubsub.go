package hub

import "sync"

// LocalPubSub is the in-process fan-out used when no redis is configured:
// topic -> set of subscribed session ids.
type LocalPubSub struct {
	mu     sync.RWMutex
	topics map[string]map[int64]struct{}
}

func NewLocalPubSub() *LocalPubSub {
	return &LocalPubSub{topics: make(map[string]map[int64]struct{})}
}

func (ps *LocalPubSub) Subscribe(topic string, sessionID int64) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	set, exists := ps.topics[topic]
	if !exists {
		set = make(map[int64]struct{})
		ps.topics[topic] = set
	}
	set[sessionID] = struct{}{}
}

func (ps *LocalPubSub) Unsubscribe(topic string, sessionID int64) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.unsubscribeLocked(topic, sessionID)
}

func (ps *LocalPubSub) UnsubscribeAll(sessionID int64) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for topic := range ps.topics {
		ps.unsubscribeLocked(topic, sessionID)
	}
}

func (ps *LocalPubSub) unsubscribeLocked(topic string, sessionID int64) {
	set := ps.topics[topic]
	delete(set, sessionID)

	// drop the topic once nobody listens to it
	if len(set) == 0 {
		delete(ps.topics, topic)
	}
}

// Subscribers snapshots the session ids listening on a topic.
func (ps *LocalPubSub) Subscribers(topic string) []int64 {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	ids := make([]int64, 0, len(ps.topics[topic]))
	for id := range ps.topics[topic] {
		ids = append(ids, id)
	}
	return ids
}
