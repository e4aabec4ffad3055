package store

import (
	"bytes"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/y4my4my4m/nexus-sync/internal/models"
	"github.com/y4my4my4m/nexus-sync/internal/pagination"
)

// MessageTable keeps per-collection history in ascending (timestamp, id)
// order. Appends and pagination reads on one collection exclude each other
// through the table lock, which is what keeps the no-skip/no-duplicate
// guarantee intact under concurrent writers.
type MessageTable struct {
	mu        sync.RWMutex
	byChannel map[uuid.UUID][]models.ChannelMessage
	dms       map[dmKey][]models.DirectMessage
	partners  map[uuid.UUID]map[uuid.UUID]struct{}
	rec       Recorder
}

// dmKey identifies a DM conversation regardless of direction.
type dmKey struct {
	low, high uuid.UUID
}

func makeDMKey(a, b uuid.UUID) dmKey {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return dmKey{low: a, high: b}
}

func newMessageTable(rec Recorder) *MessageTable {
	return &MessageTable{
		byChannel: make(map[uuid.UUID][]models.ChannelMessage),
		dms:       make(map[dmKey][]models.DirectMessage),
		partners:  make(map[uuid.UUID]map[uuid.UUID]struct{}),
		rec:       rec,
	}
}

func (t *MessageTable) AppendChannelMessage(msg models.ChannelMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.byChannel[msg.ChannelID] = insertOrdered(t.byChannel[msg.ChannelID], msg)
	if t.rec != nil {
		t.rec.SaveChannelMessage(msg)
	}
}

func (t *MessageTable) AppendDirectMessage(msg models.DirectMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := makeDMKey(msg.From, msg.To)
	t.dms[key] = insertOrdered(t.dms[key], msg)
	t.notePartner(msg.From, msg.To)
	t.notePartner(msg.To, msg.From)
	if t.rec != nil {
		t.rec.SaveDirectMessage(msg)
	}
}

func (t *MessageTable) notePartner(owner, partner uuid.UUID) {
	set, exists := t.partners[owner]
	if !exists {
		set = make(map[uuid.UUID]struct{})
		t.partners[owner] = set
	}
	set[partner] = struct{}{}
}

func (t *MessageTable) ChannelPage(channelID uuid.UUID, cursor models.Cursor, dir models.Direction, limit int) (pagination.Page[models.ChannelMessage], error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return pagination.Paginate(t.byChannel[channelID], cursor, dir, limit)
}

func (t *MessageTable) DMPage(a, b uuid.UUID, cursor models.Cursor, dir models.Direction, limit int) (pagination.Page[models.DirectMessage], error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return pagination.Paginate(t.dms[makeDMKey(a, b)], cursor, dir, limit)
}

// RestoreChannelMessage installs persisted history without re-recording it.
func (t *MessageTable) RestoreChannelMessage(msg models.ChannelMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.byChannel[msg.ChannelID] = insertOrdered(t.byChannel[msg.ChannelID], msg)
}

func (t *MessageTable) RestoreDirectMessage(msg models.DirectMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := makeDMKey(msg.From, msg.To)
	t.dms[key] = insertOrdered(t.dms[key], msg)
	t.notePartner(msg.From, msg.To)
	t.notePartner(msg.To, msg.From)
}

// ChannelMessageCursor maps a message id from the legacy "before this
// message" dialect to its position cursor. An unknown id is an explicit
// error so the caller can't misread a restarted sequence as fresh data.
func (t *MessageTable) ChannelMessageCursor(channelID, messageID uuid.UUID) (models.Cursor, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, msg := range t.byChannel[channelID] {
		if msg.ID == messageID {
			return models.TimestampCursor(msg.Timestamp, msg.ID), nil
		}
	}
	return models.Cursor{}, pagination.ErrBadCursor
}

// DMPartners lists the users this user has a DM history with.
func (t *MessageTable) DMPartners(userID uuid.UUID) []uuid.UUID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(t.partners[userID]))
	for id := range t.partners[userID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	return ids
}

// insertOrdered keeps slices ascending by (timestamp, id). The common case
// is an append at the live end; the binary search only matters when
// restored history interleaves with live traffic.
func insertOrdered[T pagination.Item](items []T, item T) []T {
	ts, id := item.PageKey()
	idx := sort.Search(len(items), func(i int) bool {
		its, iid := items[i].PageKey()
		if its != ts {
			return its > ts
		}
		return bytes.Compare(iid[:], id[:]) > 0
	})

	items = append(items, item)
	copy(items[idx+1:], items[idx:])
	items[idx] = item
	return items
}
