// Package pagination implements cursor-based, direction-aware retrieval over
// ordered history collections (channel messages, direct messages,
// notifications). Collections are snapshots sorted ascending by
// (timestamp, id); paginating with the returned next cursor walks the whole
// collection with no item repeated and none skipped, even while the live end
// keeps growing.
package pagination

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/y4my4my4m/nexus-sync/internal/models"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

var ErrBadCursor = errors.New("unrecognized pagination cursor")

// Item is anything positioned on the (timestamp, id) ordering key.
type Item interface {
	PageKey() (int64, uuid.UUID)
}

type Page[T Item] struct {
	Items      []T
	HasMore    bool
	NextCursor models.Cursor // continues the scan in the requested direction
	PrevCursor models.Cursor // re-enters the scan from the opposite direction
	TotalCount int
}

// keyLess orders by timestamp first, id second. A nil id sorts before every
// real id at the same timestamp, which makes legacy "before this timestamp"
// cursors exclusive of the whole timestamp.
func keyLess(ts1 int64, id1 uuid.UUID, ts2 int64, id2 uuid.UUID) bool {
	if ts1 != ts2 {
		return ts1 < ts2
	}
	return bytes.Compare(id1[:], id2[:]) < 0
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Paginate returns one page of items from a snapshot sorted ascending by
// (timestamp, id). Backward pages are returned newest first, Forward pages
// oldest first. The cursor is exclusive: the item it names is never part of
// the page it produces.
func Paginate[T Item](items []T, cursor models.Cursor, dir models.Direction, limit int) (Page[T], error) {
	limit = clampLimit(limit)

	var eligible []T
	switch cursor.Kind {
	case models.CursorStart, "":
		eligible = items
	case models.CursorTimestamp:
		idx := searchKey(items, cursor.Timestamp, cursor.ID, dir)
		if dir == models.Forward {
			eligible = items[idx:]
		} else {
			eligible = items[:idx]
		}
	case models.CursorOffset:
		if cursor.Offset < 0 {
			return Page[T]{}, fmt.Errorf("%w: negative offset %d", ErrBadCursor, cursor.Offset)
		}
		n := cursor.Offset
		if n > len(items) {
			n = len(items)
		}
		if dir == models.Forward {
			eligible = items[n:]
		} else {
			eligible = items[:len(items)-n]
		}
	default:
		return Page[T]{}, fmt.Errorf("%w: kind %q", ErrBadCursor, cursor.Kind)
	}

	page := Page[T]{TotalCount: len(items)}

	if dir == models.Forward {
		page.HasMore = len(eligible) > limit
		if page.HasMore {
			eligible = eligible[:limit]
		}
		page.Items = append([]T(nil), eligible...)
	} else {
		page.HasMore = len(eligible) > limit
		if page.HasMore {
			eligible = eligible[len(eligible)-limit:]
		}
		// newest first
		page.Items = make([]T, len(eligible))
		for i := range eligible {
			page.Items[len(eligible)-1-i] = eligible[i]
		}
	}

	if len(page.Items) > 0 {
		lastTs, lastID := page.Items[len(page.Items)-1].PageKey()
		firstTs, firstID := page.Items[0].PageKey()
		page.NextCursor = models.TimestampCursor(lastTs, lastID)
		page.PrevCursor = models.TimestampCursor(firstTs, firstID)
	} else {
		page.NextCursor = cursor
		page.PrevCursor = cursor
	}

	return page, nil
}

// searchKey locates the cursor position. For Backward scans it returns the
// first index whose key is >= the cursor key (everything before it is
// strictly older); for Forward scans the first index whose key is > the
// cursor key.
func searchKey[T Item](items []T, ts int64, id uuid.UUID, dir models.Direction) int {
	return sort.Search(len(items), func(i int) bool {
		its, iid := items[i].PageKey()
		if dir == models.Forward {
			return keyLess(ts, id, its, iid)
		}
		return !keyLess(its, iid, ts, id)
	})
}

// FromLegacyBefore translates the older request dialect, which paginated
// with a bare optional timestamp, onto the cursor engine. An absent value
// means "from the newest end". The result must be used with a Backward scan.
func FromLegacyBefore(before *int64) models.Cursor {
	if before == nil {
		return models.StartCursor()
	}
	return models.TimestampCursor(*before, uuid.Nil)
}
