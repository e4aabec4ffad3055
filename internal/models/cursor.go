package models

import "github.com/google/uuid"

type CursorKind string

const (
	CursorStart     CursorKind = "start"
	CursorTimestamp CursorKind = "timestamp"
	CursorOffset    CursorKind = "offset"
)

// Cursor marks a position in an ordered history. Clients treat it as opaque
// and hand it back verbatim; only the server interprets it. The ID field
// refines a timestamp cursor so equal-timestamp items still have a total
// order.
type Cursor struct {
	Kind      CursorKind `json:"kind"`
	Timestamp int64      `json:"timestamp,omitempty"`
	ID        uuid.UUID  `json:"id,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}

func StartCursor() Cursor {
	return Cursor{Kind: CursorStart}
}

func TimestampCursor(ts int64, id uuid.UUID) Cursor {
	return Cursor{Kind: CursorTimestamp, Timestamp: ts, ID: id}
}

func OffsetCursor(n int) Cursor {
	return Cursor{Kind: CursorOffset, Offset: n}
}

func (c Cursor) IsZero() bool { return c.Kind == "" }

type Direction string

const (
	Backward Direction = "backward" // toward older items
	Forward  Direction = "forward"  // toward newer items
)
