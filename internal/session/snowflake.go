// Package session generates session identifiers for live connections.
// Sessions are transport-local, so a 64-bit snowflake (timestamp, worker,
// increment) is enough; entity ids elsewhere are UUIDs.
package session

import (
	"fmt"
	"sync"
	"time"
)

const (
	timestampLength int64 = 42
	timestampPos          = 64 - timestampLength
	workerLength    int64 = 10
	workerPos             = timestampPos - workerLength
	incrementLength       = 64 - (timestampLength + workerLength)

	maxWorkerValue    = 1<<workerLength - 1
	maxIncrementValue = 1<<incrementLength - 1
)

type Generator struct {
	mu            sync.Mutex
	workerID      int64
	lastTimestamp int64
	lastIncrement int64
}

func NewGenerator(workerID int64) (*Generator, error) {
	if workerID > maxWorkerValue || workerID < 0 {
		return nil, fmt.Errorf("worker ID %d is outside [0, %d]", workerID, maxWorkerValue)
	}
	return &Generator{workerID: workerID}, nil
}

func (g *Generator) Generate() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	timestamp := time.Now().UnixMilli()
	if timestamp == g.lastTimestamp {
		g.lastIncrement++
		if g.lastIncrement > maxIncrementValue {
			return 0, fmt.Errorf("increment overflow after %d ids in one millisecond", g.lastIncrement)
		}
	} else {
		g.lastIncrement = 0
		g.lastTimestamp = timestamp
	}

	return timestamp<<timestampPos | g.workerID<<workerPos | g.lastIncrement, nil
}

// Timestamp extracts the creation time of a session id.
func Timestamp(id int64) time.Time {
	return time.UnixMilli(id >> timestampPos)
}
