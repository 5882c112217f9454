package app

import (
	"strconv"
	"sync"
	"time"
)

var (
	idMu         sync.Mutex
	lastIssuedID int64
)

// newID mints an opaque entity id: the millisecond Unix timestamp as a
// decimal string, bumped forward when two ids would land in the same
// millisecond. Existing stored ids use the same shape, but nothing parses
// them back; they are only compared for equality.
func newID() string {
	idMu.Lock()
	defer idMu.Unlock()

	now := time.Now().UnixMilli()
	if now <= lastIssuedID {
		now = lastIssuedID + 1
	}
	lastIssuedID = now
	return strconv.FormatInt(now, 10)
}
