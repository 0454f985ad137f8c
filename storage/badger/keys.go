package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/titlescout/core"
)

// Key prefixes for different data types
const (
	latestCatalogKey = "cat:latest"
	latestMetaKey    = "meta:latest"
	historyPrefix    = "hist"
	historyIDPrefix  = "histid"
)

// makeHistoryKey generates a composite key for the history timeline.
// Format: prefix:timestamp:id
func makeHistoryKey(timestamp time.Time, id core.ID) []byte {
	prefix := historyPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialHistoryKey generates a partial key for timeline range scans.
// Format: prefix:timestamp
func makePartialHistoryKey(timestamp time.Time) []byte {
	prefix := historyPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}

// makeHistoryIDKey generates a key mapping a record's dedup ID to its
// current timeline slot.
func makeHistoryIDKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", historyIDPrefix, id))
}
