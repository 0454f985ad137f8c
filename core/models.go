package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored session records.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Query is one probe string sent to the suggestion endpoint.
type Query string

func (q Query) String() string { return string(q) }

// RawImage is the optional image descriptor attached to a raw item.
type RawImage struct {
	URL    string `json:"imageUrl"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// RawItem is a loosely typed record returned by the remote endpoint.
// No field is guaranteed to be present; everything must be read defensively.
type RawItem struct {
	ID    string    `json:"id"`
	Label string    `json:"l"`
	Kind  string    `json:"q"`
	Year  *int      `json:"y"`
	Rank  *int      `json:"rank"`
	Image *RawImage `json:"i"`
}

// RawSuggestion is the payload of one suggest lookup.
// An absent or malformed payload is treated as "no data", never as an error.
type RawSuggestion struct {
	D []RawItem `json:"d"`
}

// Entry is a normalized, deduplicated result record.
type Entry struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Kind        string  `json:"kind"`
	Year        *int    `json:"year"`
	Rank        *int    `json:"rank"`
	Href        string  `json:"href"`
	ImageURL    *string `json:"image_url"`
	ImageWidth  *int    `json:"image_width"`
	ImageHeight *int    `json:"image_height"`
}

// Catalog is the ordered, deduplicated set of entries produced by one session.
// Entries are sorted ascending by rank with missing ranks last, and Count
// always equals len(Entries).
type Catalog struct {
	Count   int     `json:"count"`
	Entries []Entry `json:"entries"`
}

// ProgressEvent reports fractional completion of one fetch session.
// Percent is round(Completed/Total*100) and is non-decreasing within a session.
type ProgressEvent struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// SessionMeta describes the inputs of one completed session.
type SessionMeta struct {
	Query         string    `json:"query"`
	UseVariations bool      `json:"use_variations"`
	WantImages    bool      `json:"want_images"`
	Timestamp     time.Time `json:"timestamp"`
}

// DedupID returns the content-hashed identity of this session's inputs.
// Two sessions with the same query and flags share one history slot.
func (m *SessionMeta) DedupID() ID {
	content := m.Query + "|" + strconv.FormatBool(m.UseVariations) + "|" + strconv.FormatBool(m.WantImages)
	return IDFromContent(content)
}

// HistoryRecord is one entry of the capped, deduplicated session history.
type HistoryRecord struct {
	Id          ID          `json:"id"`
	Meta        SessionMeta `json:"meta"`
	ResultCount int         `json:"result_count"`
}
