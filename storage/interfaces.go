package storage

import (
	"context"

	"github.com/poiesic/titlescout/core"
)

// DefaultHistoryLimit caps the deduplicated session history.
const DefaultHistoryLimit = 15

// SessionRepository durably stores the latest published catalog, the latest
// session metadata, and a capped, deduplicated history of past sessions.
// Implementations must be safe for concurrent use.
type SessionRepository interface {
	// SaveLatest replaces the stored catalog and metadata wholesale.
	SaveLatest(ctx context.Context, catalog *core.Catalog, meta *core.SessionMeta) error

	// LatestCatalog retrieves the most recently saved catalog.
	// Returns ErrNotFound when no catalog has been saved yet.
	LatestCatalog(ctx context.Context) (*core.Catalog, error)

	// LatestMeta retrieves the most recently saved session metadata.
	// Returns ErrNotFound when no metadata has been saved yet.
	LatestMeta(ctx context.Context) (*core.SessionMeta, error)

	// AppendHistory prepends a record to the history list.
	// A record with the same dedup ID replaces its older slot, and the list
	// is truncated to the configured cap, newest first.
	AppendHistory(ctx context.Context, record *core.HistoryRecord) error

	// History retrieves up to limit history records, newest first.
	// A limit <= 0 falls back to the configured cap.
	History(ctx context.Context, limit int) ([]*core.HistoryRecord, error)

	// ClearHistory removes all history records.
	ClearHistory(ctx context.Context) error

	// Close releases repository resources.
	Close() error
}
