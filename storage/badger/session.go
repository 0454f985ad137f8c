// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/titlescout/core"
	"github.com/poiesic/titlescout/storage"
)

// maxHistoryTime is the reverse-iteration seek anchor for the timeline.
var maxHistoryTime = time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC)

// SessionRepository stores the latest catalog, the latest session metadata,
// and the capped deduplicated history in BadgerDB.
type SessionRepository struct {
	backend      *Backend
	historyLimit int
	logger       *slog.Logger
}

var _ storage.SessionRepository = (*SessionRepository)(nil)

// RepositoryOption configures a SessionRepository.
type RepositoryOption func(*SessionRepository) error

// WithHistoryLimit sets the history cap.
// Values below 1 fall back to the default.
func WithHistoryLimit(limit int) RepositoryOption {
	return func(r *SessionRepository) error {
		if limit < 1 {
			limit = storage.DefaultHistoryLimit
		}
		r.historyLimit = limit
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) RepositoryOption {
	return func(r *SessionRepository) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewSessionRepository creates a session repository over the backend.
func NewSessionRepository(backend *Backend, opts ...RepositoryOption) (*SessionRepository, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}

	r := &SessionRepository{
		backend:      backend,
		historyLimit: storage.DefaultHistoryLimit,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// SaveLatest replaces the stored catalog and metadata wholesale.
func (r *SessionRepository) SaveLatest(ctx context.Context, catalog *core.Catalog, meta *core.SessionMeta) error {
	if catalog == nil {
		return storage.ErrCatalogRequired
	}
	if meta == nil {
		return storage.ErrMetaRequired
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	catalogData, err := storage.MarshalCatalog(catalog)
	if err != nil {
		return err
	}
	metaData, err := storage.MarshalSessionMeta(meta)
	if err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(latestCatalogKey), catalogData); err != nil {
			return err
		}
		if err := tx.Set([]byte(latestMetaKey), metaData); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LatestCatalog retrieves the most recently saved catalog.
func (r *SessionRepository) LatestCatalog(ctx context.Context) (*core.Catalog, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var catalog *core.Catalog
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(latestCatalogKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			catalog, err = storage.UnmarshalCatalog(val)
			return err
		})
	}, false)
	return catalog, err
}

// LatestMeta retrieves the most recently saved session metadata.
func (r *SessionRepository) LatestMeta(ctx context.Context) (*core.SessionMeta, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var meta *core.SessionMeta
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(latestMetaKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			meta, err = storage.UnmarshalSessionMeta(val)
			return err
		})
	}, false)
	return meta, err
}

// AppendHistory prepends a record to the history timeline.
// A record with the same dedup ID replaces its older slot; the timeline is
// then truncated to the cap, dropping the oldest slots.
func (r *SessionRepository) AppendHistory(ctx context.Context, record *core.HistoryRecord) error {
	if record == nil {
		return storage.ErrRecordRequired
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	if record.Meta.Timestamp.IsZero() {
		record.Meta.Timestamp = time.Now().UTC()
	}
	if record.Id == 0 {
		record.Id = record.Meta.DedupID()
	}

	data, err := storage.MarshalHistoryRecord(record)
	if err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		idKey := makeHistoryIDKey(record.Id)

		// Same query+flags: drop the older timeline slot first.
		if item, err := tx.Get(idKey); err == nil {
			oldKey, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := tx.Delete(oldKey); err != nil {
				return err
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		key := makeHistoryKey(record.Meta.Timestamp, record.Id)
		if err := tx.Set(key, data); err != nil {
			return err
		}
		if err := tx.Set(idKey, key); err != nil {
			return err
		}

		if err := r.truncate(tx); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// truncate drops timeline slots beyond the cap, oldest first.
// Runs inside the caller's write transaction; the iterator sees pending
// writes, so the just-added record counts toward the cap.
func (r *SessionRepository) truncate(tx *badger.Txn) error {
	opts := badger.DefaultIteratorOptions
	opts.Reverse = true

	iter := tx.NewIterator(opts)

	startKey := makePartialHistoryKey(maxHistoryTime)
	prefix := []byte(historyPrefix + ":")

	var dropKeys [][]byte
	var dropIDs []core.ID

	count := 0
	for iter.Seek(startKey); iter.Valid(); iter.Next() {
		key := iter.Item().Key()
		if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
			break
		}
		count++
		if count <= r.historyLimit {
			continue
		}

		dropKeys = append(dropKeys, iter.Item().KeyCopy(nil))
		var record *core.HistoryRecord
		if err := iter.Item().Value(func(val []byte) error {
			var err error
			record, err = storage.UnmarshalHistoryRecord(val)
			return err
		}); err != nil {
			iter.Close()
			return err
		}
		dropIDs = append(dropIDs, record.Id)
	}
	iter.Close()

	for i, key := range dropKeys {
		if err := tx.Delete(key); err != nil {
			return err
		}
		if err := tx.Delete(makeHistoryIDKey(dropIDs[i])); err != nil {
			return err
		}
	}
	return nil
}

// History retrieves up to limit records, newest first.
func (r *SessionRepository) History(ctx context.Context, limit int) ([]*core.HistoryRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	if limit <= 0 {
		limit = r.historyLimit
	}

	var results []*core.HistoryRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent records first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		startKey := makePartialHistoryKey(maxHistoryTime)
		prefix := []byte(historyPrefix + ":")

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var record *core.HistoryRecord
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalHistoryRecord(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, record)
			count++
		}
		return nil
	}, false)

	return results, err
}

// ClearHistory removes all history records and their ID index entries.
func (r *SessionRepository) ClearHistory(ctx context.Context) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		var keys [][]byte

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)

		for _, prefix := range [][]byte{[]byte(historyPrefix + ":"), []byte(historyIDPrefix + ":")} {
			for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
				keys = append(keys, iter.Item().KeyCopy(nil))
			}
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Close releases repository resources. The shared backend stays open; it is
// owned and closed by whoever opened it.
func (r *SessionRepository) Close() error {
	return nil
}
