package badger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/titlescout/core"
	"github.com/poiesic/titlescout/storage"
)

func setupRepo(t *testing.T, opts ...RepositoryOption) storage.SessionRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository(opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func sampleCatalog(n int) *core.Catalog {
	entries := make([]core.Entry, 0, n)
	for i := 0; i < n; i++ {
		rank := i + 1
		entries = append(entries, core.Entry{
			ID:    fmt.Sprintf("tt%07d", i+1),
			Title: fmt.Sprintf("Title %d", i+1),
			Kind:  "feature",
			Rank:  &rank,
			Href:  fmt.Sprintf("https://www.imdb.com/title/tt%07d/", i+1),
		})
	}
	return &core.Catalog{Count: len(entries), Entries: entries}
}

func sampleMeta(query string) *core.SessionMeta {
	return &core.SessionMeta{
		Query:     query,
		Timestamp: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestSaveLatest(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		repo := setupRepo(t)

		catalog := sampleCatalog(3)
		meta := sampleMeta("matrix")
		require.NoError(t, repo.SaveLatest(ctx, catalog, meta))

		gotCatalog, err := repo.LatestCatalog(ctx)
		require.NoError(t, err)
		assert.Equal(t, catalog, gotCatalog)

		gotMeta, err := repo.LatestMeta(ctx)
		require.NoError(t, err)
		assert.Equal(t, meta.Query, gotMeta.Query)
		assert.True(t, meta.Timestamp.Equal(gotMeta.Timestamp))
	})

	t.Run("replaces wholesale", func(t *testing.T) {
		repo := setupRepo(t)

		require.NoError(t, repo.SaveLatest(ctx, sampleCatalog(5), sampleMeta("first")))
		require.NoError(t, repo.SaveLatest(ctx, sampleCatalog(1), sampleMeta("second")))

		gotCatalog, err := repo.LatestCatalog(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, gotCatalog.Count)

		gotMeta, err := repo.LatestMeta(ctx)
		require.NoError(t, err)
		assert.Equal(t, "second", gotMeta.Query)
	})

	t.Run("empty catalog is persistable", func(t *testing.T) {
		repo := setupRepo(t)

		require.NoError(t, repo.SaveLatest(ctx, sampleCatalog(0), sampleMeta("nothing")))
		gotCatalog, err := repo.LatestCatalog(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, gotCatalog.Count)
	})

	t.Run("nil arguments rejected", func(t *testing.T) {
		repo := setupRepo(t)

		assert.ErrorIs(t, repo.SaveLatest(ctx, nil, sampleMeta("x")), storage.ErrCatalogRequired)
		assert.ErrorIs(t, repo.SaveLatest(ctx, sampleCatalog(1), nil), storage.ErrMetaRequired)
	})

	t.Run("missing latest reports not found", func(t *testing.T) {
		repo := setupRepo(t)

		_, err := repo.LatestCatalog(ctx)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = repo.LatestMeta(ctx)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestAppendHistory(t *testing.T) {
	ctx := context.Background()

	record := func(query string, ts time.Time) *core.HistoryRecord {
		meta := core.SessionMeta{Query: query, Timestamp: ts}
		return &core.HistoryRecord{Meta: meta, ResultCount: 1}
	}

	t.Run("newest first", func(t *testing.T) {
		repo := setupRepo(t)

		base := time.Now().UTC().Truncate(time.Microsecond)
		require.NoError(t, repo.AppendHistory(ctx, record("oldest", base.Add(-2*time.Minute))))
		require.NoError(t, repo.AppendHistory(ctx, record("middle", base.Add(-time.Minute))))
		require.NoError(t, repo.AppendHistory(ctx, record("newest", base)))

		records, err := repo.History(ctx, 0)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "newest", records[0].Meta.Query)
		assert.Equal(t, "middle", records[1].Meta.Query)
		assert.Equal(t, "oldest", records[2].Meta.Query)
	})

	t.Run("same inputs replace their slot", func(t *testing.T) {
		repo := setupRepo(t)

		base := time.Now().UTC().Truncate(time.Microsecond)
		require.NoError(t, repo.AppendHistory(ctx, record("matrix", base.Add(-time.Minute))))
		require.NoError(t, repo.AppendHistory(ctx, record("other", base.Add(-30*time.Second))))

		// Re-running the same session moves it to the front.
		rerun := record("matrix", base)
		rerun.ResultCount = 9
		require.NoError(t, repo.AppendHistory(ctx, rerun))

		records, err := repo.History(ctx, 0)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "matrix", records[0].Meta.Query)
		assert.Equal(t, 9, records[0].ResultCount)
		assert.Equal(t, "other", records[1].Meta.Query)
	})

	t.Run("history is capped dropping the oldest", func(t *testing.T) {
		repo := setupRepo(t, WithHistoryLimit(5))

		base := time.Now().UTC().Truncate(time.Microsecond)
		for i := 0; i < 8; i++ {
			query := fmt.Sprintf("query-%d", i)
			require.NoError(t, repo.AppendHistory(ctx, record(query, base.Add(time.Duration(i)*time.Second))))
		}

		records, err := repo.History(ctx, 0)
		require.NoError(t, err)
		require.Len(t, records, 5)
		assert.Equal(t, "query-7", records[0].Meta.Query)
		assert.Equal(t, "query-3", records[4].Meta.Query)
	})

	t.Run("zero timestamp defaults to now", func(t *testing.T) {
		repo := setupRepo(t)

		rec := &core.HistoryRecord{Meta: core.SessionMeta{Query: "matrix"}}
		require.NoError(t, repo.AppendHistory(ctx, rec))

		records, err := repo.History(ctx, 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.False(t, records[0].Meta.Timestamp.IsZero())
	})

	t.Run("zero id derives from the session inputs", func(t *testing.T) {
		repo := setupRepo(t)

		meta := core.SessionMeta{Query: "matrix", Timestamp: time.Now().UTC()}
		require.NoError(t, repo.AppendHistory(ctx, &core.HistoryRecord{Meta: meta}))

		records, err := repo.History(ctx, 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, meta.DedupID(), records[0].Id)
	})

	t.Run("nil record rejected", func(t *testing.T) {
		repo := setupRepo(t)
		assert.ErrorIs(t, repo.AppendHistory(ctx, nil), storage.ErrRecordRequired)
	})

	t.Run("limit narrows the listing", func(t *testing.T) {
		repo := setupRepo(t)

		base := time.Now().UTC().Truncate(time.Microsecond)
		for i := 0; i < 4; i++ {
			require.NoError(t, repo.AppendHistory(ctx, record(fmt.Sprintf("q%d", i), base.Add(time.Duration(i)*time.Second))))
		}

		records, err := repo.History(ctx, 2)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "q3", records[0].Meta.Query)
	})
}

func TestClearHistory(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i := 0; i < 3; i++ {
		meta := core.SessionMeta{Query: fmt.Sprintf("q%d", i), Timestamp: base.Add(time.Duration(i) * time.Second)}
		require.NoError(t, repo.AppendHistory(ctx, &core.HistoryRecord{Meta: meta}))
	}
	require.NoError(t, repo.SaveLatest(ctx, sampleCatalog(1), sampleMeta("kept")))

	require.NoError(t, repo.ClearHistory(ctx))

	records, err := repo.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	// The latest catalog is untouched.
	gotCatalog, err := repo.LatestCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, gotCatalog.Count)

	// A record appended after clearing does not resurrect an old slot.
	meta := core.SessionMeta{Query: "q1", Timestamp: base.Add(time.Minute)}
	require.NoError(t, repo.AppendHistory(ctx, &core.HistoryRecord{Meta: meta}))
	records, err = repo.History(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRepositoryClosed(t *testing.T) {
	ctx := context.Background()

	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Close())
	require.NoError(t, backend.Close())

	_, err = repo.LatestCatalog(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	_, err = repo.History(ctx, 0)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, repo.SaveLatest(ctx, sampleCatalog(1), sampleMeta("x")), storage.ErrStorageClosed)
	assert.ErrorIs(t, repo.ClearHistory(ctx), storage.ErrStorageClosed)
}
