package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/titlescout/core"
)

func TestCatalogSerialization(t *testing.T) {
	rank := 3
	catalog := &core.Catalog{
		Count: 1,
		Entries: []core.Entry{
			{ID: "tt0133093", Title: "The Matrix", Kind: "feature", Rank: &rank, Href: "https://www.imdb.com/title/tt0133093/"},
		},
	}

	data, err := MarshalCatalog(catalog)
	require.NoError(t, err)

	got, err := UnmarshalCatalog(data)
	require.NoError(t, err)
	assert.Equal(t, catalog, got)
}

func TestHistoryRecordSerialization(t *testing.T) {
	meta := core.SessionMeta{
		Query:         "matrix",
		UseVariations: true,
		Timestamp:     time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
	}
	record := &core.HistoryRecord{Id: meta.DedupID(), Meta: meta, ResultCount: 8}

	data, err := MarshalHistoryRecord(record)
	require.NoError(t, err)

	got, err := UnmarshalHistoryRecord(data)
	require.NoError(t, err)
	assert.Equal(t, record, got)

	// The 64-bit dedup ID must survive the trip exactly.
	assert.Equal(t, record.Id, got.Id)
}

func TestUnmarshalErrors(t *testing.T) {
	_, err := UnmarshalCatalog([]byte("not json"))
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalSessionMeta([]byte("{"))
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalHistoryRecord([]byte(""))
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
