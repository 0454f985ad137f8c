package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEntryID(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{"standard identifier", "tt0133093", true},
		{"short but prefixed", "tt1", true},
		{"bare prefix", "tt", false},
		{"empty", "", false},
		{"wrong prefix", "nm0000206", false},
		{"prefix not at start", "xtt0133093", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidEntryID(tt.id))
		})
	}
}

func TestValidateEntry(t *testing.T) {
	t.Run("valid entry", func(t *testing.T) {
		entry := &Entry{ID: "tt0133093", Title: "The Matrix"}
		assert.NoError(t, ValidateEntry(entry))
	})

	t.Run("nil entry", func(t *testing.T) {
		err := ValidateEntry(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidEntry)
	})

	t.Run("invalid identifier", func(t *testing.T) {
		err := ValidateEntry(&Entry{ID: "nm0000206"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidEntryID)
	})

	t.Run("empty optional fields are fine", func(t *testing.T) {
		entry := &Entry{ID: "tt0133093"}
		assert.NoError(t, ValidateEntry(entry))
	})
}

func TestValidateCatalog(t *testing.T) {
	t.Run("valid catalog", func(t *testing.T) {
		catalog := &Catalog{
			Count: 2,
			Entries: []Entry{
				{ID: "tt0133093"},
				{ID: "tt0234215"},
			},
		}
		assert.NoError(t, ValidateCatalog(catalog))
	})

	t.Run("empty catalog is valid", func(t *testing.T) {
		assert.NoError(t, ValidateCatalog(&Catalog{Count: 0, Entries: []Entry{}}))
	})

	t.Run("nil catalog", func(t *testing.T) {
		err := ValidateCatalog(nil)
		assert.ErrorIs(t, err, ErrInvalidCatalog)
	})

	t.Run("count mismatch", func(t *testing.T) {
		catalog := &Catalog{Count: 3, Entries: []Entry{{ID: "tt0133093"}}}
		err := ValidateCatalog(catalog)
		assert.ErrorIs(t, err, ErrCatalogCountMismatch)
	})

	t.Run("duplicate identifiers", func(t *testing.T) {
		catalog := &Catalog{
			Count: 2,
			Entries: []Entry{
				{ID: "tt0133093"},
				{ID: "tt0133093"},
			},
		}
		err := ValidateCatalog(catalog)
		assert.ErrorIs(t, err, ErrDuplicateEntryID)
	})

	t.Run("invalid entry inside", func(t *testing.T) {
		catalog := &Catalog{Count: 1, Entries: []Entry{{ID: "bad_id"}}}
		err := ValidateCatalog(catalog)
		assert.ErrorIs(t, err, ErrInvalidEntryID)
	})
}
