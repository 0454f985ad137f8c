package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/titlescout/core"
)

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func TestCards(t *testing.T) {
	t.Run("nil catalog", func(t *testing.T) {
		assert.Nil(t, Cards(nil))
	})

	t.Run("missing optional fields render empty", func(t *testing.T) {
		catalog := &core.Catalog{
			Count:   1,
			Entries: []core.Entry{{ID: "tt0133093", Title: "The Matrix", Href: "https://www.imdb.com/title/tt0133093/"}},
		}
		cards := Cards(catalog)
		require.Len(t, cards, 1)
		assert.Equal(t, "", cards[0].Year)
		assert.Equal(t, "", cards[0].Rank)
		assert.Equal(t, "", cards[0].ImageURL)
	})

	t.Run("optional fields render as strings", func(t *testing.T) {
		catalog := &core.Catalog{
			Count: 1,
			Entries: []core.Entry{{
				ID:       "tt0133093",
				Title:    "The Matrix",
				Year:     intPtr(1999),
				Rank:     intPtr(12),
				ImageURL: strPtr("https://img.example/m.jpg"),
			}},
		}
		cards := Cards(catalog)
		require.Len(t, cards, 1)
		assert.Equal(t, "1999", cards[0].Year)
		assert.Equal(t, "12", cards[0].Rank)
		assert.Equal(t, "https://img.example/m.jpg", cards[0].ImageURL)
	})

	t.Run("catalog order preserved", func(t *testing.T) {
		catalog := &core.Catalog{
			Count: 2,
			Entries: []core.Entry{
				{ID: "tt0000001", Title: "First"},
				{ID: "tt0000002", Title: "Second"},
			},
		}
		cards := Cards(catalog)
		require.Len(t, cards, 2)
		assert.Equal(t, "First", cards[0].Title)
		assert.Equal(t, "Second", cards[1].Title)
	})
}

func TestWriteText(t *testing.T) {
	t.Run("empty catalog renders a placeholder", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteText(&buf, &core.Catalog{}))
		assert.Equal(t, "no results\n", buf.String())
	})

	t.Run("entries render one line each", func(t *testing.T) {
		catalog := &core.Catalog{
			Count: 2,
			Entries: []core.Entry{
				{ID: "tt0133093", Title: "The Matrix", Kind: "feature", Year: intPtr(1999), Href: "https://www.imdb.com/title/tt0133093/"},
				{ID: "tt0234215", Title: "The Matrix Reloaded", Href: "https://www.imdb.com/title/tt0234215/"},
			},
		}

		var buf bytes.Buffer
		require.NoError(t, WriteText(&buf, catalog))

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "2 results", lines[0])
		assert.Equal(t, "1: The Matrix (1999) [feature] https://www.imdb.com/title/tt0133093/", lines[1])
		assert.Equal(t, "2: The Matrix Reloaded https://www.imdb.com/title/tt0234215/", lines[2])
	})

	t.Run("image URL rendered when present", func(t *testing.T) {
		catalog := &core.Catalog{
			Count: 1,
			Entries: []core.Entry{{
				ID:       "tt0133093",
				Title:    "The Matrix",
				Href:     "https://www.imdb.com/title/tt0133093/",
				ImageURL: strPtr("https://img.example/m.jpg"),
			}},
		}

		var buf bytes.Buffer
		require.NoError(t, WriteText(&buf, catalog))
		assert.Contains(t, buf.String(), "img=https://img.example/m.jpg")
	})

	t.Run("renderer delegates to WriteText", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewTextRenderer(&buf)
		require.NoError(t, r.RenderCatalog(&core.Catalog{}))
		assert.Equal(t, "no results\n", buf.String())
	})
}
