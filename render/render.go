// Package render turns a published catalog into display cards.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/poiesic/titlescout/core"
)

// Card is one display row derived from a catalog entry. Missing optional
// fields render as empty strings.
type Card struct {
	ID       string
	Title    string
	Kind     string
	Year     string
	Rank     string
	Href     string
	ImageURL string
}

// Cards maps a catalog to its display cards in catalog order.
func Cards(catalog *core.Catalog) []Card {
	if catalog == nil {
		return nil
	}
	cards := make([]Card, 0, len(catalog.Entries))
	for i := range catalog.Entries {
		entry := &catalog.Entries[i]
		card := Card{
			ID:    entry.ID,
			Title: entry.Title,
			Kind:  entry.Kind,
			Href:  entry.Href,
		}
		if entry.Year != nil {
			card.Year = strconv.Itoa(*entry.Year)
		}
		if entry.Rank != nil {
			card.Rank = strconv.Itoa(*entry.Rank)
		}
		if entry.ImageURL != nil {
			card.ImageURL = *entry.ImageURL
		}
		cards = append(cards, card)
	}
	return cards
}

// TextRenderer writes catalogs as plain text, one card per line.
// An empty catalog produces an explicit "no results" line rather than
// nothing at all.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer creates a renderer writing to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

// RenderCatalog writes the catalog's display cards to the underlying writer.
func (r *TextRenderer) RenderCatalog(catalog *core.Catalog) error {
	return WriteText(r.w, catalog)
}

// WriteText writes the catalog's display cards to w.
func WriteText(w io.Writer, catalog *core.Catalog) error {
	cards := Cards(catalog)
	if len(cards) == 0 {
		_, err := fmt.Fprintln(w, "no results")
		return err
	}

	if _, err := fmt.Fprintf(w, "%d results\n", len(cards)); err != nil {
		return err
	}
	for i, card := range cards {
		line := fmt.Sprintf("%d: %s", i+1, card.Title)
		if card.Year != "" {
			line += " (" + card.Year + ")"
		}
		if card.Kind != "" {
			line += " [" + card.Kind + "]"
		}
		line += " " + card.Href
		if card.ImageURL != "" {
			line += " img=" + card.ImageURL
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
