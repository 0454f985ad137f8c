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


// Package catalog normalizes raw suggestion items into the deduplicated,
// rank-sorted catalog published at the end of a session.
package catalog

import (
	"fmt"
	"math"
	"sort"

	"github.com/poiesic/titlescout/core"
)

// hrefTemplate derives an entry's external link from its identifier.
const hrefTemplate = "https://www.imdb.com/title/%s/"

// Normalize flattens raw items into a Catalog.
//
// Items without a valid "tt"-prefixed identifier are dropped. Duplicates
// are resolved first-occurrence-wins in input order. Entries are sorted
// ascending by rank with missing ranks last; the sort is stable, so equal
// ranks keep their relative input order. Image fields are populated only
// when wantImages is set, and forced nil otherwise even if the source
// supplied them.
func Normalize(items []core.RawItem, wantImages bool) *core.Catalog {
	entries := make([]core.Entry, 0, len(items))
	seen := make(map[string]bool, len(items))

	for i := range items {
		item := &items[i]
		if !core.IsValidEntryID(item.ID) {
			continue
		}
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true

		entry := core.Entry{
			ID:    item.ID,
			Title: item.Label,
			Kind:  item.Kind,
			Year:  cloneInt(item.Year),
			Rank:  cloneInt(item.Rank),
			Href:  fmt.Sprintf(hrefTemplate, item.ID),
		}
		if wantImages && item.Image != nil && item.Image.URL != "" {
			imageURL := item.Image.URL
			width, height := item.Image.Width, item.Image.Height
			entry.ImageURL = &imageURL
			entry.ImageWidth = &width
			entry.ImageHeight = &height
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return effectiveRank(&entries[i]) < effectiveRank(&entries[j])
	})

	return &core.Catalog{Count: len(entries), Entries: entries}
}

// effectiveRank treats a missing rank as positive infinity so it sorts last.
func effectiveRank(e *core.Entry) int {
	if e.Rank == nil {
		return math.MaxInt
	}
	return *e.Rank
}

// cloneInt copies an optional field so entries never alias raw payloads.
func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
