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


package core

import (
	"fmt"
	"strings"
)

// EntryIDPrefix is the required prefix of a valid entry identifier.
const EntryIDPrefix = "tt"

// IsValidEntryID checks whether an identifier is non-empty and carries the
// required "tt" prefix. Anything else is discarded during normalization.
func IsValidEntryID(id string) bool {
	return len(id) > len(EntryIDPrefix) && strings.HasPrefix(id, EntryIDPrefix)
}

// ValidateEntry validates an Entry according to domain rules.
//
// Validation rules:
//   - ID must be non-empty and "tt"-prefixed
//
// NOT validated (the source guarantees nothing):
//   - Title/Kind (may be empty)
//   - Year/Rank/Image fields (all optional)
func ValidateEntry(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}

	if !IsValidEntryID(entry.ID) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidEntry, ErrInvalidEntryID, entry.ID)
	}

	return nil
}

// ValidateCatalog validates a Catalog according to domain rules.
//
// Validation rules:
//   - Count must equal len(Entries)
//   - Every entry must pass ValidateEntry
//   - No two entries may share an identifier
func ValidateCatalog(catalog *Catalog) error {
	if catalog == nil {
		return fmt.Errorf("%w: catalog is nil", ErrInvalidCatalog)
	}

	if catalog.Count != len(catalog.Entries) {
		return fmt.Errorf("%w: %w: count=%d entries=%d",
			ErrInvalidCatalog, ErrCatalogCountMismatch, catalog.Count, len(catalog.Entries))
	}

	seen := make(map[string]bool, len(catalog.Entries))
	for i := range catalog.Entries {
		if err := ValidateEntry(&catalog.Entries[i]); err != nil {
			return err
		}
		if seen[catalog.Entries[i].ID] {
			return fmt.Errorf("%w: %w: %q", ErrInvalidCatalog, ErrDuplicateEntryID, catalog.Entries[i].ID)
		}
		seen[catalog.Entries[i].ID] = true
	}

	return nil
}
