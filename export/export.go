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


// Package export serializes a published catalog into a downloadable JSON
// artifact named from a slugified form of the query plus a timestamp.
package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/titlescout/core"
)

var (
	// ErrCatalogRequired is returned when a catalog is not provided.
	ErrCatalogRequired = errors.New("catalog required")

	// ErrMetaRequired is returned when session metadata is not provided.
	ErrMetaRequired = errors.New("session metadata required")
)

// timestampLayout names artifacts uniquely down to the second.
const timestampLayout = "20060102T150405"

// Exporter writes catalog artifacts into a target directory.
type Exporter struct {
	dir string
}

// NewExporter creates an exporter targeting dir, creating it if needed.
func NewExporter(dir string) (*Exporter, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Exporter{dir: dir}, nil
}

// Export writes the catalog as `<slug>-<timestamp>.json` and returns the
// artifact path. The file is written to a temporary name and renamed into
// place so a partial write never leaves a truncated artifact behind.
func (e *Exporter) Export(catalog *core.Catalog, meta *core.SessionMeta) (string, error) {
	if catalog == nil {
		return "", ErrCatalogRequired
	}
	if meta == nil {
		return "", ErrMetaRequired
	}

	name := Slug(meta.Query)
	if name == "" {
		name = "discovery"
	}
	filename := name + "-" + meta.Timestamp.UTC().Format(timestampLayout) + ".json"

	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(e.dir, filename)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return path, nil
}

// Slug reduces a query to a filesystem-safe lowercase token: alphanumeric
// runs survive, everything else collapses into single hyphens.
func Slug(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
