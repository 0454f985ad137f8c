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


package storage

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/titlescout/core"
)

// Stored values share the JSON encoding of the export artifact, so a
// persisted catalog round-trips byte-identically with an exported one.

// MarshalCatalog serializes a Catalog to bytes.
func MarshalCatalog(catalog *core.Catalog) ([]byte, error) {
	data, err := json.Marshal(catalog)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalCatalog deserializes a Catalog from bytes.
func UnmarshalCatalog(data []byte) (*core.Catalog, error) {
	var catalog core.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &catalog, nil
}

// MarshalSessionMeta serializes SessionMeta to bytes.
func MarshalSessionMeta(meta *core.SessionMeta) ([]byte, error) {
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalSessionMeta deserializes SessionMeta from bytes.
func UnmarshalSessionMeta(data []byte) (*core.SessionMeta, error) {
	var meta core.SessionMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &meta, nil
}

// MarshalHistoryRecord serializes a HistoryRecord to bytes.
func MarshalHistoryRecord(record *core.HistoryRecord) ([]byte, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalHistoryRecord deserializes a HistoryRecord from bytes.
func UnmarshalHistoryRecord(data []byte) (*core.HistoryRecord, error) {
	var record core.HistoryRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}
