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

import "errors"

// Domain validation errors
var (
	// ErrInvalidEntry indicates an Entry failed validation.
	ErrInvalidEntry = errors.New("invalid entry")

	// ErrInvalidEntryID indicates an entry identifier is missing or malformed.
	ErrInvalidEntryID = errors.New("entry identifier missing or malformed")

	// ErrInvalidCatalog indicates a Catalog failed validation.
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrCatalogCountMismatch indicates Count does not equal the number of entries.
	ErrCatalogCountMismatch = errors.New("catalog count does not match entries")

	// ErrDuplicateEntryID indicates two catalog entries share an identifier.
	ErrDuplicateEntryID = errors.New("duplicate entry identifier")
)
