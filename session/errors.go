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


package session

import "errors"

var (
	// ErrBusy is returned when a session is submitted while another is in
	// flight. Callers may treat it as a silent skip.
	ErrBusy = errors.New("session already in flight")

	// ErrExpanderRequired is returned when a query expander is not provided.
	ErrExpanderRequired = errors.New("query expander required")

	// ErrPoolRequired is returned when a lookup pool is not provided.
	ErrPoolRequired = errors.New("lookup pool required")
)
