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


// Package session orchestrates one complete expand, fetch, normalize,
// publish cycle.
//
// Sessions are single-flight: while one runs, further submissions are
// rejected with ErrBusy. Per-fetch failures never surface here; the only
// session-level failure is a collaborator refusing the published catalog,
// and storage-write failures merely degrade persistence.
package session
