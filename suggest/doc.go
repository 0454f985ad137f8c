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


// Package suggest fetches partial results from the remote suggestion
// endpoint under strict time and concurrency budgets.
//
// Fetcher issues one lookup per query with a hard per-call timeout and
// masks every failure into a nil payload. Pool fans the query list out over
// a bounded set of workers sharing a single claim cursor, throttles the
// request rate, reports fractional progress, and stops claiming new work
// once the global deadline passes while letting in-flight lookups drain.
package suggest
