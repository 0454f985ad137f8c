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


package suggest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/poiesic/titlescout/core"
)

const (
	// DefaultHost is the suggestion endpoint consumed by the fetcher.
	DefaultHost = "https://v2.sg.media-imdb.com"

	// DefaultPerRequestTimeout bounds one remote lookup.
	DefaultPerRequestTimeout = 2500 * time.Millisecond

	// DefaultCacheSize is the number of suggest payloads kept in the
	// response cache. Zero disables caching.
	DefaultCacheSize = 256

	// maxPayloadBytes caps how much of a response body is read.
	maxPayloadBytes = 1 << 20
)

// Fetcher issues single suggest lookups against the remote endpoint.
// Every failure path (transport error, timeout, non-2xx status, malformed
// payload) resolves to nil; a lookup never fails visibly.
type Fetcher struct {
	host    string
	client  *http.Client
	timeout time.Duration
	cache   *lru.Cache[string, *core.RawSuggestion]
	logger  *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher) error

// WithHost sets the suggest endpoint base URL.
func WithHost(host string) FetcherOption {
	return func(f *Fetcher) error {
		host = strings.TrimRight(strings.TrimSpace(host), "/")
		if host == "" {
			return ErrInvalidHost
		}
		f.host = host
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client.
// Default is a plain http.Client; the per-request timeout is applied via
// context, not on the client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) error {
		if client == nil {
			client = &http.Client{}
		}
		f.client = client
		return nil
	}
}

// WithPerRequestTimeout sets the hard per-lookup timeout.
// Values <= 0 fall back to the default.
func WithPerRequestTimeout(timeout time.Duration) FetcherOption {
	return func(f *Fetcher) error {
		if timeout <= 0 {
			timeout = DefaultPerRequestTimeout
		}
		f.timeout = timeout
		return nil
	}
}

// WithCacheSize sets the response cache capacity. Zero disables the cache,
// restoring strict one-remote-call-per-invocation behavior.
func WithCacheSize(size int) FetcherOption {
	return func(f *Fetcher) error {
		if size <= 0 {
			f.cache = nil
			return nil
		}
		cache, err := lru.New[string, *core.RawSuggestion](size)
		if err != nil {
			return err
		}
		f.cache = cache
		return nil
	}
}

// WithFetcherLogger sets a custom logger.
// Default is slog.Default().
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
		return nil
	}
}

// NewFetcher creates a fetcher for the suggestion endpoint.
func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	cache, err := lru.New[string, *core.RawSuggestion](DefaultCacheSize)
	if err != nil {
		return nil, err
	}

	f := &Fetcher{
		host:    DefaultHost,
		client:  &http.Client{},
		timeout: DefaultPerRequestTimeout,
		cache:   cache,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Fetch issues at most one remote lookup for the query and returns its
// payload, or nil when the lookup failed or carried no data. The per-call
// timeout races the request; whichever settles first wins and the loser is
// torn down by context cancellation.
func (f *Fetcher) Fetch(ctx context.Context, q core.Query) *core.RawSuggestion {
	trimmed := strings.TrimSpace(q.String())

	if f.cache != nil {
		if payload, ok := f.cache.Get(trimmed); ok {
			return payload
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	u := fmt.Sprintf("%s/suggests/%s/%s.json", f.host, firstCharKey(trimmed), url.PathEscape(trimmed))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		f.logger.Debug("building suggest request failed", "query", trimmed, "err", err)
		return nil
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug("suggest lookup failed", "query", trimmed, "err", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Debug("suggest lookup rejected", "query", trimmed, "status", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		f.logger.Debug("reading suggest payload failed", "query", trimmed, "err", err)
		return nil
	}

	payload := decodeEnvelope(body)
	if payload != nil && f.cache != nil {
		f.cache.Add(trimmed, payload)
	}
	return payload
}

// firstCharKey derives the endpoint shard from the lowercase first character
// of the trimmed query, defaulting to "a" for an empty query.
func firstCharKey(q string) string {
	for _, r := range q {
		return string(unicode.ToLower(r))
	}
	return "a"
}
