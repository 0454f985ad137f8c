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


// Package titlescout aggregates partial, rate-limited results from a remote
// title-suggestion endpoint into a deduplicated, rank-sorted catalog.
//
// App is the application lifecycle object: constructed once by the host, it
// owns configuration, the persistence backend, and the fetch pipeline, and
// hands out session controllers and collaborators.
package titlescout

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/titlescout/export"
	"github.com/poiesic/titlescout/query"
	"github.com/poiesic/titlescout/session"
	"github.com/poiesic/titlescout/storage"
	"github.com/poiesic/titlescout/storage/badger"
	"github.com/poiesic/titlescout/suggest"
)

// App wires the suggestion pipeline, persistence, and collaborators.
type App struct {
	cfg      *Config
	backend  *badger.Backend
	repo     storage.SessionRepository
	expander *query.Expander
	fetcher  *suggest.Fetcher
	pool     *suggest.Pool
	logger   *slog.Logger
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	cfg        *Config
	httpClient *http.Client
	logger     *slog.Logger
}

// WithConfig sets the pipeline configuration.
// Default is DefaultConfig().
func WithConfig(cfg *Config) AppOption {
	return func(o *appOptions) {
		if cfg != nil {
			o.cfg = cfg
		}
	}
}

// WithHTTPClient sets the HTTP client used for suggest lookups.
func WithHTTPClient(client *http.Client) AppOption {
	return func(o *appOptions) {
		o.httpClient = client
	}
}

// WithAppLogger sets a custom logger.
// Default is slog.Default().
func WithAppLogger(logger *slog.Logger) AppOption {
	return func(o *appOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewApp opens the persistence backend at dbPath and wires the pipeline.
// An empty dbPath selects in-memory persistence: sessions work normally but
// nothing survives the process.
func NewApp(dbPath string, opts ...AppOption) (*App, error) {
	options := &appOptions{
		cfg:    DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	cfg := options.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(dbPath, dbPath == "")
	if err != nil {
		return nil, err
	}

	repo, err := badger.NewSessionRepository(backend,
		badger.WithHistoryLimit(cfg.HistoryLimit),
		badger.WithLogger(options.logger),
	)
	if err != nil {
		backend.Close()
		return nil, err
	}

	fetcherOpts := []suggest.FetcherOption{
		suggest.WithHost(cfg.SuggestHost),
		suggest.WithPerRequestTimeout(time.Duration(cfg.PerRequestTimeoutMs) * time.Millisecond),
		suggest.WithCacheSize(cfg.CacheSize),
		suggest.WithFetcherLogger(options.logger),
	}
	if options.httpClient != nil {
		fetcherOpts = append(fetcherOpts, suggest.WithHTTPClient(options.httpClient))
	}
	fetcher, err := suggest.NewFetcher(fetcherOpts...)
	if err != nil {
		repo.Close()
		backend.Close()
		return nil, err
	}

	pool, err := suggest.NewPool(fetcher,
		suggest.WithConcurrency(cfg.Concurrency),
		suggest.WithGlobalTimeout(time.Duration(cfg.GlobalTimeoutMs)*time.Millisecond),
		suggest.WithInterRequestDelay(time.Duration(cfg.InterRequestDelayMs)*time.Millisecond),
		suggest.WithPoolLogger(options.logger),
	)
	if err != nil {
		repo.Close()
		backend.Close()
		return nil, err
	}

	return &App{
		cfg:      cfg,
		backend:  backend,
		repo:     repo,
		expander: query.NewExpander(cfg.MaxQueriesSearch, cfg.MaxQueriesDiscover),
		fetcher:  fetcher,
		pool:     pool,
		logger:   options.logger,
	}, nil
}

// Close releases the worker pool and the persistence backend.
// The App must not be used after calling Close.
func (a *App) Close() error {
	a.pool.Release()

	if err := a.repo.Close(); err != nil {
		a.logger.Error("error closing session repository", "err", err)
		return err
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Config returns the active configuration.
func (a *App) Config() *Config {
	return a.cfg
}

// Repository returns the persistence collaborator.
func (a *App) Repository() storage.SessionRepository {
	return a.repo
}

// NewController creates a session controller over the App's pipeline.
// The App's repository is wired in as the persistence collaborator; further
// options (such as a renderer) come from the caller.
func (a *App) NewController(opts ...session.Option) (*session.Controller, error) {
	base := []session.Option{
		session.WithRepository(a.repo),
		session.WithLogger(a.logger),
	}
	return session.NewController(a.expander, a.pool, append(base, opts...)...)
}

// NewExporter creates an export collaborator targeting dir.
func (a *App) NewExporter(dir string) (*export.Exporter, error) {
	return export.NewExporter(dir)
}
