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

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/titlescout/catalog"
	"github.com/poiesic/titlescout/core"
	"github.com/poiesic/titlescout/query"
	"github.com/poiesic/titlescout/storage"
	"github.com/poiesic/titlescout/suggest"
)

// Renderer is the render collaborator: given a published catalog it
// produces the user-facing view.
type Renderer interface {
	RenderCatalog(catalog *core.Catalog) error
}

// RunOptions selects per-session behavior.
type RunOptions struct {
	// UseVariations expands a non-empty term into suffix/letter/digit probes.
	UseVariations bool

	// WantImages keeps image descriptors on normalized entries.
	WantImages bool
}

// Controller orchestrates one session: expand, fetch, normalize, publish.
// Sessions are single-flight; a submission while another session is running
// is rejected with ErrBusy and mutates nothing.
type Controller struct {
	expander *query.Expander
	pool     *suggest.Pool
	repo     storage.SessionRepository
	renderer Renderer
	busy     atomic.Bool
	logger   *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller) error

// WithRepository sets the persistence collaborator.
// Without one, results stay in memory only.
func WithRepository(repo storage.SessionRepository) Option {
	return func(c *Controller) error {
		c.repo = repo
		return nil
	}
}

// WithRenderer sets the render collaborator.
func WithRenderer(renderer Renderer) Option {
	return func(c *Controller) error {
		c.renderer = renderer
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewController creates a session controller.
func NewController(expander *query.Expander, pool *suggest.Pool, opts ...Option) (*Controller, error) {
	if expander == nil {
		return nil, ErrExpanderRequired
	}
	if pool == nil {
		return nil, ErrPoolRequired
	}

	c := &Controller{
		expander: expander,
		pool:     pool,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Run executes one session and returns the published catalog.
func (c *Controller) Run(ctx context.Context, term string, opts RunOptions) (*core.Catalog, error) {
	return c.RunWithMonitor(ctx, term, opts, nil)
}

// RunWithMonitor is Run with observation hooks.
// The busy flag is released on every path, success or failure.
func (c *Controller) RunWithMonitor(ctx context.Context, term string, opts RunOptions, monitor SessionMonitor) (*core.Catalog, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.busy.Store(false)

	queries := c.expander.Expand(term, opts.UseVariations)
	monitor.Start(term, queries)

	items := c.pool.FetchAll(ctx, queries, suggest.ProgressFunc(monitor.Progress))

	result := catalog.Normalize(items, opts.WantImages)
	monitor.Normalized(result)

	meta := &core.SessionMeta{
		Query:         strings.TrimSpace(term),
		UseVariations: opts.UseVariations,
		WantImages:    opts.WantImages,
		Timestamp:     time.Now().UTC(),
	}

	if err := c.publish(ctx, result, meta, monitor); err != nil {
		monitor.Failed(err)
		return nil, err
	}

	monitor.Finish(result)
	return result, nil
}

// publish hands the catalog to the render and persistence collaborators.
// A storage-write failure degrades to in-memory-only and never fails the
// session; a render failure does.
func (c *Controller) publish(ctx context.Context, result *core.Catalog, meta *core.SessionMeta, monitor SessionMonitor) error {
	g, gctx := errgroup.WithContext(ctx)

	if c.renderer != nil {
		g.Go(func() error {
			return c.renderer.RenderCatalog(result)
		})
	}

	if c.repo != nil {
		g.Go(func() error {
			if err := c.repo.SaveLatest(gctx, result, meta); err != nil {
				c.logger.Warn("saving latest catalog failed", "err", err)
				monitor.PersistDegraded(err)
				return nil
			}
			record := &core.HistoryRecord{
				Id:          meta.DedupID(),
				Meta:        *meta,
				ResultCount: result.Count,
			}
			if err := c.repo.AppendHistory(gctx, record); err != nil {
				c.logger.Warn("appending session history failed", "err", err)
				monitor.PersistDegraded(err)
			}
			return nil
		})
	}

	return g.Wait()
}
