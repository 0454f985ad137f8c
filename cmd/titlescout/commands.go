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


package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/titlescout"
	"github.com/poiesic/titlescout/render"
	"github.com/poiesic/titlescout/session"
	"github.com/poiesic/titlescout/storage"
)

// resolveConfig layers flag overrides on top of the config file (or the
// defaults when no file is given). Every knob is independently overridable.
func resolveConfig(c *cli.Context) (*titlescout.Config, error) {
	var cfg *titlescout.Config
	if path := c.String("config"); path != "" {
		loaded, err := titlescout.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = titlescout.DefaultConfig()
	}

	if c.IsSet("suggest-host") {
		cfg.SuggestHost = c.String("suggest-host")
	}
	if c.IsSet("max-queries") {
		cfg.MaxQueriesSearch = c.Int("max-queries")
		cfg.MaxQueriesDiscover = c.Int("max-queries")
	}
	if c.IsSet("concurrency") {
		cfg.Concurrency = c.Int("concurrency")
	}
	if c.IsSet("request-timeout-ms") {
		cfg.PerRequestTimeoutMs = c.Int("request-timeout-ms")
	}
	if c.IsSet("global-timeout-ms") {
		cfg.GlobalTimeoutMs = c.Int("global-timeout-ms")
	}
	if c.IsSet("delay-ms") {
		cfg.InterRequestDelayMs = c.Int("delay-ms")
	}
	if c.IsSet("history-limit") {
		cfg.HistoryLimit = c.Int("history-limit")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openApp(c *cli.Context) (*titlescout.App, error) {
	cfg, err := resolveConfig(c)
	if err != nil {
		return nil, err
	}
	return titlescout.NewApp(c.String("db"), titlescout.WithConfig(cfg))
}

func searchCommand(c *cli.Context) error {
	term := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if term == "" {
		return fmt.Errorf("search term is required (use the discover command for an empty term)")
	}
	return runSession(c, term)
}

func discoverCommand(c *cli.Context) error {
	return runSession(c, "")
}

func runSession(c *cli.Context, term string) error {
	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	ctrl, err := app.NewController(session.WithRenderer(render.NewTextRenderer(os.Stdout)))
	if err != nil {
		return err
	}

	var monitor session.SessionMonitor
	if c.Bool("progress") {
		monitor = &progressMonitor{w: os.Stderr}
	}

	opts := session.RunOptions{
		UseVariations: c.Bool("variations"),
		WantImages:    c.Bool("images"),
	}

	result, err := ctrl.RunWithMonitor(c.Context, term, opts, monitor)
	if errors.Is(err, session.ErrBusy) {
		// Another session is in flight; drop this submission silently.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	if dir := c.String("export-dir"); dir != "" {
		exporter, err := app.NewExporter(dir)
		if err != nil {
			return err
		}
		meta, err := app.Repository().LatestMeta(c.Context)
		if err != nil {
			return err
		}
		path, err := exporter.Export(result, meta)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "exported %s\n", path)
	}

	return nil
}

func latestCommand(c *cli.Context) error {
	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Repository().LatestCatalog(c.Context)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Println("no catalog stored")
		return nil
	}
	if err != nil {
		return err
	}
	return render.WriteText(os.Stdout, result)
}

func historyCommand(c *cli.Context) error {
	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	records, err := app.Repository().History(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no history")
		return nil
	}

	for i, record := range records {
		label := record.Meta.Query
		if label == "" {
			label = "(discovery)"
		}
		fmt.Printf("%d: %s  %q  variations=%t images=%t  %d results\n",
			i+1,
			record.Meta.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			label,
			record.Meta.UseVariations,
			record.Meta.WantImages,
			record.ResultCount,
		)
	}
	return nil
}

func historyClearCommand(c *cli.Context) error {
	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Repository().ClearHistory(c.Context); err != nil {
		return err
	}
	fmt.Println("history cleared")
	return nil
}

func exportCommand(c *cli.Context) error {
	app, err := openApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	repo := app.Repository()
	result, err := repo.LatestCatalog(c.Context)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no catalog stored; run a search first")
	}
	if err != nil {
		return err
	}
	meta, err := repo.LatestMeta(c.Context)
	if err != nil {
		return err
	}

	exporter, err := app.NewExporter(c.String("dir"))
	if err != nil {
		return err
	}
	path, err := exporter.Export(result, meta)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
