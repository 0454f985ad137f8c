package main

import (
	"fmt"
	"io"

	"github.com/poiesic/titlescout/core"
	"github.com/poiesic/titlescout/session"
)

// progressMonitor prints fetch progress to w while a session runs.
type progressMonitor struct {
	w io.Writer
}

var _ session.SessionMonitor = (*progressMonitor)(nil)

func (m *progressMonitor) Start(term string, queries []core.Query) {
	if term == "" {
		fmt.Fprintf(m.w, "discovery: probing %d queries\n", len(queries))
		return
	}
	fmt.Fprintf(m.w, "%q: probing %d queries\n", term, len(queries))
}

func (m *progressMonitor) Progress(ev core.ProgressEvent) {
	fmt.Fprintf(m.w, "\rfetching %3d%% (%d/%d)", ev.Percent, ev.Completed, ev.Total)
}

func (m *progressMonitor) Normalized(catalog *core.Catalog) {
	fmt.Fprintf(m.w, "\n%d entries after normalization\n", catalog.Count)
}

func (m *progressMonitor) PersistDegraded(err error) {
	fmt.Fprintf(m.w, "history not saved: %v\n", err)
}

func (m *progressMonitor) Failed(err error) {
	fmt.Fprintf(m.w, "failed to load results: %v\n", err)
}

func (m *progressMonitor) Finish(_ *core.Catalog) {}
