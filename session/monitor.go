package session

import "github.com/poiesic/titlescout/core"

// SessionMonitor provides hooks to observe one session.
// Implement this interface to track intermediate steps and results while a
// session runs.
type SessionMonitor interface {
	Start(term string, queries []core.Query)
	Progress(ev core.ProgressEvent)
	Normalized(catalog *core.Catalog)
	PersistDegraded(err error)
	Failed(err error)
	Finish(catalog *core.Catalog)
}

// noopMonitor is a no-op implementation of SessionMonitor
type noopMonitor struct{}

var _ SessionMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ []core.Query)  {}
func (n *noopMonitor) Progress(_ core.ProgressEvent)   {}
func (n *noopMonitor) Normalized(_ *core.Catalog)      {}
func (n *noopMonitor) PersistDegraded(_ error)         {}
func (n *noopMonitor) Failed(_ error)                  {}
func (n *noopMonitor) Finish(_ *core.Catalog)          {}
