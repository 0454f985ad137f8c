package query

import (
	"strings"

	"github.com/poiesic/titlescout/core"
)

// Default caps on the number of probes generated per session.
const (
	DefaultMaxQueriesSearch   = 40
	DefaultMaxQueriesDiscover = 40
)

// discoverySeeds is the fixed probe set used when no search term is given.
var discoverySeeds = []string{"the", "new", "best", "top", "movie", "series", "2024", "2025"}

// variantSuffixes are appended to a term before the letter and digit probes.
var variantSuffixes = []string{"movie", "series", "season"}

// Expander turns a user term (or empty input) into a bounded, deduplicated
// list of probe queries. Expansion is deterministic and performs no I/O.
type Expander struct {
	maxSearch   int
	maxDiscover int
}

// NewExpander creates an expander with the given probe caps.
// Caps below 1 fall back to the defaults.
func NewExpander(maxSearch, maxDiscover int) *Expander {
	if maxSearch < 1 {
		maxSearch = DefaultMaxQueriesSearch
	}
	if maxDiscover < 1 {
		maxDiscover = DefaultMaxQueriesDiscover
	}
	return &Expander{maxSearch: maxSearch, maxDiscover: maxDiscover}
}

// Expand produces the probe list for one session.
//
// A non-empty term always yields the term itself first. With useVariations,
// suffix, letter and digit variants follow in a fixed order. An empty term
// switches to discovery mode: the seed list plus single letters, regardless
// of useVariations. The result is deduplicated preserving first-seen order
// and truncated to the configured cap.
func (e *Expander) Expand(term string, useVariations bool) []core.Query {
	term = strings.TrimSpace(term)
	if term == "" {
		return e.discover()
	}

	probes := []string{term}
	if useVariations {
		for _, suffix := range variantSuffixes {
			probes = append(probes, term+" "+suffix)
		}
		for c := 'a'; c <= 'z'; c++ {
			probes = append(probes, term+" "+string(c))
		}
		for d := '0'; d <= '9'; d++ {
			probes = append(probes, term+" "+string(d))
		}
	}

	return dedupAndCap(probes, e.maxSearch)
}

func (e *Expander) discover() []core.Query {
	probes := make([]string, 0, len(discoverySeeds)+26)
	probes = append(probes, discoverySeeds...)
	for c := 'a'; c <= 'z'; c++ {
		probes = append(probes, string(c))
	}
	return dedupAndCap(probes, e.maxDiscover)
}

// dedupAndCap removes duplicates preserving first-seen order, then truncates.
func dedupAndCap(probes []string, limit int) []core.Query {
	seen := make(map[string]bool, len(probes))
	out := make([]core.Query, 0, len(probes))
	for _, p := range probes {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, core.Query(p))
		if len(out) == limit {
			break
		}
	}
	return out
}
