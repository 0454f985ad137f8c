package suggest

import (
	"bytes"
	"encoding/json"

	"github.com/poiesic/titlescout/core"
)

// decodeEnvelope extracts the payload from a script-style callback body of
// the form `suggest$<token>({...})`. The callback name is never inspected;
// the argument is located positionally between the first '(' and the last
// ')'. A body that is already plain JSON is accepted as-is.
//
// Returns nil for anything that does not decode to a payload carrying "d".
func decodeEnvelope(body []byte) *core.RawSuggestion {
	raw := body
	start := bytes.IndexByte(body, '(')
	end := bytes.LastIndexByte(body, ')')
	if start >= 0 && end > start {
		raw = body[start+1 : end]
	}

	var payload core.RawSuggestion
	if err := json.Unmarshal(bytes.TrimSpace(raw), &payload); err != nil {
		return nil
	}
	if payload.D == nil {
		// Absence of "d" means "no data", not an error.
		return nil
	}
	return &payload
}
