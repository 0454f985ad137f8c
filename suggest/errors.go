package suggest

import "errors"

var (
	// ErrLookupRequired is returned when a lookup is not provided.
	ErrLookupRequired = errors.New("lookup required")

	// ErrInvalidHost is returned when the suggest host URL is empty.
	ErrInvalidHost = errors.New("suggest host required")
)
