package tracking

import "context"

// Params is the parameter mapping attached to an event.
type Params map[string]any

// Sink port (interface to the analytics backend). Implementations must be
// best-effort: a delivery failure is returned for logging, never surfaced
// to the user.
type Sink interface {
	Send(ctx context.Context, client string, event string, params Params) error
}
