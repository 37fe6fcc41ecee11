package analysis

import "context"

// Analyzer port (interface to the external analysis API).
type Analyzer interface {
	Analyze(ctx context.Context, up Upload) (*Result, error)
	HealthCheck(ctx context.Context) (map[string]any, error)
}

// SessionStore port. One active analysis per session: the result and the
// original filename are saved together, read together and cleared together.
// Get returns ErrNoAnalysis when nothing is stored or the payload is corrupt.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, result *Result, filename string) error
	Get(ctx context.Context, sessionID string) (*Result, string, error)
	Clear(ctx context.Context, sessionID string) error
}
