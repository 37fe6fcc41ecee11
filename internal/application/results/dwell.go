package results

import (
	"sync"
	"time"
)

// dwellRegistry remembers which visit IDs already reported dwell time.
// Entries are pruned after an hour, long past any plausible duplicate.
type dwellRegistry struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

func newDwellRegistry() *dwellRegistry {
	r := &dwellRegistry{seen: make(map[string]time.Time)}
	go r.cleanup()
	return r
}

// first reports whether this is the first beacon for the visit, and marks
// the visit reported.
func (r *dwellRegistry) first(visitID string) bool {
	if visitID == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[visitID]; ok {
		return false
	}
	r.seen[visitID] = time.Now()
	return true
}

func (r *dwellRegistry) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		r.mu.Lock()
		cutoff := time.Now().Add(-1 * time.Hour)
		for id, at := range r.seen {
			if at.Before(cutoff) {
				delete(r.seen, id)
			}
		}
		r.mu.Unlock()
	}
}
