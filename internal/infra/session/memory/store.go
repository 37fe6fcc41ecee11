package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/bonpiedlaroute/leaseboost/internal/domain/analysis"
)

// DefaultTTL bounds how long an unclaimed analysis survives. A browser tab
// session rarely outlives this.
const DefaultTTL = 2 * time.Hour

type entry struct {
	payload  []byte
	filename string
	expires  time.Time
}

// Store keeps the active analysis per session in process memory. It is the
// default SessionStore for single-instance deployments.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{entries: make(map[string]entry), ttl: ttl}
	go s.cleanup()
	return s
}

// Save serializes the result and stores it with the filename as one unit.
func (s *Store) Save(_ context.Context, sessionID string, result *analysis.Result, filename string) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = entry{
		payload:  payload,
		filename: filename,
		expires:  time.Now().Add(s.ttl),
	}
	return nil
}

// Get returns the stored analysis. Missing, expired and undecodable
// payloads all come back as ErrNoAnalysis.
func (s *Store) Get(_ context.Context, sessionID string) (*analysis.Result, string, error) {
	s.mu.RLock()
	e, ok := s.entries[sessionID]
	s.mu.RUnlock()

	if !ok || time.Now().After(e.expires) {
		return nil, "", analysis.ErrNoAnalysis
	}
	var result analysis.Result
	if err := json.Unmarshal(e.payload, &result); err != nil {
		return nil, "", analysis.ErrNoAnalysis
	}
	return &result, e.filename, nil
}

// Clear removes both stored fields together.
func (s *Store) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

func (s *Store) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for id, e := range s.entries {
			if now.After(e.expires) {
				delete(s.entries, id)
			}
		}
		s.mu.Unlock()
	}
}
