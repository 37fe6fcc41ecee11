package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"time"

	_ "github.com/lib/pq"

	"github.com/bonpiedlaroute/leaseboost/internal/domain/analysis"
)

// Connect opens the Postgres pool used by the session store.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		return nil, err
	}
	return db, nil
}

// Store is the Postgres variant of the session store.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

func NewStore(db *sql.DB, ttl time.Duration) *Store {
	s := &Store{db: db, ttl: ttl}
	if ttl > 0 {
		go s.sweep()
	}
	return s
}

func (s *Store) Save(ctx context.Context, sessionID string, result *analysis.Result, filename string) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO lease_sessions (session_id, filename, result_json, updated_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (session_id) DO UPDATE SET
 filename=EXCLUDED.filename, result_json=EXCLUDED.result_json, updated_at=EXCLUDED.updated_at;
`
	_, err = s.db.ExecContext(ctx, q, sessionID, filename, payload, time.Now().UTC())
	return err
}

func (s *Store) Get(ctx context.Context, sessionID string) (*analysis.Result, string, error) {
	const q = `
SELECT filename, result_json, updated_at
FROM lease_sessions
WHERE session_id=$1 LIMIT 1;
`
	var (
		filename  string
		payload   []byte
		updatedAt time.Time
	)
	err := s.db.QueryRowContext(ctx, q, sessionID).Scan(&filename, &payload, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", analysis.ErrNoAnalysis
	}
	if err != nil {
		return nil, "", err
	}
	if s.ttl > 0 && time.Since(updatedAt) > s.ttl {
		// stale row, drop it on the way out
		_, _ = s.db.ExecContext(ctx, `DELETE FROM lease_sessions WHERE session_id=$1;`, sessionID)
		return nil, "", analysis.ErrNoAnalysis
	}

	var result analysis.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, "", analysis.ErrNoAnalysis
	}
	return &result, filename, nil
}

func (s *Store) Clear(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM lease_sessions WHERE session_id=$1;`, sessionID)
	return err
}

func (s *Store) pruneExpired(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM lease_sessions WHERE updated_at < $1;`,
		time.Now().UTC().Add(-s.ttl))
	return err
}

func (s *Store) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := s.pruneExpired(ctx); err != nil {
			log.Printf("session sweep: %v", err)
		}
		cancel()
	}
}
