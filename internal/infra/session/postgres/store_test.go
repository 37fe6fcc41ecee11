package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonpiedlaroute/leaseboost/internal/domain/analysis"
)

func newMockStore(t *testing.T, ttl time.Duration) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Store{db: db, ttl: ttl}, mock
}

func TestGetExpiredRowIsDeleted(t *testing.T) {
	store, mock := newMockStore(t, time.Hour)

	rows := sqlmock.NewRows([]string{"filename", "result_json", "updated_at"}).
		AddRow("bail.pdf", []byte(`{}`), time.Now().UTC().Add(-2*time.Hour))
	mock.ExpectQuery("SELECT filename, result_json, updated_at").
		WithArgs("s1").
		WillReturnRows(rows)
	mock.ExpectExec("DELETE FROM lease_sessions WHERE session_id").
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, _, err := store.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, analysis.ErrNoAnalysis)
	assert.NoError(t, mock.ExpectationsWereMet(), "expired rows must be deleted on read")
}

func TestPruneExpired(t *testing.T) {
	store, mock := newMockStore(t, time.Hour)

	mock.ExpectExec("DELETE FROM lease_sessions WHERE updated_at").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, store.pruneExpired(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	store, mock := newMockStore(t, time.Hour)

	mock.ExpectExec("INSERT INTO lease_sessions").
		WithArgs("s1", "bail.pdf", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	rows := sqlmock.NewRows([]string{"filename", "result_json", "updated_at"}).
		AddRow("bail.pdf", []byte(`{"executive_summary":"ok"}`), time.Now().UTC())
	mock.ExpectQuery("SELECT filename, result_json, updated_at").
		WithArgs("s1").
		WillReturnRows(rows)

	require.NoError(t, store.Save(context.Background(), "s1", &analysis.Result{ExecutiveSummary: "ok"}, "bail.pdf"))
	result, filename, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "bail.pdf", filename)
	assert.Equal(t, "ok", result.ExecutiveSummary)
	assert.NoError(t, mock.ExpectationsWereMet())
}
