package analytics

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonpiedlaroute/leaseboost/internal/domain/tracking"
)

func TestGASendPayload(t *testing.T) {
	var gotQuery map[string][]string
	var gotBody gaPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ga := NewGA("G-TEST123", "secret-xyz")
	ga.Endpoint = srv.URL

	err := ga.Send(context.Background(), "client-1", "analysis_started", tracking.Params{
		"file_name": "bail.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"G-TEST123"}, gotQuery["measurement_id"])
	assert.Equal(t, []string{"secret-xyz"}, gotQuery["api_secret"])
	assert.Equal(t, "client-1", gotBody.ClientID)
	require.Len(t, gotBody.Events, 1)
	assert.Equal(t, "analysis_started", gotBody.Events[0].Name)
	assert.Equal(t, "bail.pdf", gotBody.Events[0].Params["file_name"])
}

func TestGASendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	ga := NewGA("G-TEST123", "bad-secret")
	ga.Endpoint = srv.URL

	err := ga.Send(context.Background(), "client-1", "page_view", nil)
	assert.ErrorContains(t, err, "status 403")
}

func TestDevSink(t *testing.T) {
	err := DevSink{}.Send(context.Background(), "client-1", "page_view", tracking.Params{"page_path": "/"})
	assert.NoError(t, err)
}
