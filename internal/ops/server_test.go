package ops

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warden/internal/metrics"
	"warden/internal/store"
)

func newOpsServer(t *testing.T) *Server {
	t.Helper()
	s, err := store.New(store.Dependencies{
		Path: filepath.Join(t.TempDir(), "whitelist.txt"),
	})
	require.NoError(t, err)
	s.Init()
	require.NoError(t, s.Add("steam_0:1:1"))

	return New(":0", s, metrics.NewCollector(), nil)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newOpsServer(t)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok entries=1\n", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newOpsServer(t)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "warden_whitelist_entries")
}

func TestHealthRejectsOtherMethods(t *testing.T) {
	srv := newOpsServer(t)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
