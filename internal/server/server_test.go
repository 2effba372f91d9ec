package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	body := fmt.Sprintf(`
server:
  port: "0"
  mode: test
database:
  driver: memory
jwt:
  secret: server-test-secret
storage:
  backend: local
  root: %s
logging:
  level: error
metrics:
  enabled: true
  path: /metrics
`, filepath.Join(dir, "uploads"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewServerWithMemoryStores(t *testing.T) {
	srv, err := NewServer(context.Background(), memoryConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get("/api/v1/states")
	require.Equal(t, http.StatusOK, w.Code)
	var states []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &states))
	assert.Len(t, states, 36)

	w = get("/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sesi_http_requests_total")

	assert.Equal(t, http.StatusNotFound, get("/uploads/certificates/missing.pdf").Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	srv, err := NewServer(context.Background(), memoryConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewServerRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: memory\n"), 0o600))

	_, err := NewServer(context.Background(), path)
	assert.Error(t, err)
}
