package jobs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shopbridge/pkg/config"
	"shopbridge/pkg/faults"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	reg, err := LoadRegistry("")
	require.NoError(t, err)
	cfg := config.Config{JobsBaseURL: baseURL, JobTimeout: 2 * time.Second}
	return NewClient(cfg, reg, zap.NewNop().Sugar())
}

func TestInvokeRelaysVerbatim(t *testing.T) {
	var gotPath, gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"jobId":"j-1","queued":true}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	res, err := c.Invoke(context.Background(), FnPullProducts, "tok-abc", nil)
	require.NoError(t, err)

	assert.Equal(t, "/functions/v1/pull-products", gotPath)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
	assert.JSONEq(t, `{}`, gotBody, "pull carries an empty payload")
	assert.Equal(t, http.StatusAccepted, res.Status)
	assert.JSONEq(t, `{"jobId":"j-1","queued":true}`, string(res.Body))
	assert.Equal(t, "application/json", res.ContentType)
}

func TestInvokeRelaysUpstreamFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"rate limited by upstream"}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	res, err := c.Invoke(context.Background(), FnPushProducts, "tok", map[string]any{"mode": "changed"})
	require.NoError(t, err, "a job-level failure is relayed, not reinterpreted")
	assert.Equal(t, http.StatusBadGateway, res.Status)
	assert.JSONEq(t, `{"error":"rate limited by upstream"}`, string(res.Body))
}

func TestInvokeUnregisteredFunction(t *testing.T) {
	c := testClient(t, "http://localhost:1")
	_, err := c.Invoke(context.Background(), "reticulate-splines", "tok", nil)
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.ConfigurationError))
}

func TestInvokeUnreachableFunction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // deliberately dead

	c := testClient(t, srv.URL)
	_, err := c.Invoke(context.Background(), FnPullProducts, "tok", nil)
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.NetworkError))
}

func TestLoadRegistryOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"- name: pull-products\n  path: /fn/pull\n- name: reindex\n  path: /fn/reindex\n"), 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)

	fn, ok := reg.Lookup(FnPullProducts)
	require.True(t, ok)
	assert.Equal(t, "/fn/pull", fn.Path)

	// Defaults survive a partial override.
	fn, ok = reg.Lookup(FnPushProducts)
	require.True(t, ok)
	assert.Equal(t, "/functions/v1/push-products", fn.Path)

	_, ok = reg.Lookup("reindex")
	assert.True(t, ok)
}

func TestLoadRegistryRejectsIncompleteEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: broken\n"), 0o600))
	_, err := LoadRegistry(path)
	assert.Error(t, err)
}
