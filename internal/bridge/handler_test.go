package bridge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shopbridge/pkg/middleware"
)

// testRouter mounts the API behind a stub session layer that injects the
// given shop identity, standing in for the real session middleware.
func testRouter(svc *Service, shop string) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if shop != "" {
				req = req.WithContext(middleware.WithShop(req.Context(), shop))
			}
			next.ServeHTTP(w, req)
		})
	})
	RegisterRoutes(r, svc, zap.NewNop().Sugar())
	return r
}

func TestStatusEndpoint(t *testing.T) {
	r := newRig(t)
	r.store.Link(testShop, testTenant)
	router := testRouter(r.svc, testShop)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, true, got["connected"])
	assert.Equal(t, testShop, got["shopDomain"])
	assert.Equal(t, testTenant, got["tenantId"])
	v, present := got["settings"]
	assert.True(t, present, "settings key present even when empty")
	assert.Nil(t, v)
}

func TestStatusEndpointNotLinked(t *testing.T) {
	r := newRig(t)
	router := testRouter(r.svc, testShop)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, false, got["connected"])
	assert.Equal(t, "not_linked", got["reason"])
	_, hasErr := got["error"]
	assert.False(t, hasErr)
}

func TestStatusEndpointWithoutSession(t *testing.T) {
	r := newRig(t)
	router := testRouter(r.svc, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/status", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestActionEndpointToggle(t *testing.T) {
	r := newRig(t)
	r.store.Link(testShop, testTenant)
	router := testRouter(r.svc, testShop)

	body := `{"intent":"toggle_auto","enabled":true,"intervalMinutes":30}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"autoSyncEnabled":true,"autoSyncIntervalMinutes":30}`, rec.Body.String())
}

func TestActionEndpointInvalidIntent(t *testing.T) {
	r := newRig(t)
	r.store.Link(testShop, testTenant)
	router := testRouter(r.svc, testShop)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(`{"intent":"purge"}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, false, got["ok"])
	assert.Equal(t, "invalid_shape", got["errorType"])
	assert.Zero(t, r.minter.calls)
}

func TestActionEndpointNotLinked(t *testing.T) {
	r := newRig(t)
	router := testRouter(r.svc, testShop)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(`{"intent":"pull"}`)))

	require.Equal(t, http.StatusConflict, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "not_linked", got["errorType"])
}

func TestActionEndpointRelaysJobResponse(t *testing.T) {
	r := newRig(t)
	r.store.Link(testShop, testTenant)
	router := testRouter(r.svc, testShop)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(`{"intent":"pull"}`)))

	// The recorder stub replies 202 {"jobId":"j-1"}; it must pass through
	// untouched.
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"jobId":"j-1"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestActionEndpointMalformedBody(t *testing.T) {
	r := newRig(t)
	router := testRouter(r.svc, testShop)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(`not json`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
