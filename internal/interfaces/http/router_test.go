package http

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"integrationhub/internal/infrastructure/auth"
	"integrationhub/internal/infrastructure/config"
	"integrationhub/internal/infrastructure/database"
	"integrationhub/internal/infrastructure/migration"
	sharedConfig "integrationhub/internal/shared/config"
	"integrationhub/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContainer(t *testing.T) (*Container, *config.Config) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Database = sharedConfig.DatabaseConfig{Driver: sharedConfig.DriverSQLite, Database: ":memory:"}
	cfg.HTTPClient.TimeoutSeconds = 5
	cfg.OAuth.StateSecret = "state-secret"
	cfg.CRM.APIBaseURL = config.DefaultCRMAPIBaseURL
	cfg.CRM.TokenURL = config.DefaultCRMTokenURL
	cfg.CRM.PrivateToken = "pit-token"
	cfg.Wafeq.ClientID = "wafeq-client"
	cfg.Wafeq.ClientSecret = "wafeq-secret"
	cfg.Wafeq.RedirectURI = "https://hub.example.com/api/oauth/wafeq/callback"
	cfg.Wafeq.AuthorizeURL = config.DefaultWafeqAuthorize
	cfg.Wafeq.TokenURL = config.DefaultWafeqTokenURL
	cfg.Wafeq.RevokeURL = config.DefaultWafeqRevokeURL
	cfg.Wafeq.ProbeURL = config.DefaultWafeqProbeURL
	cfg.Admin.JWTSecret = "operator-secret"
	cfg.Admin.Issuer = "integrationhub"
	cfg.RateLimit.Requests = 2
	cfg.RateLimit.WindowSeconds = 60

	gdb, err := database.Open(&cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(gdb) })

	manager, err := migration.NewManager(cfg.Database.Driver)
	require.NoError(t, err)
	require.NoError(t, manager.Migrate(context.Background(), gdb))

	c := NewContainer(gdb, cfg, logger.NewNopLogger())
	c.SetupRoutes()
	t.Cleanup(func() { c.Shutdown(context.Background()) })
	return c, cfg
}

func serve(c *Container, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *nethttp.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	c.GetEngine().ServeHTTP(w, req)
	return w
}

func operatorHeader(t *testing.T, cfg *config.Config) map[string]string {
	t.Helper()
	token, err := auth.NewOperatorTokenService(cfg.Admin.JWTSecret, cfg.Admin.Issuer).Issue("ops@example.com", time.Hour)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestRouter_PublicRoutes(t *testing.T) {
	c, _ := newTestContainer(t)

	w := serve(c, nethttp.MethodGet, "/health", "", nil)
	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(c, nethttp.MethodGet, "/metrics", "", nil)
	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "integrationhub_http_requests_total")

	w = serve(c, nethttp.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, nethttp.StatusNotFound, w.Code)

	w = serve(c, nethttp.MethodPost, "/api/ghl/webhook", "", nil)
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"Missing request body"}`, w.Body.String())

	w = serve(c, nethttp.MethodGet, "/api/oauth/crm/callback", "", nil)
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing code", w.Body.String())
}

func TestRouter_ConnectRedirectsAndIsRateLimited(t *testing.T) {
	c, _ := newTestContainer(t)

	for i := 0; i < 2; i++ {
		w := serve(c, nethttp.MethodGet, "/api/wafeq/connect?locationId=loc-1", "", nil)
		require.Equal(t, nethttp.StatusFound, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Location"), config.DefaultWafeqAuthorize))
	}

	w := serve(c, nethttp.MethodGet, "/api/wafeq/connect?locationId=loc-1", "", nil)
	assert.Equal(t, nethttp.StatusTooManyRequests, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.NotContains(t, w.Body.String(), "{")
}

func TestRouter_RateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	c, _ := newTestContainer(t)

	for i := 1; i <= 2; i++ {
		w := serve(c, nethttp.MethodGet, "/api/wafeq/connect?locationId=loc-1", "", map[string]string{
			"X-Forwarded-For": fmt.Sprintf("10.0.0.%d", i),
		})
		require.Equal(t, nethttp.StatusFound, w.Code)
	}

	w := serve(c, nethttp.MethodGet, "/api/wafeq/connect?locationId=loc-1", "", map[string]string{
		"X-Forwarded-For": "10.0.0.3",
	})
	assert.Equal(t, nethttp.StatusTooManyRequests, w.Code)
}

func TestRouter_OperatorRoutesRequireToken(t *testing.T) {
	c, cfg := newTestContainer(t)

	w := serve(c, nethttp.MethodGet, "/api/ghl/contacts?locationId=loc-1", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, w.Code)

	w = serve(c, nethttp.MethodPost, "/api/oauth/wafeq/revoke", `{"locationId":"loc-1"}`, map[string]string{
		"Authorization": "Bearer not-a-token",
	})
	assert.Equal(t, nethttp.StatusUnauthorized, w.Code)

	w = serve(c, nethttp.MethodGet, "/api/ghl/contacts", "", operatorHeader(t, cfg))
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)

	w = serve(c, nethttp.MethodPost, "/api/oauth/wafeq/revoke", `{"locationId":"loc-404"}`, operatorHeader(t, cfg))
	assert.Equal(t, nethttp.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Wafeq integration not found for this locationId"}`, w.Body.String())
}
