package middleware

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"integrationhub/internal/infrastructure/auth"
	"integrationhub/internal/infrastructure/metrics"
	"integrationhub/internal/infrastructure/ratelimit"
	"integrationhub/internal/shared/constants"
	"integrationhub/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(engine *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	var seen string
	engine.GET("/ping", func(c *gin.Context) {
		seen = c.GetString(constants.ContextKeyRequestID)
		c.Status(http.StatusNoContent)
	})

	w := perform(engine, http.MethodGet, "/ping", nil)
	assert.NotEmpty(t, seen)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, w.Header().Get(constants.HeaderXRequestID))

	w = perform(engine, http.MethodGet, "/ping", map[string]string{constants.HeaderXRequestID: "req-42"})
	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", w.Header().Get(constants.HeaderXRequestID))
}

func TestRateLimiter(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(ratelimit.Config{Requests: 2, Window: time.Minute})
	engine := gin.New()
	engine.GET("/connect", NewRateLimiter(limiter, logger.NewNopLogger()).Limit("connect"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/connect", nil).Code)
	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/connect", nil).Code)

	w := perform(engine, http.MethodGet, "/connect", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}

func TestRateLimiter_TextRejection(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(ratelimit.Config{Requests: 1, Window: time.Minute})
	engine := gin.New()
	engine.GET("/connect", NewRateLimiter(limiter, logger.NewNopLogger()).LimitText("connect"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/connect", nil).Code)

	w := perform(engine, http.MethodGet, "/connect", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too many requests, please try again later", w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
}

func TestRateLimiter_ForwardedFor(t *testing.T) {
	newEngine := func(trusted []string) *gin.Engine {
		limiter := ratelimit.NewMemoryLimiter(ratelimit.Config{Requests: 2, Window: time.Minute})
		engine := gin.New()
		require.NoError(t, engine.SetTrustedProxies(trusted))
		engine.GET("/connect", NewRateLimiter(limiter, logger.NewNopLogger()).Limit("connect"), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return engine
	}
	forwarded := func(i int) map[string]string {
		return map[string]string{"X-Forwarded-For": fmt.Sprintf("10.0.0.%d", i)}
	}

	// untrusted peer: the header is ignored and every request counts against the peer
	engine := newEngine(nil)
	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/connect", forwarded(1)).Code)
	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/connect", forwarded(2)).Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(engine, http.MethodGet, "/connect", forwarded(3)).Code)

	// httptest requests come from 192.0.2.1
	engine = newEngine([]string{"192.0.2.1"})
	for i := 1; i <= 5; i++ {
		assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/connect", forwarded(i)).Code, i)
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, stderrors.New("redis: connection refused")
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	engine := gin.New()
	engine.GET("/connect", NewRateLimiter(failingLimiter{}, logger.NewNopLogger()).Limit("connect"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/connect", nil).Code)

	engine = gin.New()
	engine.GET("/connect", NewRateLimiter(nil, logger.NewNopLogger()).Limit("connect"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/connect", nil).Code)
}

func TestOperatorAuth(t *testing.T) {
	tokens := auth.NewOperatorTokenService("operator-secret", "integrationhub")
	token, err := tokens.Issue("ops@example.com", time.Hour)
	require.NoError(t, err)

	engine := gin.New()
	var operator string
	engine.POST("/revoke", NewOperatorAuthMiddleware(tokens, logger.NewNopLogger()).RequireOperator(), func(c *gin.Context) {
		operator = c.GetString(constants.ContextKeyOperator)
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers[constants.HeaderAuthorization] = tt.header
			}
			assert.Equal(t, tt.status, perform(engine, http.MethodPost, "/revoke", headers).Code)
		})
	}
	assert.Equal(t, "ops@example.com", operator)
}

func TestOperatorAuth_DisabledPassesThrough(t *testing.T) {
	engine := gin.New()
	engine.POST("/revoke", NewOperatorAuthMiddleware(nil, logger.NewNopLogger()).RequireOperator(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, perform(engine, http.MethodPost, "/revoke", nil).Code)
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(logger.NewNopLogger()))
	engine.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := perform(engine, http.MethodGet, "/panic", map[string]string{constants.HeaderAuthorization: "Bearer secret"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestMetrics(t *testing.T) {
	engine := gin.New()
	engine.Use(Metrics())
	engine.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	before := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/health", "200"))
	perform(engine, http.MethodGet, "/health", nil)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/health", "200")))

	unmatched := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, unmatchedRoute, "404"))
	perform(engine, http.MethodGet, "/missing", nil)
	assert.Equal(t, unmatched+1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues(http.MethodGet, unmatchedRoute, "404")))
}
