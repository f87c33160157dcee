package http

import (
	"github.com/gin-gonic/gin"

	"integrationhub/internal/infrastructure/metrics"
	"integrationhub/internal/interfaces/http/handlers"
	"integrationhub/internal/interfaces/http/middleware"
)

const (
	rateLimitScopeConnect = "connect"
	rateLimitScopeLink    = "link"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	r := c.engine
	h := c.hdlrs

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(c.log))
	r.Use(middleware.Recovery(c.log))
	r.Use(middleware.Metrics())

	r.GET("/health", h.healthHandler.HealthCheck)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		api.POST("/ghl/webhook", h.webhookHandler.Receive)

		api.GET("/wafeq/connect", c.rateLimiter.LimitText(rateLimitScopeConnect), h.oauthHandler.ConnectWafeq)
		api.GET("/oauth/wafeq/callback", h.oauthHandler.WafeqCallback)
		api.GET("/oauth/crm/callback", h.oauthHandler.CRMCallback)
	}

	operator := api.Group("")
	operator.Use(c.operatorAuthMiddleware.RequireOperator())
	{
		operator.POST("/oauth/wafeq/revoke", h.oauthHandler.RevokeWafeq)
		operator.POST("/wafeq/link", c.rateLimiter.Limit(rateLimitScopeLink), h.integrationHandler.LinkWafeqAPIKey)
		operator.GET("/ghl/contacts", h.integrationHandler.SearchContacts)
	}

	r.NoRoute(handlers.NotFound)
}
