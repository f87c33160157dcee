package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"integrationhub/internal/infrastructure/auth"
	"integrationhub/internal/infrastructure/config"
	"integrationhub/internal/infrastructure/crm"
	"integrationhub/internal/infrastructure/oauth"
	"integrationhub/internal/interfaces/http/middleware"
	"integrationhub/internal/shared/logger"
)

// Container holds all infrastructure components, repositories, use cases and handlers.
// It is responsible for wiring everything together and providing a Shutdown() method
// for graceful termination.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Repositories
	repos *repositories

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Middlewares
	operatorAuthMiddleware *middleware.OperatorAuthMiddleware
	rateLimiter            *middleware.RateLimiter

	// Provider-facing services
	httpClient        *http.Client
	providerClient    *oauth.ProviderClient
	stateCodec        *auth.StateCodec
	signatureVerifier *auth.SignatureVerifier
	operatorTokens    *auth.OperatorTokenService
	sessionStorage    *crm.RepositorySessionStorage
	crmClient         *crm.Client
}

// NewContainer creates a new Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) *Container {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// gin trusts every peer's forwarding headers until told otherwise
	if err := c.engine.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		log.Errorw("invalid trusted proxies, forwarding headers ignored", "error", err)
		_ = c.engine.SetTrustedProxies(nil)
	}

	// Section 1: Infrastructure - Redis, repositories, provider clients
	c.initInfrastructure()

	// Section 2: Use cases
	c.initUseCases()

	// Section 3: Handlers and middlewares
	c.initHandlers()

	return c
}

// GetEngine returns the Gin engine
func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}

// Shutdown releases the resources owned by the container. The database handle
// belongs to the caller.
func (c *Container) Shutdown(ctx context.Context) {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close Redis client", "error", err)
		}
	}
	c.log.Infow("container shut down")
}
