package http

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"integrationhub/internal/infrastructure/auth"
	"integrationhub/internal/infrastructure/config"
	"integrationhub/internal/infrastructure/crm"
	"integrationhub/internal/infrastructure/oauth"
	"integrationhub/internal/infrastructure/ratelimit"
	"integrationhub/internal/interfaces/http/middleware"
	"integrationhub/internal/shared/logger"
)

const redisPingTimeout = 5 * time.Second

// initInfrastructure sets up Redis, repositories and the provider-facing services.
func (c *Container) initInfrastructure() {
	cfg := c.cfg
	log := c.log

	if cfg.Redis.Enabled() {
		c.redis = initRedis(cfg, log)
	}

	c.repos = newRepositories(c.db, log)

	c.httpClient = oauth.NewHTTPClient(cfg.HTTPClient.Timeout())
	c.providerClient = oauth.NewProviderClient(c.httpClient, log)

	c.stateCodec = auth.NewStateCodec(cfg.OAuth.StateSecret)
	if !c.stateCodec.Signed() {
		log.Warnw("oauth state secret is not set, state tokens are accepted unsigned")
	}

	c.signatureVerifier = auth.NewSignatureVerifier(cfg.CRM.WebhookPublicKey, log)

	c.sessionStorage = crm.NewRepositorySessionStorage(c.repos.integrationRepo, c.repos.txManager, log)
	if err := c.sessionStorage.Init(context.Background()); err != nil {
		log.Warnw("failed to initialize HighLevel session storage", "error", err)
	}
	c.crmClient = crm.NewClient(crm.ClientConfig{
		APIBaseURL:   cfg.CRM.APIBaseURL,
		PrivateToken: cfg.CRM.PrivateToken,
		ClientID:     cfg.CRM.ClientID,
		ClientSecret: cfg.CRM.ClientSecret,
	}, c.httpClient, c.sessionStorage, log.With("component", "crm"))

	if cfg.Admin.Enabled() {
		c.operatorTokens = auth.NewOperatorTokenService(cfg.Admin.JWTSecret, cfg.Admin.Issuer)
	} else {
		log.Warnw("admin jwt secret is not set, operator endpoints are unauthenticated")
	}
	c.operatorAuthMiddleware = middleware.NewOperatorAuthMiddleware(c.operatorTokens, log)
	c.rateLimiter = middleware.NewRateLimiter(newLimiter(cfg, c.redis, log), log)
}

// initRedis creates and tests the Redis client connection. An unreachable server
// is logged and the client is kept; the rate limiter fails open until it answers.
func initRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warnw("failed to connect to Redis", "addr", cfg.Redis.GetAddr(), "error", err)
		return redisClient
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return redisClient
}

// newLimiter picks the Redis limiter when Redis is configured and an in-process
// one otherwise. Nil disables limiting.
func newLimiter(cfg *config.Config, redisClient *redis.Client, log logger.Interface) ratelimit.Limiter {
	limitCfg := ratelimit.Config{
		Requests: cfg.RateLimit.Requests,
		Window:   cfg.RateLimit.Window(),
	}
	if !limitCfg.Enabled() {
		log.Infow("rate limiting disabled")
		return nil
	}
	if redisClient != nil {
		return ratelimit.NewRedisLimiter(redisClient, limitCfg)
	}
	log.Infow("Redis not configured, using in-process rate limiter")
	return ratelimit.NewMemoryLimiter(limitCfg)
}
