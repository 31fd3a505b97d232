package handler

import (
	"stack-settlement/internal/adapter/http/middleware"
	redisStore "stack-settlement/internal/adapter/storage/redis"
	"stack-settlement/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	SettlementSvc  ports.SettlementService
	RewardSvc      ports.RewardService
	FeePayerSvc    ports.FeePayerService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	ServiceKey     string             // empty = internal routes disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(64 << 10))

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Deep health check: PostgreSQL, Redis and the Solana RPC node
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	burnHandler := NewBurnHandler(deps.SettlementSvc)
	burn := v1.Group("/burn")
	{
		// Public
		burn.GET("/upgrades", rl(middleware.GroupRead), burnHandler.Upgrades)
		burn.GET("/leaderboard", rl(middleware.GroupRead), burnHandler.Leaderboard)

		// Authenticated
		burn.GET("/purchased", jwtAuth, rl(middleware.GroupRead), burnHandler.Purchased)
		burn.GET("/spendable-balance", jwtAuth, rl(middleware.GroupRead), burnHandler.SpendableBalance)
		burn.GET("/fuel-cell", jwtAuth, rl(middleware.GroupRead), burnHandler.FuelCell)
		burn.POST("/prepare", jwtAuth, rl(middleware.GroupBurnWrite), burnHandler.Prepare)
		burn.POST("/confirm", jwtAuth, rl(middleware.GroupBurnWrite), burnHandler.Confirm)
	}

	if deps.RewardSvc != nil {
		rewardHandler := NewRewardHandler(deps.RewardSvc)
		rewards := v1.Group("/rewards", jwtAuth)
		{
			rewards.GET("", rl(middleware.GroupRead), rewardHandler.List)
			rewards.GET("/balance", rl(middleware.GroupRead), rewardHandler.Balance)
			rewards.POST("/:id/claim", rl(middleware.GroupRewardClaim), rewardHandler.Claim)
		}

		// Trusted backend callers only
		if deps.ServiceKey != "" {
			internal := v1.Group("/internal", middleware.ServiceKeyAuth(deps.ServiceKey, deps.Logger))
			internal.POST("/rewards/milestones", rl(middleware.GroupRewardGrant), rewardHandler.GrantMilestones)
		}
	}

	if deps.FeePayerSvc != nil {
		v1.GET("/fee-payer/balance", rl(middleware.GroupRead), FeePayerBalance(deps.FeePayerSvc))
	}

	return r
}
