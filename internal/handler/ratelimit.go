package handler

import (
	"net/http"
	"time"

	"cuentos-server/internal/models"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewIntakeRateLimit builds the per-IP throttle for the public intake
// endpoint. Counters live in redis so the limit holds across replicas.
func NewIntakeRateLimit(client *redis.Client, limit uint, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	store := ratelimit.RedisStore(&ratelimit.RedisOptions{
		RedisClient: client,
		Rate:        window,
		Limit:       limit,
	})
	return intakeRateLimit(store, log)
}

func intakeRateLimit(store ratelimit.Store, log *zap.Logger) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			rateLimitedTotal.Inc()
			log.Warn("Intake rate limit exceeded",
				zap.String("clientIP", c.ClientIP()),
				zap.Time("resetTime", info.ResetTime),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Code:    models.ErrCodeRateLimited,
				Message: "Too many requests, please try again later",
			})
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
}
