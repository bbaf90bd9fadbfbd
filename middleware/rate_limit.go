package middleware

import (
	"fmt"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/radmastery/radprep_api/services"
	"github.com/radmastery/radprep_api/shared"
)

// RateLimitMiddleware is a fixed-window limiter keyed by user id when
// authenticated and client IP otherwise. Counters live in redis so the
// window is shared across instances; when redis is down requests pass
// through unthrottled.
type RateLimitMiddleware struct {
	appContext.DefaultService

	redisSvc *services.RedisService

	requestsPerWindow int
	window            time.Duration
}

const RATE_LIMIT_MIDDLEWARE_SVC = "rate_limit"

func (svc RateLimitMiddleware) Id() string {
	return RATE_LIMIT_MIDDLEWARE_SVC
}

func (svc *RateLimitMiddleware) Configure(ctx *appContext.Context) error {
	svc.requestsPerWindow = 120
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			svc.requestsPerWindow = n
		}
	}
	svc.window = time.Minute

	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitMiddleware) Start() error {
	svc.redisSvc = svc.Service(services.REDIS_SVC).(*services.RedisService)
	return nil
}

func (svc *RateLimitMiddleware) Limit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := UserIDFromContext(c)
		if caller == "" {
			caller = c.IP()
		}

		window := time.Now().Unix() / int64(svc.window.Seconds())
		key := fmt.Sprintf("rate:%s:%d", caller, window)

		client := svc.redisSvc.GetClient()
		count, err := client.Incr(c.Context(), key).Result()
		if err != nil {
			log.WithError(err).Debug("Rate limit counter unavailable")
			return c.Next()
		}
		if count == 1 {
			client.Expire(c.Context(), key, svc.window)
		}

		if count > int64(svc.requestsPerWindow) {
			c.Set("Retry-After", strconv.Itoa(int(svc.window.Seconds())))
			return shared.ResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", nil)
		}
		return c.Next()
	}
}
