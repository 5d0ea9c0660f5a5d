package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/pkg/metrics"
)

const msgTooManyRequests = "Too many requests, try again later"

// RateLimit allows a bounded number of hits per client address on route.
// Limiter errors let the request through.
func RateLimit(limiter ports.RateLimiter, route string, log zerolog.Logger) Stage {
	return func(c echo.Context) (Outcome, error) {
		ip := c.RealIP()
		if ip == "" {
			return Continue, nil
		}

		allowed, retryAfter, err := limiter.Allow(c.Request().Context(), route+":"+ip)
		if err != nil {
			log.Warn().Err(err).Str("route", route).Str("remote_ip", ip).Msg("rate limiter unavailable")
			return Continue, nil
		}
		if allowed {
			return Continue, nil
		}

		metrics.RateLimitedTotal.WithLabelValues(route).Inc()
		c.Response().Header().Set(echo.HeaderRetryAfter, strconv.Itoa(retrySeconds(retryAfter)))
		return halt(c, http.StatusTooManyRequests, msgTooManyRequests)
	}
}

func retrySeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}
