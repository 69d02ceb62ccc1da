package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"notes-service/pkg/config"
)

// LoginRateLimit returns a per-IP rate limiter for the login endpoint. It
// slows credential stuffing; authenticated routes are not limited here.
func LoginRateLimit(cfg *config.RateLimitConfig) echo.MiddlewareFunc {
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(
		echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(cfg.LoginPerSecond),
			Burst: cfg.LoginBurst,
		},
	)

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many requests"})
		},
	})
}
