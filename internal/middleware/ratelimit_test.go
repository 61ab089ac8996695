package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/movie-review-api/internal/config"
)

func newLimitedEcho(t *testing.T, cfg config.RateLimitConfig, rdb *redis.Client) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Use(NewTokenBucket(cfg, rdb))
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	return e
}

func TestTokenBucket_ExhaustedBucketAnswers429(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       1,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
	e := newLimitedEcho(t, cfg, rdb)

	first := get(e, "/ping")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := get(e, "/ping")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "rate limit exceeded")
}

func TestTokenBucket_NilClientIsPassThrough(t *testing.T) {
	e := newLimitedEcho(t, config.LoadRateLimitConfig(), nil)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(e, "/ping").Code)
	}
}

func TestBuildRateKey_DefaultIsIPAndRouteScoped(t *testing.T) {
	// The limiter is installed with e.Use and therefore runs before
	// JWTAuth populates the context, so the default strategy must not
	// carry a user component that would always degrade to "anon".
	cfg := config.LoadRateLimitConfig()
	assert.Equal(t, "ip_route", cfg.KeyStrategy)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/movies", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/movies")

	key := buildRateKey(cfg, c)
	assert.Contains(t, key, "route:GET /api/movies")
	assert.NotContains(t, key, "anon")
}
