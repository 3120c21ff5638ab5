package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gin-gonic/gin"
)

func newLimitedRouter(t *testing.T, cfg RateLimitConfig) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	r := gin.New()
	r.GET("/x", RateLimit(NewRedisRateLimiter(client), cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, mr
}

func hit(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitBlocksOverBudget(t *testing.T) {
	router, _ := newLimitedRouter(t, RateLimitConfig{Limit: 2, Window: time.Minute})

	w := hit(router)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	w = hit(router)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = hit(router)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

func TestRateLimitFailsOpen(t *testing.T) {
	router, mr := newLimitedRouter(t, RateLimitConfig{Limit: 1, Window: time.Minute})
	mr.Close()

	// Redis being down must not take requests down with it.
	for i := 0; i < 3; i++ {
		w := hit(router)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
