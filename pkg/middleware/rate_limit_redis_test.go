package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisRateLimitMiddleware_Basic(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})

	r := gin.New()
	r.Use(RedisRateLimitMiddleware(client, 1, 0, 1*time.Second))
	r.GET("/r", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, requestFrom("10.2.0.1", "/r"))
	require.Equal(t, http.StatusOK, w1.Code)

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, requestFrom("10.2.0.1", "/r"))
	if w2.Code == http.StatusOK {
		// the first request landed at the very end of a window; the next one must be limited
		w2 = httptest.NewRecorder()
		r.ServeHTTP(w2, requestFrom("10.2.0.1", "/r"))
	}
	require.Equal(t, http.StatusTooManyRequests, w2.Code)

	// a different client has its own window
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, requestFrom("10.2.0.2", "/r"))
	require.Equal(t, http.StatusOK, w3.Code)
}

func TestRedisRateLimitMiddleware_NilClientFallsBack(t *testing.T) {
	r := gin.New()
	r.Use(RedisRateLimitMiddleware(nil, 10, 5, time.Second))
	r.GET("/r", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, requestFrom("10.2.0.3", "/r"))
	require.Equal(t, http.StatusOK, w.Code)
}
