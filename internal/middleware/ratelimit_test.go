package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/logging"
)

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(1, 2)

	router := gin.New()
	router.Use(RateLimit(rl))
	router.GET("/video", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(addr string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/video", nil)
		req.RemoteAddr = addr
		router.ServeHTTP(w, req)
		return w
	}

	// the burst passes
	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, send("10.0.0.1:1000").Code)
	}

	w := send("10.0.0.1:1000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests"}`, w.Body.String())

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000").Code)
}

func TestRateLimiterRefillsAndForgetsIdleClients(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	ok, _ := rl.reserve("a")
	assert.True(t, ok)
	ok, wait := rl.reserve("a")
	assert.False(t, ok)
	assert.Equal(t, time.Second, wait)

	now = now.Add(time.Second)
	ok, _ = rl.reserve("a")
	assert.True(t, ok)

	rl.reserve("b")
	assert.Equal(t, 2, rl.clients())

	now = now.Add(clientIdle + time.Minute)
	rl.reserve("c")
	assert.Equal(t, 1, rl.clients())
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), Logger(logging.NewNopLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, "abc")
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}
