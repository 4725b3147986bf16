package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLimitedRouter(limiter *TokenBucket) *gin.Engine {
	r := gin.New()
	r.GET("/ping", limiter.Gin(), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func doGet(r *gin.Engine, remote string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remote
	r.ServeHTTP(w, req)
	return w
}

func TestTokenBucketLimitsPerIP(t *testing.T) {
	r := newLimitedRouter(NewTokenBucket(2, 2, nil))

	assert.Equal(t, http.StatusOK, doGet(r, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "10.0.0.1:1234").Code)

	w := doGet(r, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// A different client still has its own bucket.
	assert.Equal(t, http.StatusOK, doGet(r, "10.0.0.2:1234").Code)
}

func TestTokenBucketCustomKey(t *testing.T) {
	limiter := NewTokenBucket(1, 1, func(c *gin.Context) string {
		return c.GetHeader("X-User")
	})
	r := newLimitedRouter(limiter)

	get := func(user string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-User", user)
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("ana"))
	assert.Equal(t, http.StatusTooManyRequests, get("ana"))
	assert.Equal(t, http.StatusOK, get("ben"))
}
