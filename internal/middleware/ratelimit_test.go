package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestThrottleAllowsUpToLimit(t *testing.T) {
	th := NewThrottle(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !th.Allow("u:1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if th.Allow("u:1") {
		t.Fatal("request over the limit should be rejected")
	}
}

func TestThrottleKeysAreIndependent(t *testing.T) {
	th := NewThrottle(1, time.Minute)
	if !th.Allow("u:1") {
		t.Fatal("first key should be allowed")
	}
	if !th.Allow("u:2") {
		t.Fatal("second key should not share the first key's budget")
	}
	if th.Allow("u:1") {
		t.Fatal("first key should be exhausted")
	}
}

func TestThrottleWindowSlides(t *testing.T) {
	th := NewThrottle(1, 10*time.Millisecond)
	if !th.Allow("ip:10.0.0.1") {
		t.Fatal("first request should be allowed")
	}
	if th.Allow("ip:10.0.0.1") {
		t.Fatal("second request inside the window should be rejected")
	}
	time.Sleep(20 * time.Millisecond)
	if !th.Allow("ip:10.0.0.1") {
		t.Fatal("request after the window elapsed should be allowed")
	}
}

func TestThrottleKeyPrefersAuthenticatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	if got := throttleKey(c); got != "ip:"+c.ClientIP() {
		t.Fatalf("anonymous key = %q, want ip fallback", got)
	}
	c.Set("user_id", uint(42))
	if got := throttleKey(c); got != "u:42" {
		t.Fatalf("authenticated key = %q, want u:42", got)
	}
}

func TestRateLimitRespondsWith429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(NewThrottle(1, time.Minute)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != want {
			t.Fatalf("request %d: status = %d, want %d", i+1, w.Code, want)
		}
	}
}
