package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func limiterRouter(l *LoginLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", l.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func postLogin(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestLoginLimiterBlocksAfterLimit(t *testing.T) {
	l := NewLoginLimiter(nil, 3, time.Minute)
	r := limiterRouter(l)

	for i := 0; i < 3; i++ {
		if code := postLogin(r, "10.0.0.1"); code != http.StatusOK {
			t.Fatalf("attempt %d: status = %d, want 200", i+1, code)
		}
	}
	if code := postLogin(r, "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("4th attempt: status = %d, want 429", code)
	}
}

func TestLoginLimiterIsPerIP(t *testing.T) {
	l := NewLoginLimiter(nil, 1, time.Minute)
	r := limiterRouter(l)

	if code := postLogin(r, "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first ip: status = %d, want 200", code)
	}
	if code := postLogin(r, "10.0.0.2"); code != http.StatusOK {
		t.Errorf("second ip must not share the window, got %d", code)
	}
	if code := postLogin(r, "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("first ip over limit: status = %d, want 429", code)
	}
}

func TestLoginLimiterWindowResets(t *testing.T) {
	l := NewLoginLimiter(nil, 1, 10*time.Millisecond)
	r := limiterRouter(l)

	if code := postLogin(r, "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if code := postLogin(r, "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", code)
	}

	time.Sleep(20 * time.Millisecond)
	if code := postLogin(r, "10.0.0.1"); code != http.StatusOK {
		t.Errorf("after window reset: status = %d, want 200", code)
	}
}
