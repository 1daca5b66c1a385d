package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sinahmd/ecommerce/internal/modules/users"
)

var authSecret = []byte("test-jwt-secret")

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Authenticate(authSecret))
	r.GET("/me", RequireAuth(), func(c *gin.Context) {
		u, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "role": u.Role})
	})
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(t *testing.T, r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: AccessCookie, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func mintFor(t *testing.T, role string) string {
	t.Helper()
	tok, err := users.MintToken(authSecret, users.User{ID: "u-1", Role: role}, users.TokenAccess, time.Minute)
	if err != nil {
		t.Fatalf("MintToken: %v", err)
	}
	return tok
}

func TestRequireAuthWithoutCookie(t *testing.T) {
	w := doRequest(t, authRouter(), "/me", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuthWithValidCookie(t *testing.T) {
	w := doRequest(t, authRouter(), "/me", mintFor(t, users.RoleCustomer))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestRequireAuthWithBadCookie(t *testing.T) {
	w := doRequest(t, authRouter(), "/me", "garbage.token.value")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAdminRejectsCustomer(t *testing.T) {
	w := doRequest(t, authRouter(), "/admin", mintFor(t, users.RoleCustomer))
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	w := doRequest(t, authRouter(), "/admin", mintFor(t, users.RoleAdmin))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	tok, err := users.MintToken(authSecret, users.User{ID: "u-1", Role: users.RoleCustomer}, users.TokenRefresh, time.Minute)
	if err != nil {
		t.Fatalf("MintToken: %v", err)
	}
	w := doRequest(t, authRouter(), "/me", tok)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
