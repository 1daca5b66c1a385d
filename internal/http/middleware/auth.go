package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinahmd/ecommerce/internal/modules/users"
)

// Cookie names for the JWT pair. Both are HttpOnly; the browser never
// reads them, it just carries them.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

const (
	ctxKeyUserID   = "user_id"
	ctxKeyUserRole = "user_role"
)

// ContextUser is the authenticated identity stored on the request.
type ContextUser struct {
	ID   string
	Role string
}

// Authenticate reads the access token cookie and, when it verifies,
// attaches the user identity to the context. Missing or bad tokens do
// not abort; route guards decide whether auth is required.
func Authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(AccessCookie)
		if err != nil || raw == "" {
			c.Next()
			return
		}

		claims, err := users.ParseToken(secret, raw, users.TokenAccess)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ctxKeyUserID, claims.Subject)
		c.Set(ctxKeyUserRole, claims.Role)
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (ContextUser, bool) {
	id := c.GetString(ctxKeyUserID)
	if id == "" {
		return ContextUser{}, false
	}
	return ContextUser{ID: id, Role: c.GetString(ctxKeyUserRole)}, true
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":      "authentication required",
			"request_id": GetRequestID(c),
		})
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "authentication required",
				"request_id": GetRequestID(c),
			})
			return
		}
		if u.Role != users.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "forbidden",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}
