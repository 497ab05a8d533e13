package middlewares

import (
	"net/http"
	"strings"

	"github.com/devmatch-hq/devmatch/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextUserKey is where RequireAuth stores the authenticated user id.
const ContextUserKey = "user_id"

type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// RequireAuth enforces a valid bearer token and stores the resolved user id
// in the gin context.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
				"code":  "UNAUTHENTICATED",
			})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization format. Expected 'Bearer <token>'",
				"code":  "UNAUTHENTICATED",
			})
			c.Abort()
			return
		}

		userID, err := auth.ParseToken(am.secret, tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
				"code":  "UNAUTHENTICATED",
			})
			c.Abort()
			return
		}

		c.Set(ContextUserKey, userID)
		c.Next()
	}
}

// CurrentUser returns the authenticated user id set by RequireAuth.
func CurrentUser(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ContextUserKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
