package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/idigest/idigest-server/pkg/helpers"
	"github.com/idigest/idigest-server/pkg/response"
)

const (
	CtxUserIDKey  = "userID"
	CtxLoginIDKey = "loginID"
)

// Auth validates the Authorization bearer token and injects the verified
// identity into the Gin context. Handlers never read identity from the
// request body, which is what makes cross-user access structurally
// impossible.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			response.Unauthorized(c, "missing access token")
			c.Abort()
			return
		}

		claims, err := jwt.Parse(token)
		if err != nil {
			response.Unauthorized(c, err.Error())
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxLoginIDKey, claims.LoginID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by Auth.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(CtxUserIDKey)
}

// LoginID returns the authenticated login id set by Auth.
func LoginID(c *gin.Context) string {
	return c.GetString(CtxLoginIDKey)
}
