package middleware

import (
	"errors"
	"net/http"
	"strings"

	"quizhub/models"
	"quizhub/services"

	"github.com/gin-gonic/gin"
)

// userContextKey is where AuthMiddleware stores the decoded claims.
const userContextKey = "user"

// AuthMiddleware requires a valid bearer access token. The decoded claims
// are attached to the request context; no store lookup happens here. Expired
// tokens get a distinguishing code so clients can attempt a silent refresh,
// while invalid tokens mean a hard logout.
func AuthMiddleware(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Access token required",
			})
			return
		}

		claims, err := tokens.VerifyAccessToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			if errors.Is(err, services.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"message": "Access token expired",
					"code":    "TOKEN_EXPIRED",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Invalid access token",
			})
			return
		}

		c.Set(userContextKey, claims)
		c.Next()
	}
}

// RequireRoles passes only when the authenticated role is in the allowed
// set. It must run after AuthMiddleware and never fetches identity itself.
func RequireRoles(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authorization required",
			})
			return
		}

		if !claims.Role.In(allowed...) {
			names := make([]string, 0, len(allowed))
			for _, role := range allowed {
				names = append(names, string(role))
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Access denied. Allowed roles " + strings.Join(names, " or "),
			})
			return
		}

		c.Next()
	}
}

// CurrentUser returns the claims set by AuthMiddleware.
func CurrentUser(c *gin.Context) (*services.AccessClaims, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*services.AccessClaims)
	return claims, ok
}
