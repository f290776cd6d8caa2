package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/restokitchen/pos/utils"
)

// WebSocketAuthMiddleware authenticates websocket upgrades. Browsers
// cannot set headers on the upgrade request, so the token rides in the
// query string.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
