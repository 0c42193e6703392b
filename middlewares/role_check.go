package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cook-platform/utils"
)

// RoleRequired lets only users with the given role through; anyone else is
// sent home with message. Must run after LoginRequired.
func RoleRequired(role, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c)
		if user == nil || user.Role != role {
			if user != nil {
				utils.InfoLogger.Printf("Role check failed: %s (%s) on %s", user.Username, user.Role, c.Request.URL.Path)
			}
			Redirect(c, FlashError, message, "/")
			return
		}
		c.Next()
	}
}
