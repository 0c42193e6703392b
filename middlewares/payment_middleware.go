package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cook-platform/utils"
)

// PaymentSecurityHeaders keeps payment pages out of caches and frames.
func PaymentSecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=(self)")
		c.Next()
	}
}

func LogPaymentRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		actor := "anonymous"
		if user := GetUser(c); user != nil {
			actor = user.Username
		}
		utils.InfoLogger.Printf(
			"Payment request - Method: %s, Booking: %s, User: %s, Status: %d, Duration: %v",
			c.Request.Method, c.Param("id"), actor, c.Writer.Status(), time.Since(start),
		)
	}
}
