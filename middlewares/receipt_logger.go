package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cook-platform/utils"
)

func ReceiptLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.InfoLogger.Printf("Generating receipt for booking ID: %s", c.Param("id"))

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			utils.InfoLogger.Printf("Receipt generated for booking ID: %s", c.Param("id"))
		} else {
			utils.ErrorLogger.Printf("Receipt not generated for booking ID: %s (status %d)", c.Param("id"), c.Writer.Status())
		}
	}
}
