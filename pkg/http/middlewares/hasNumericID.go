package middlewares

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func HasNumericID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A valid numeric id is missing"})
			c.Abort()
			return
		}

		c.Next()
	}
}
