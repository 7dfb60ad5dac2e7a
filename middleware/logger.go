package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		prefix := "➡️"
		if status >= 500 {
			prefix = "❌"
		} else if status >= 400 {
			prefix = "⚠️"
		}

		line := c.Request.Method + " " + c.Request.URL.Path
		if accountID, ok := c.Get(ContextAccountID); ok {
			log.Printf("%s %s %s %d %s account=%v", prefix, line, c.ClientIP(), status, latency, accountID)
			return
		}
		log.Printf("%s %s %s %d %s", prefix, line, c.ClientIP(), status, latency)
	}
}
