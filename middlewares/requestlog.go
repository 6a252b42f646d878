package middlewares

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogMiddleware logs one line per request with method, path, status,
// and elapsed time. Analysis runs can take minutes end to end, so the elapsed
// time here is the first place slow upstream providers show up.
func RequestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Printf("%s %s -> %d in %s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
