package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware permits credentialed cross-origin requests from a fixed
// allow-list of front-end origins. Requests from other origins get no CORS
// headers, so browsers refuse them.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := allowed[origin]; ok {
			header := c.Writer.Header()
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Credentials", "true")
			header.Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
			requested := c.GetHeader("Access-Control-Request-Headers")
			if requested == "" {
				requested = "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With"
			}
			header.Set("Access-Control-Allow-Headers", requested)
			header.Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
