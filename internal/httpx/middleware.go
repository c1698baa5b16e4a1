package httpx

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "rid"

// RequestID propagates X-Request-ID or mints one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		uid := UserID(c)
		if uid == "" {
			uid = "-"
		}
		log.Printf("[http] rid=%s uid=%s %s %s status=%d dur=%s",
			RequestIDFrom(c), uid, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
