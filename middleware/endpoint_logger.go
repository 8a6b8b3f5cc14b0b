package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fieldops/opsreport/util"
)

// EndpointCallLogger logs each HTTP request as a security/endpoint event.
// When util.SetSecurityLoggerDB has been called during startup, events are
// also persisted to the SecurityLog table.
func EndpointCallLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		caller, _ := GetCaller(c)

		details := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"raw_path":    c.Request.URL.Path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"query":       c.Request.URL.RawQuery,
		}
		if caller.Email != "" {
			details["caller"] = caller.Email
		}
		if caller.IsAdmin {
			details["admin"] = true
		}

		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventEndpointCall,
			Email:     caller.Email,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Message:   fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status),
			Details:   details,
		})
	}
}
