package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wesleysambacht/booking/internal/metrics"
)

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
}

// RequestLogger logs one line per request; 5xx responses are logged as warnings.
func RequestLogger(log Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start)
		if status >= 500 {
			log.Warn("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, elapsed)
			return
		}
		log.Info("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, elapsed)
	}
}

// Instrument records request counts and latency by route template.
func Instrument(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
