package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const unmatchedRoute = "unmatched"

type httpMetrics interface {
	ObserveHTTPRequest(method, path string, status int, duration time.Duration)
}

// Metrics records request counts and latency per roster route. The API prefix is trimmed from
// the label so dashboards survive a prefix change; requests that match no route share one label.
func Metrics(metrics httpMetrics, apiPrefix string) gin.HandlerFunc {
	prefix := strings.TrimRight(apiPrefix, "/")
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		metrics.ObserveHTTPRequest(c.Request.Method, routeLabel(c.FullPath(), prefix), c.Writer.Status(), time.Since(start))
	}
}

func routeLabel(route, prefix string) string {
	if route == "" {
		return unmatchedRoute
	}
	if prefix != "" && strings.HasPrefix(route, prefix+"/") {
		return strings.TrimPrefix(route, prefix)
	}
	return route
}
