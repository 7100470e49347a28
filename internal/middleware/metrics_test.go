package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-roster/internal/service"
)

type observedRequest struct {
	method string
	path   string
	status int
}

type recordingMetrics struct {
	requests []observedRequest
}

func (r *recordingMetrics) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	r.requests = append(r.requests, observedRequest{method: method, path: path, status: status})
}

func newMetricsRouter(metrics httpMetrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(metrics, "/api/v1/"))
	api := r.Group("/api/v1")
	api.GET("/students/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestMetricsLabelsRosterRoutes(t *testing.T) {
	metrics := &recordingMetrics{}
	r := newMetricsRouter(metrics)

	for _, path := range []string{"/api/v1/students/7", "/api/v1/students/8", "/health", "/api/v1/nope/1"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, []observedRequest{
		{method: http.MethodGet, path: "/students/:id", status: http.StatusNoContent},
		{method: http.MethodGet, path: "/students/:id", status: http.StatusNoContent},
		{method: http.MethodGet, path: "/health", status: http.StatusOK},
		{method: http.MethodGet, path: unmatchedRoute, status: http.StatusNotFound},
	}, metrics.requests)
}

func TestMetricsExportsToPrometheus(t *testing.T) {
	metricsSvc := service.NewMetricsService()
	r := newMetricsRouter(metricsSvc)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/students/7", nil))

	rec := httptest.NewRecorder()
	metricsSvc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/students/:id",status="204"} 1`)
}

func TestMetricsWithoutRecorderPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(nil, ""))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}
