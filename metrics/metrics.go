package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "officenav_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	HTTPDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "officenav_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
	RoutingRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "officenav_routing_requests_total",
		Help: "Total OSRM route requests",
	})
	RoutingFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "officenav_routing_fail_total",
		Help: "Total OSRM route failures",
	})
	RoutingDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "officenav_routing_duration_ms",
		Help:    "OSRM route call duration in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000},
	})
	DirectoryPublishTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "officenav_directory_publish_total",
		Help: "Total directory publishes from the admin editor",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPDurationMs)
	prometheus.MustRegister(RoutingRequestsTotal)
	prometheus.MustRegister(RoutingFailTotal)
	prometheus.MustRegister(RoutingDurationMs)
	prometheus.MustRegister(DirectoryPublishTotal)
}

// Middleware 按 gin 路由模板统计请求数与耗时, 未匹配路由记为 "unmatched"
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDurationMs.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	}
}

// Handler 暴露 /metrics
func Handler() http.Handler { return promhttp.Handler() }
