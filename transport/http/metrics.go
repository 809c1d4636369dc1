package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authgate_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	rateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authgate_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		},
		[]string{"class"},
	)
	noncesIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "authgate_nonces_issued_total",
		Help: "Authentication challenges issued.",
	})
	loginsSucceeded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "authgate_logins_succeeded_total",
		Help: "Successful wallet logins.",
	})
	loginsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "authgate_logins_failed_total",
		Help: "Rejected wallet logins.",
	})
	logouts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "authgate_logouts_total",
		Help: "Logout requests.",
	})
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, rateLimited,
		noncesIssued, loginsSucceeded, loginsFailed, logouts)
}

// RegisterNonceGauge registers a gauge tracking outstanding nonces in the
// store.
func RegisterNonceGauge(countFn func() float64) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "authgate_nonce_store_size",
			Help: "Number of outstanding authentication nonces.",
		},
		countFn,
	))
}

// RequestMetrics records per-request counters.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}

// MetricsHandler returns the Prometheus metrics HTTP handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
