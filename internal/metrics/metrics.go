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
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "photomarket",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "photomarket",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	eligibilityDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "photomarket",
			Subsystem: "marketplace",
			Name:      "eligibility_decisions_total",
			Help:      "Eligibility gate results by reason.",
		},
		[]string{"reason"},
	)

	proposalSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "photomarket",
			Subsystem: "marketplace",
			Name:      "proposal_submissions_total",
			Help:      "Proposal submissions by outcome.",
		},
		[]string{"outcome"},
	)

	creditsDebited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "photomarket",
			Subsystem: "credits",
			Name:      "debited_total",
			Help:      "Total connects spent on proposals.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		eligibilityDecisions,
		proposalSubmissions,
		creditsDebited,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registered collectors.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency by route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func RecordEligibility(reason string) {
	eligibilityDecisions.WithLabelValues(reason).Inc()
}

func RecordSubmission(outcome string) {
	proposalSubmissions.WithLabelValues(outcome).Inc()
}

func RecordDebit(amount int64) {
	if amount > 0 {
		creditsDebited.Add(float64(amount))
	}
}
