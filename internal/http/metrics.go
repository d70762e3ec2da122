package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "chitieu"

// appMetrics lives in a registry of its own so several servers can run in
// one process.
type appMetrics struct {
	registry        *prometheus.Registry
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	mutations       *prometheus.CounterVec
	backendErrors   prometheus.Counter
	staleReports    prometheus.Counter
	uptime          time.Time
}

func newAppMetrics() *appMetrics {
	m := &appMetrics{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "How many HTTP requests processed, partitioned by status code, method and route.",
		}, []string{"code", "method", "route"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "The HTTP request latencies in seconds.",
		}, []string{"code", "method", "route"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "mutations_total",
			Help:      "Successful writes against the finance backend.",
		}, []string{"resource", "operation"}),
		backendErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "backend_errors_total",
			Help:      "Failed calls to the finance backend.",
		}),
		staleReports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "stale_reports_total",
			Help:      "Report responses discarded for a newer fetch.",
		}),
		uptime: time.Now(),
	}
	m.registry.MustRegister(m.requestCount, m.requestDuration, m.mutations, m.backendErrors, m.staleReports)
	return m
}

// registerGauges exposes state owned by other parts of the server. It reads
// them at scrape time.
func (s *Server) registerGauges() {
	reg := s.appMetrics.registry
	views := map[string]func() int{
		"transactions": s.txViews.Size,
		"foundations":  s.ledgerViews.Size,
		"budgets":      s.budgetViews.Size,
		"reports":      s.reportViews.Size,
		"chat":         s.chatViews.Size,
	}
	for page, size := range views {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "view_entries",
			Help:        "Live page views.",
			ConstLabels: prometheus.Labels{"page": page},
		}, func() float64 { return float64(size()) }))
	}

	reg.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "failed_requests_total",
			Help:      "Requests answered with a 5xx status.",
		}, func() float64 { return float64(s.tracer.GetMetrics().FailedRequests) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rate_limit_hits_total",
			Help:      "Requests rejected by the rate limiter.",
		}, func() float64 { return float64(s.limiter.GetMetrics().TotalHits) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "rate_limit_clients",
			Help:      "Currently tracked rate limit clients.",
		}, func() float64 { return float64(s.limiter.GetMetrics().ClientCount) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "suspicious_requests_total",
			Help:      "Suspicious requests detected.",
		}, func() float64 { return float64(s.detector.GetMetrics().SuspiciousRequests) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "uptime_seconds",
			Help:      "Application uptime in seconds.",
		}, func() float64 { return time.Since(s.appMetrics.uptime).Seconds() }),
	)
}

// metricsMiddleware records request count and latency per route pattern,
// which keeps ids out of the label values.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)
		s.appMetrics.requestDuration.WithLabelValues(code, r.Method, route).Observe(time.Since(start).Seconds())
		s.appMetrics.requestCount.WithLabelValues(code, r.Method, route).Inc()
	})
}

func (s *Server) metricsHandler() http.Handler {
	return promhttp.HandlerFor(s.appMetrics.registry, promhttp.HandlerOpts{})
}
