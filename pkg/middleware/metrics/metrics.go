// middleware/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "http response time.",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60},
		},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_to_uri", Help: "http requests to uri"},
		[]string{"code", "uri", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)

	routeTableSize = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "route_table_size", Help: "bound (verb, path) pairs in the live route table"},
	)

	routeTableRebuilds = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "route_table_rebuilds_total", Help: "full controller scans"},
	)

	routeCacheLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_cache_loads_total", Help: "route cache load outcomes"},
		[]string{"outcome"},
	)
)

func Collect() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			startTime := time.Now()

			defer func() {
				endTime := time.Since(startTime)
				if r.URL.Path != "/metrics" {
					code := strconv.Itoa(ww.Status())
					uri := r.URL.Path // path only; avoid cardinality explosion
					method := r.Method

					totalHttpRequestsToUri.WithLabelValues(code, uri, method).Inc()
					totalHttpRequests.WithLabelValues(code, method).Inc()
					responseTime.Observe(endTime.Seconds())
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// Router-side collectors, driven by core on refresh.

func SetRouteCount(n int) { routeTableSize.Set(float64(n)) }
func RecordRebuild()      { routeTableRebuilds.Inc() }
func RecordCacheHit()     { routeCacheLoads.WithLabelValues("hit").Inc() }
func RecordCacheMiss()    { routeCacheLoads.WithLabelValues("miss").Inc() }

func NewPromHttpHandler() http.Handler { return promhttp.Handler() }
func ProvideMetrics() http.Handler     { return NewPromHttpHandler() }

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsToUri,
		totalHttpRequests,
		routeTableSize,
		routeTableRebuilds,
		routeCacheLoads,
	)
}

var Module = fx.Options(
	fx.Provide(ProvideMetrics),
)
