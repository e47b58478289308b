package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "moondash"

var (
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: subsystem,
			Help:      "HTTP request latencies in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0, 16.0, 32.0},
		},
		[]string{"verb", "path", "code"},
	)

	renderLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:      "render_latency",
			Subsystem: subsystem,
			Help:      "Moon phase render latencies in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
	)

	renderOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "render_outcomes_total",
			Subsystem: subsystem,
			Help:      "Moon phase renders by outcome.",
		},
		[]string{"outcome"},
	)

	userRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "user_requests_total",
			Subsystem: subsystem,
			Help:      "Requests by whether they carried a saved place.",
		},
		[]string{"known"},
	)
)

func init() {
	prometheus.MustRegister(
		requestLatency,
		renderLatency,
		renderOutcomes,
		userRequests,
	)
}

func ObserveRequestLatency(verb, path, code string, latency float64) {
	requestLatency.With(prometheus.Labels{
		"code": code,
		"verb": verb,
		"path": path,
	}).Observe(latency)
}

// ObserveRender records one render and its outcome, as named by
// moonphase.Reason.
func ObserveRender(outcome string, latency time.Duration) {
	renderLatency.Observe(latency.Seconds())
	renderOutcomes.With(prometheus.Labels{"outcome": outcome}).Inc()
}

func ObserveUserRequest(known bool) {
	userRequests.With(prometheus.Labels{"known": strconv.FormatBool(known)}).Inc()
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.code == 0 {
		r.code = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.code == 0 {
		r.code = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) status() string {
	if r.code == 0 {
		// Nothing written, stdlib will send 200.
		return "200"
	}
	return strconv.Itoa(r.code)
}

func LatencyHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()
		verb := r.Method
		path := ""
		if r.URL != nil {
			path = r.URL.Path
		}
		rec := &statusRecorder{ResponseWriter: w}

		// Panics in next are reported as 500 errors and then re-thrown.
		defer func() {
			if err := recover(); err != nil {
				ObserveRequestLatency(verb, path, "500", time.Since(t).Seconds())
				panic(err)
			}
			ObserveRequestLatency(verb, path, rec.status(), time.Since(t).Seconds())
		}()

		next.ServeHTTP(rec, r)
	})
}
