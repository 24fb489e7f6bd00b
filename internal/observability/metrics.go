package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	upvoteToggles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skilllog",
		Subsystem: "upvotes",
		Name:      "toggles_total",
		Help:      "Upvote mutations applied by the server, by item type and outcome.",
	}, []string{"item_type", "result"})

	generationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skilllog",
		Subsystem: "insights",
		Name:      "generation_duration_seconds",
		Help:      "Latency of generative text calls.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
	}, []string{"operation", "status"})

	eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skilllog",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Domain events handed to the event stream, by type and outcome.",
	}, []string{"type", "result"})

	circleSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "skilllog",
		Subsystem: "circles",
		Name:      "stream_subscribers",
		Help:      "Open circle stream connections.",
	})

	httpRequests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skilllog",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "code"})
)

func init() {
	prometheus.MustRegister(upvoteToggles, generationDuration, eventsPublished, circleSubscribers, httpRequests)
}

// RecordUpvoteToggle counts one server-side upvote mutation.
// result is "added", "removed", "unchanged" or "failed".
func RecordUpvoteToggle(itemType, result string) {
	upvoteToggles.WithLabelValues(itemType, result).Inc()
}

// ObserveGeneration records the latency of one generative text call.
func ObserveGeneration(operation string, started time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	generationDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}

// RecordEventPublished counts one event publish attempt.
func RecordEventPublished(eventType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	eventsPublished.WithLabelValues(eventType, result).Inc()
}

// CircleSubscriberAdded and CircleSubscriberRemoved track open streams.
func CircleSubscriberAdded()   { circleSubscribers.Inc() }
func CircleSubscriberRemoved() { circleSubscribers.Dec() }

// Middleware records request latency labelled with the matched chi route
// pattern so path parameters do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(started).Seconds())
	})
}
