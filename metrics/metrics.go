package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kova98/nearmatch.api/matchers"
)

const namespace = "nearmatch"

type Recorder struct {
	scans        prometheus.Counter
	exactMatches prometheus.Counter
	nearMatches  prometheus.Counter
	scanDuration prometheus.Histogram
	requests     *prometheus.CounterVec
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		scans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Number of texts scanned for a term.",
		}),
		exactMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exact_matches_total",
			Help:      "Exact matches found across all scans.",
		}),
		nearMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "near_matches_total",
			Help:      "Near matches (edit distance 1) found across all scans.",
		}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Time spent scanning a single text.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"path", "code"}),
	}

	reg.MustRegister(r.scans, r.exactMatches, r.nearMatches, r.scanDuration, r.requests)

	return r
}

func (r *Recorder) ObserveScan(res matchers.Result, elapsed time.Duration) {
	r.scans.Inc()
	r.exactMatches.Add(float64(res.Frequency))

	near := 0
	for _, count := range res.SimilarHits {
		near += count
	}
	r.nearMatches.Add(float64(near))
	r.scanDuration.Observe(elapsed.Seconds())
}

// ObserveRequest counts a finished request. path should be the route
// pattern, not the raw URL, to keep label cardinality bounded.
func (r *Recorder) ObserveRequest(path string, code int) {
	r.requests.WithLabelValues(path, strconv.Itoa(code)).Inc()
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
