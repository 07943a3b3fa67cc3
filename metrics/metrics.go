package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes.
const (
	OutcomeFound      = "found"
	OutcomeNotFound   = "not_found"
	OutcomeInvalid    = "invalid"
	OutcomeError      = "error"
	OutcomeSuperseded = "superseded"
)

var (
	QuoteSearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "quote_searches_total", Help: "Quote searches by outcome"},
		[]string{"outcome"},
	)
	SuggestRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "suggest_requests_total", Help: "Suggestion lookups served"},
	)
	QuoteSearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quote_search_duration_seconds",
			Help:    "Time spent resolving a quote search",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(QuoteSearchesTotal, SuggestRequestsTotal, QuoteSearchDuration)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
