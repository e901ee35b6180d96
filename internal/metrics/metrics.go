package metrics

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smnshzh/MarketVisit/pkg/api"
)

// PublishOutcome labels the result of delivering one store event.
type PublishOutcome string

const (
	PublishDelivered PublishOutcome = "delivered"
	PublishFailed    PublishOutcome = "failed"
)

// Recorder publishes Prometheus metrics for backend calls and the store watcher.
type Recorder struct {
	gatherer prometheus.Gatherer
	handler  http.Handler

	apiCalls     *prometheus.CounterVec
	apiLatency   *prometheus.HistogramVec
	apiFallbacks *prometheus.CounterVec

	pollRuns      *prometheus.CounterVec
	storesFound   *prometheus.CounterVec
	storesNew     *prometheus.CounterVec
	publishEvents *prometheus.CounterVec
}

// NewRecorder constructs a Prometheus-backed Recorder. When reg is nil a dedicated
// registry is created so multiple recorders can coexist in one process.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	apiCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketvisit",
		Subsystem: "api",
		Name:      "calls_total",
		Help:      "Logical backend calls by endpoint, method and outcome kind.",
	}, []string{"endpoint", "method", "outcome", "status_code"})

	apiLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "marketvisit",
		Subsystem: "api",
		Name:      "call_duration_seconds",
		Help:      "Latency of logical backend calls including the fallback attempt.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"endpoint", "outcome"})

	apiFallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketvisit",
		Subsystem: "api",
		Name:      "fallbacks_total",
		Help:      "Calls retried against the secondary location.",
	}, []string{"endpoint", "outcome"})

	pollRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketvisit",
		Subsystem: "watcher",
		Name:      "polls_total",
		Help:      "Area polls by result.",
	}, []string{"area", "result"})

	storesFound := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketvisit",
		Subsystem: "watcher",
		Name:      "stores_seen_total",
		Help:      "Stores returned by area polls.",
	}, []string{"area"})

	storesNew := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketvisit",
		Subsystem: "watcher",
		Name:      "stores_new_total",
		Help:      "Stores not seen before in their area.",
	}, []string{"area"})

	publishEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "marketvisit",
		Subsystem: "watcher",
		Name:      "publish_total",
		Help:      "Store events handed to the publisher fanout.",
	}, []string{"area", "result"})

	reg.MustRegister(apiCalls, apiLatency, apiFallbacks, pollRuns, storesFound, storesNew, publishEvents)

	return &Recorder{
		gatherer:      reg,
		handler:       promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		apiCalls:      apiCalls,
		apiLatency:    apiLatency,
		apiFallbacks:  apiFallbacks,
		pollRuns:      pollRuns,
		storesFound:   storesFound,
		storesNew:     storesNew,
		publishEvents: publishEvents,
	}
}

// Handler exposes the Prometheus HTTP handler for the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "metrics unavailable", http.StatusServiceUnavailable)
		})
	}
	return r.handler
}

// Gatherer returns the underlying Prometheus gatherer.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.gatherer
}

// ObserveCall implements api.Observer.
func (r *Recorder) ObserveCall(obs api.CallObservation) {
	if r == nil {
		return
	}
	endpoint := normalizeLabel(obs.Endpoint)
	outcome := normalizeLabel(obs.Outcome)
	status := "none"
	if obs.StatusCode > 0 {
		status = strconv.Itoa(obs.StatusCode)
	}
	r.apiCalls.WithLabelValues(endpoint, normalizeLabel(obs.Method), outcome, status).Inc()
	r.apiLatency.WithLabelValues(endpoint, outcome).Observe(obs.Duration.Seconds())
	if obs.FellBack {
		r.apiFallbacks.WithLabelValues(endpoint, outcome).Inc()
	}
}

// ObservePoll records one area poll; found is the number of stores returned
// and fresh the number not seen before.
func (r *Recorder) ObservePoll(area string, found, fresh int, err error) {
	if r == nil {
		return
	}
	area = normalizeLabel(area)
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.pollRuns.WithLabelValues(area, result).Inc()
	if found > 0 {
		r.storesFound.WithLabelValues(area).Add(float64(found))
	}
	if fresh > 0 {
		r.storesNew.WithLabelValues(area).Add(float64(fresh))
	}
}

// ObservePublish records the fanout result for one store event.
func (r *Recorder) ObservePublish(area string, outcome PublishOutcome) {
	if r == nil {
		return
	}
	label := string(outcome)
	if label == "" {
		label = string(PublishFailed)
	}
	r.publishEvents.WithLabelValues(normalizeLabel(area), label).Inc()
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
