package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder records bot metrics. A nil *Recorder discards everything.
type Recorder struct {
	gatherer        prometheus.Gatherer
	streamOutcomes  *prometheus.CounterVec
	streamDuration  prometheus.Histogram
	signalsComposed *prometheus.CounterVec
	onboardingSteps *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registers the bot's collectors plus the Go and process collectors on a
// fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		gatherer: gatherer,
		streamOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalbot_stream_outcomes_total",
				Help: "Agent stream aggregations by outcome",
			},
			[]string{"status"},
		),
		streamDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "signalbot_stream_duration_seconds",
				Help:    "Time spent consuming one agent stream",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 15, 20, 25, 30},
			},
		),
		signalsComposed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalbot_signals_composed_total",
				Help: "Signals composed by severity level",
			},
			[]string{"level"},
		),
		onboardingSteps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalbot_onboarding_steps_total",
				Help: "Onboarding inputs by step and result",
			},
			[]string{"step", "result"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalbot_http_requests_total",
				Help: "HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signalbot_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method"},
		),
	}
}

func (r *Recorder) RecordStreamOutcome(status string, seconds float64) {
	if r == nil {
		return
	}
	r.streamOutcomes.WithLabelValues(status).Inc()
	r.streamDuration.Observe(seconds)
}

func (r *Recorder) RecordSignalComposed(level int) {
	if r == nil {
		return
	}
	r.signalsComposed.WithLabelValues(strconv.Itoa(level)).Inc()
}

func (r *Recorder) RecordOnboardingStep(step, result string) {
	if r == nil {
		return
	}
	r.onboardingSteps.WithLabelValues(step, result).Inc()
}

func (r *Recorder) RecordHTTPRequest(route, method string, status int, seconds float64) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(seconds)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil || r.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
