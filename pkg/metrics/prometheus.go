package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder backed by Prometheus.
//
// Collectors are created and registered on first use so that a recorder
// which never records leaves the registry untouched.
type PrometheusRecorder struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	runs          *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	searchNodes   prometheus.Histogram
	assignments   *prometheus.CounterVec
	missingUnits  *prometheus.CounterVec
	overrides     *prometheus.CounterVec
	hoursSpread   *prometheus.GaugeVec
	inputWarnings *prometheus.CounterVec
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheus creates a new Prometheus-backed recorder.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: metrics namespace (defaults to "roster" if empty)
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "roster"
	}

	return &PrometheusRecorder{reg: reg, namespace: namespace}
}

func (p *PrometheusRecorder) ensureRegistered() {
	p.once.Do(func() {
		p.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "solver",
			Name:      "runs_total",
			Help:      "Total roster runs by strategy and status.",
		}, []string{"strategy", "status"})

		p.runDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "solver",
			Name:      "run_duration_seconds",
			Help:      "Wall time of roster runs in seconds by strategy.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms .. ~4.4min
		}, []string{"strategy"})

		p.searchNodes = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "solver",
			Name:      "search_nodes",
			Help:      "Search nodes visited per backtracking run.",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 8),
		})

		p.assignments = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "solver",
			Name:      "assignments_total",
			Help:      "Total assignments produced by strategy.",
		}, []string{"strategy"})

		p.missingUnits = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "solver",
			Name:      "missing_units_total",
			Help:      "Total demand units left unfilled by strategy.",
		}, []string{"strategy"})

		p.overrides = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "solver",
			Name:      "overrides_total",
			Help:      "Total soft-rule relaxations by strategy.",
		}, []string{"strategy"})

		p.hoursSpread = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "fairness",
			Name:      "hours_spread",
			Help:      "Difference between the most and least assigned hours of the latest run.",
		}, []string{"month"})

		p.inputWarnings = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "input",
			Name:      "warnings_total",
			Help:      "Input document entries skipped or defaulted, by section.",
		}, []string{"section"})

		p.reg.MustRegister(p.runs)
		p.reg.MustRegister(p.runDuration)
		p.reg.MustRegister(p.searchNodes)
		p.reg.MustRegister(p.assignments)
		p.reg.MustRegister(p.missingUnits)
		p.reg.MustRegister(p.overrides)
		p.reg.MustRegister(p.hoursSpread)
		p.reg.MustRegister(p.inputWarnings)
	})
}

// RecordRun counts the run and observes its duration and search nodes.
func (p *PrometheusRecorder) RecordRun(strategy, status string, duration time.Duration, nodes int) {
	p.ensureRegistered()
	p.runs.WithLabelValues(strategy, status).Inc()
	p.runDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	if nodes > 0 {
		p.searchNodes.Observe(float64(nodes))
	}
}

// RecordResult adds the result counts of a run.
func (p *PrometheusRecorder) RecordResult(strategy string, assignments, missing, overrides int) {
	p.ensureRegistered()
	p.assignments.WithLabelValues(strategy).Add(float64(assignments))
	p.missingUnits.WithLabelValues(strategy).Add(float64(missing))
	p.overrides.WithLabelValues(strategy).Add(float64(overrides))
}

// SetHoursSpread sets the fairness spread gauge of month.
func (p *PrometheusRecorder) SetHoursSpread(month string, spread float64) {
	p.ensureRegistered()
	p.hoursSpread.WithLabelValues(month).Set(spread)
}

// RecordInputWarnings adds skipped input entries of section.
func (p *PrometheusRecorder) RecordInputWarnings(section string, count int) {
	p.ensureRegistered()
	p.inputWarnings.WithLabelValues(section).Add(float64(count))
}

// WriteTextfile writes everything g gathers to path in the text exposition
// format, for pickup by a node exporter textfile collector after a batch run
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
