package metrics

import "time"

// Recorder receives roster run metrics
type Recorder interface {
	// RecordRun records a finished run by strategy and status
	RecordRun(strategy, status string, duration time.Duration, nodes int)

	// RecordResult records the assignment, unmet unit and override counts of a run
	RecordResult(strategy string, assignments, missing, overrides int)

	// SetHoursSpread sets the max-min assigned hours of the latest run of month
	SetHoursSpread(month string, spread float64)

	// RecordInputWarnings records skipped input document entries by section
	RecordInputWarnings(section string, count int)
}

// NopMetrics discards every metric
type NopMetrics struct{}

var _ Recorder = (*NopMetrics)(nil)

// NewNop creates a new no-op recorder
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordRun discards the run metric.
func (n *NopMetrics) RecordRun(_, _ string, _ time.Duration, _ int) {}

// RecordResult discards the result counts.
func (n *NopMetrics) RecordResult(_ string, _, _, _ int) {}

// SetHoursSpread discards the spread.
func (n *NopMetrics) SetHoursSpread(_ string, _ float64) {}

// RecordInputWarnings discards the warning count.
func (n *NopMetrics) RecordInputWarnings(_ string, _ int) {}
