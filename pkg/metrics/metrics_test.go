package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopMetrics(t *testing.T) {
	m := NewNop()

	require.NotPanics(t, func() {
		m.RecordRun("backtracking", "complete", time.Second, 10)
		m.RecordResult("greedy", 0, -1, 0)
		m.SetHoursSpread("", 0)
		m.RecordInputWarnings("tasks", 3)
	})
}

func TestPrometheusRecorder_LazyRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus(reg, "test")

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Empty(t, families)
}

func TestPrometheusRecorder_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "")

	p.RecordRun("backtracking", "complete", 250*time.Millisecond, 1200)
	p.RecordRun("greedy", "partial", 10*time.Millisecond, 0)
	p.RecordResult("greedy", 40, 2, 1)
	p.SetHoursSpread("2026-03", 8)
	p.RecordInputWarnings("leaves", 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(p.runs.WithLabelValues("backtracking", "complete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.runs.WithLabelValues("greedy", "partial")))
	assert.Equal(t, 40.0, testutil.ToFloat64(p.assignments.WithLabelValues("greedy")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.missingUnits.WithLabelValues("greedy")))
	assert.Equal(t, 8.0, testutil.ToFloat64(p.hoursSpread.WithLabelValues("2026-03")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.inputWarnings.WithLabelValues("leaves")))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "roster")
	p.RecordRun("backtracking", "complete", time.Second, 50)

	path := filepath.Join(t.TempDir(), "roster.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `roster_solver_runs_total{status="complete",strategy="backtracking"} 1`))
}
