package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecordsGenerations(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "")

	p.RecordGeneration(OutcomeSuccess, 20*time.Millisecond)
	p.RecordGeneration(OutcomeSuccess, 30*time.Millisecond)
	p.RecordGeneration(OutcomeConflict, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.generations.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.generations.WithLabelValues(OutcomeConflict)))

	n, err := testutil.GatherAndCount(reg, "huddle_grouping_generation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPrometheusRecordsPlacement(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	p.RecordPlacement(12, 3.5)
	p.RecordPlacement(8, 1)

	assert.Equal(t, 20.0, testutil.ToFloat64(p.studentsPlaced))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.powerSpread))

	n, err := testutil.GatherAndCount(reg, "test_grouping_students_placed_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = Nop{}
	assert.NotPanics(t, func() {
		r.RecordGeneration(OutcomeError, time.Second)
		r.RecordPlacement(3, 0)
	})
}
