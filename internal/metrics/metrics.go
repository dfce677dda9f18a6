// Package metrics records grouping activity.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for generation attempts.
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Recorder receives grouping metrics.
type Recorder interface {
	RecordGeneration(outcome string, duration time.Duration)
	RecordPlacement(students int, powerSpread float64)
}

// Nop discards every metric.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) RecordGeneration(string, time.Duration) {}
func (Nop) RecordPlacement(int, float64)           {}

// Prometheus is a Recorder backed by Prometheus collectors. Collectors are
// registered on first use.
type Prometheus struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	generations    *prometheus.CounterVec
	duration       prometheus.Histogram
	studentsPlaced prometheus.Counter
	powerSpread    prometheus.Gauge
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus creates a Prometheus recorder. A nil registerer uses
// prometheus.DefaultRegisterer and an empty namespace uses "huddle".
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "huddle"
	}
	return &Prometheus{reg: reg, namespace: namespace}
}

func (p *Prometheus) ensureRegistered() {
	p.once.Do(func() {
		p.generations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "grouping",
			Name:      "generations_total",
			Help:      "Group generation attempts by outcome.",
		}, []string{"outcome"})

		p.duration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "grouping",
			Name:      "generation_duration_seconds",
			Help:      "Time to load, balance and persist a section's groups.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		})

		p.studentsPlaced = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "grouping",
			Name:      "students_placed_total",
			Help:      "Students assigned to a group by the balancer.",
		})

		p.powerSpread = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "grouping",
			Name:      "power_spread",
			Help:      "Difference between strongest and weakest group power in the last generation.",
		})

		p.reg.MustRegister(p.generations, p.duration, p.studentsPlaced, p.powerSpread)
	})
}

func (p *Prometheus) RecordGeneration(outcome string, duration time.Duration) {
	p.ensureRegistered()
	p.generations.WithLabelValues(outcome).Inc()
	p.duration.Observe(duration.Seconds())
}

func (p *Prometheus) RecordPlacement(students int, powerSpread float64) {
	p.ensureRegistered()
	p.studentsPlaced.Add(float64(students))
	p.powerSpread.Set(powerSpread)
}
