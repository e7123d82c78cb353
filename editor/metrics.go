package editor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts the commands run through a Model. A nil *Metrics counts
// nothing.
type Metrics struct {
	Commands     *prometheus.CounterVec
	Rejected     *prometheus.CounterVec
	HistoryDepth prometheus.Gauge
	Imports      *prometheus.CounterVec
}

// NewMetrics creates the editor metrics and registers them on reg, if reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beatline",
			Subsystem: "editor",
			Name:      "commands_total",
			Help:      "Commands applied to the project, by kind.",
		}, []string{"kind"}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beatline",
			Subsystem: "editor",
			Name:      "rejected_commands_total",
			Help:      "Commands that left the project unchanged, by kind.",
		}, []string{"kind"}),
		HistoryDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "beatline",
			Subsystem: "editor",
			Name:      "undo_depth",
			Help:      "Number of snapshots on the undo stack.",
		}),
		Imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beatline",
			Subsystem: "editor",
			Name:      "midi_imports_total",
			Help:      "MIDI file imports, by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.Commands, m.Rejected, m.HistoryDepth, m.Imports)
	}
	return m
}

// SetMetrics makes the model report to m.
func (m *Model) SetMetrics(metrics *Metrics) {
	m.metrics = metrics
	m.metrics.setDepth(m.history.Depth())
}

func (m *Metrics) command(kind string) {
	if m != nil {
		m.Commands.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) rejected(kind string) {
	if m != nil {
		m.Rejected.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) setDepth(depth int) {
	if m != nil {
		m.HistoryDepth.Set(float64(depth))
	}
}

func (m *Metrics) imported(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.Imports.WithLabelValues("ok").Inc()
	} else {
		m.Imports.WithLabelValues("error").Inc()
	}
}
