package main

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/beatline/beatline/editor"
)

var (
	registry *prometheus.Registry
	metrics  *editor.Metrics
)

// enableMetrics makes every model created by newModel count its commands in
// a fresh registry.
func enableMetrics() {
	registry = prometheus.NewRegistry()
	metrics = editor.NewMetrics(registry)
}

func newModel(prefs editor.Preferences) *editor.Model {
	m := editor.NewModel(prefs, nil, nil)
	m.SetMetrics(metrics)
	return m
}

// writeMetrics writes the registry in the Prometheus text format. It writes
// nothing if metrics are not enabled.
func writeMetrics(w io.Writer) error {
	if registry == nil {
		return nil
	}
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
