package editor_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/beatline/beatline"
	"github.com/beatline/beatline/editor"
)

func TestMetricsCountCommands(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := editor.NewMetrics(reg)
	m := newModel(t)
	m.SetMetrics(metrics)
	track := m.AddTrack(beatline.InstrumentTrack, "", -1)
	m.SetTrackVolume(track, 0.5)
	m.SetTrackVolume(track, 0.6)
	m.DeleteRegion("missing")
	m.Undo().Do()
	if got := testutil.ToFloat64(metrics.Commands.WithLabelValues("SetTrackVolume")); got != 2 {
		t.Errorf("SetTrackVolume count: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.Commands.WithLabelValues("Undo")); got != 1 {
		t.Errorf("Undo count: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.Rejected.WithLabelValues("DeleteRegion")); got != 1 {
		t.Errorf("rejected DeleteRegion: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.HistoryDepth); got != 2 {
		t.Errorf("history depth: got %v, want 2", got)
	}
	if err := m.ImportMIDI([]byte("junk"), track, 0); err == nil {
		t.Fatal("expected import error")
	}
	if err := m.ImportMIDI(singleNoteSMF, track, 0); err != nil {
		t.Fatalf("ImportMIDI failed: %v", err)
	}
	if got := testutil.ToFloat64(metrics.Imports.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok imports: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.Imports.WithLabelValues("error")); got != 1 {
		t.Errorf("failed imports: got %v, want 1", got)
	}
	if n, err := testutil.GatherAndCount(reg); err != nil || n == 0 {
		t.Errorf("registry gathered %d metrics, err %v", n, err)
	}
}

func TestNilMetrics(t *testing.T) {
	m := newModel(t)
	m.SetMetrics(nil)
	m.AddTrack(beatline.AudioTrack, "", -1)
	m.Undo().Do()
}
