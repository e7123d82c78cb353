package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beatline/beatline"
	"github.com/beatline/beatline/report"
)

func demoProject(t *testing.T) *beatline.Project {
	t.Helper()
	p := beatline.NewProject("demo")
	keys := p.AddTrack(beatline.InstrumentTrack, "Keys", -1).ID
	if _, err := p.GroupTracks([]string{keys}, "Band"); err != nil {
		t.Fatal(err)
	}
	r := beatline.NewMIDIRegion("clip", 0, 8)
	r.MIDI.Notes = append(r.MIDI.Notes, beatline.NewNote(60, 100, 0, 1), beatline.NewNote(64, 100, 4, 1))
	if _, err := p.AddRegion(keys, r); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AddAutomationPoint(keys, beatline.VolumeParam, 0, 0, beatline.LinearCurve); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AddAutomationPoint(keys, beatline.VolumeParam, 8, 1, beatline.LinearCurve); err != nil {
		t.Fatal(err)
	}
	return &p
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	if err := report.Render(&buf, demoProject(t)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"DEMO",
		"120 bpm, 4/4, C major",
		"8.00 beats, 2 bars, 0:04",
		"2 tracks, 1 regions, 2 notes",
		"- Band [Folder]",
		"  - Keys [Software Instrument]",
		"volume: 2 points, mean 0.50",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report is missing %q:\n%s", want, out)
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	r, err := report.New()
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, "markdown", demoProject(t)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "# demo") || !strings.Contains(out, "&nbsp;&nbsp;Keys | Software Instrument | 1 | 2 | volume |") {
		t.Errorf("unexpected markdown:\n%s", out)
	}
	if err := r.Render(&buf, "pdf", demoProject(t)); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestCustomTemplates(t *testing.T) {
	dir := t.TempDir()
	tmpl := `{{ .Project.Name | title }} has {{ len .Tracks }} tracks`
	if err := os.WriteFile(filepath.Join(dir, "brief.tmpl"), []byte(tmpl), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := report.NewFromTemplates(dir)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, "brief", demoProject(t)); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "Demo has 2 tracks" {
		t.Errorf("got %q", got)
	}
}
