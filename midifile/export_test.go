package midifile_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/beatline/beatline"
	"github.com/beatline/beatline/midifile"
)

func TestExportRoundTrip(t *testing.T) {
	p := beatline.NewProject("song")
	p.SetBPM(100)
	tr := p.AddTrack(beatline.InstrumentTrack, "Piano", -1).ID
	r := beatline.NewMIDIRegion("verse", 4, 4)
	r.MIDI.Notes = []beatline.Note{
		beatline.NewNote(60, 100, 0, 1),
		beatline.NewNote(64, 80, 0.5, 0.5),
		beatline.NewNote(60, 90, 1, 1),
		beatline.NewNote(72, 90, 3.5, 2),
	}
	if _, err := p.AddRegion(tr, r); err != nil {
		t.Fatal(err)
	}
	muted := beatline.NewMIDIRegion("muted", 0, 4)
	muted.Muted = true
	muted.MIDI.Notes = []beatline.Note{beatline.NewNote(40, 100, 0, 1)}
	if _, err := p.AddRegion(tr, muted); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := midifile.Export(&buf, &p, tr); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	imp, err := midifile.Import(buf.Bytes(), "t", 0, "")
	if err != nil {
		t.Fatalf("Import of exported file failed: %v", err)
	}
	if !imp.HasTempo || imp.Tempo != 100 {
		t.Errorf("tempo %v, want 100", imp.Tempo)
	}
	if len(imp.Regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(imp.Regions))
	}
	got := imp.Regions[0]
	if got.Name != "Piano" || got.Start != 4 {
		t.Errorf("region %q at %v", got.Name, got.Start)
	}
	want := []struct {
		pitch, vel      int
		start, duration float64
	}{
		{60, 100, 0, 1},
		{64, 80, 0.5, 0.5},
		{60, 90, 1, 1},
		{72, 90, 3.5, 0.5},
	}
	if len(got.MIDI.Notes) != len(want) {
		t.Fatalf("got %d notes, want %d", len(got.MIDI.Notes), len(want))
	}
	for i, w := range want {
		n := got.MIDI.Notes[i]
		if n.Pitch != w.pitch || n.Velocity != w.vel || n.Start != w.start || n.Duration != w.duration {
			t.Errorf("note %d: got %+v, want %+v", i, n, w)
		}
	}
}

func TestExportRejectsAudioTrack(t *testing.T) {
	p := beatline.NewProject("song")
	tr := p.AddTrack(beatline.AudioTrack, "", -1).ID
	var buf bytes.Buffer
	if err := midifile.Export(&buf, &p, tr); !errors.Is(err, beatline.ErrWrongKind) {
		t.Errorf("got %v, want ErrWrongKind", err)
	}
	if err := midifile.Export(&buf, &p, "missing"); !errors.Is(err, beatline.ErrTrackNotFound) {
		t.Errorf("got %v, want ErrTrackNotFound", err)
	}
}
