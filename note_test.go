package beatline_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/beatline/beatline"
)

func TestParseGrid(t *testing.T) {
	cases := []struct {
		grid string
		size float64
		ok   bool
	}{
		{"1/4", 1, true},
		{"1/16", 0.25, true},
		{"1/8T", 1.0 / 3, true},
		{"1/1", 4, true},
		{"off", 0, false},
		{"", 0, false},
		{"1/0", 0, false},
		{"x/4", 0, false},
	}
	for _, c := range cases {
		size, ok := beatline.ParseGrid(c.grid)
		if ok != c.ok || (ok && abs(size-c.size) > 1e-12) {
			t.Errorf("ParseGrid(%q) = %v, %v; want %v, %v", c.grid, size, ok, c.size, c.ok)
		}
	}
}

func TestQuantizeIdempotent(t *testing.T) {
	for _, grid := range beatline.Grids {
		p, _, id := newMIDIProject(t)
		p.AddNote(id, 67, 64, 1.37, 0.3)
		p.AddNote(id, 69, 64, 3.01, 0.3)
		p.QuantizeNotes(id, grid, nil)
		once := p.Region(id).Copy()
		p.QuantizeNotes(id, grid, nil)
		twice := p.Region(id)
		for i := range once.MIDI.Notes {
			if once.MIDI.Notes[i].Start != twice.MIDI.Notes[i].Start {
				t.Errorf("grid %s: note %d start %v after one pass, %v after two", grid, i, once.MIDI.Notes[i].Start, twice.MIDI.Notes[i].Start)
			}
		}
	}
}

func TestQuantizeSnapsToGrid(t *testing.T) {
	p, _, id := newMIDIProject(t)
	n, _ := p.AddNote(id, 67, 64, 1.37, 0.3)
	if err := p.QuantizeNotes(id, "1/8", []string{n}); err != nil {
		t.Fatal(err)
	}
	r := p.Region(id)
	for _, note := range r.MIDI.Notes {
		if note.ID == n && note.Start != 1.5 {
			t.Errorf("quantized start %v, want 1.5", note.Start)
		}
		if note.ID == "b" && note.Start != 2.5 {
			t.Errorf("untargeted note moved to %v", note.Start)
		}
	}
	if r.MIDI.Quantize != "1/8" {
		t.Errorf("region grid %q, want 1/8", r.MIDI.Quantize)
	}
	if err := p.QuantizeNotes(id, "off", nil); !errors.Is(err, beatline.ErrNothingToDo) {
		t.Errorf("off grid: got %v", err)
	}
}

func TestTransposeAndVelocityClamp(t *testing.T) {
	p, _, id := newMIDIProject(t)
	if err := p.TransposeNotes(id, []string{"a"}, 100); err != nil {
		t.Fatal(err)
	}
	if err := p.ScaleVelocity(id, nil, 10); err != nil {
		t.Fatal(err)
	}
	for _, n := range p.Region(id).MIDI.Notes {
		if n.ID == "a" && n.Pitch != 127 {
			t.Errorf("pitch not clamped: %d", n.Pitch)
		}
		if n.ID == "b" && n.Pitch != 62 {
			t.Errorf("untargeted pitch changed: %d", n.Pitch)
		}
		if n.Velocity != 127 {
			t.Errorf("velocity not clamped: %d", n.Velocity)
		}
	}
	if err := p.ScaleVelocity(id, nil, 0); err != nil {
		t.Fatal(err)
	}
	for _, n := range p.Region(id).MIDI.Notes {
		if n.Velocity != 1 {
			t.Errorf("velocity below 1: %d", n.Velocity)
		}
	}
	if err := p.TransposeNotes(id, []string{"missing"}, 1); !errors.Is(err, beatline.ErrNoteNotFound) {
		t.Errorf("got %v, want ErrNoteNotFound", err)
	}
}

func TestHumanizeBounds(t *testing.T) {
	p, _, id := newMIDIProject(t)
	before := p.Region(id).Copy()
	rng := rand.New(rand.NewPCG(1, 2))
	if err := p.HumanizeNotes(id, []string{"b", "c"}, 0.1, rng); err != nil {
		t.Fatal(err)
	}
	after := p.Region(id)
	for i, n := range after.MIDI.Notes {
		o := before.MIDI.Notes[i]
		switch n.ID {
		case "b", "c":
			if abs(n.Start-o.Start) > 0.1+1e-12 {
				t.Errorf("note %s moved by %v", n.ID, n.Start-o.Start)
			}
			if d := n.Velocity - o.Velocity; d > 2 || d < -2 {
				t.Errorf("note %s velocity changed by %d", n.ID, d)
			}
		default:
			if n != o {
				t.Errorf("untargeted note %s changed", n.ID)
			}
		}
	}
}

func TestNotesOnAudioRegion(t *testing.T) {
	p := beatline.NewProject("test")
	track := p.AddTrack(beatline.AudioTrack, "", -1).ID
	id, _ := p.AddRegion(track, beatline.NewAudioRegion("take", "file.wav", 0, 4))
	if _, err := p.AddNote(id, 60, 100, 0, 1); !errors.Is(err, beatline.ErrWrongKind) {
		t.Errorf("got %v, want ErrWrongKind", err)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
