package midifile

import (
	"cmp"
	"context"
	"math"
	"slices"

	"github.com/beatline/beatline"
)

// DefaultRegionName names regions made from tracks without a name.
const DefaultRegionName = "MIDI Region"

// Imported is the result of importing a MIDI file.
type Imported struct {
	Regions []*beatline.Region
	// Tempo is the first tempo of the file, valid when HasTempo is set.
	Tempo    float64
	HasTempo bool
}

type pendingNote struct {
	tick     int64
	velocity uint8
}

type pairedNote struct {
	on, off  int64
	pitch    uint8
	velocity uint8
}

// ToRegions makes one MIDI region per source track that has notes. Note ons
// are paired with the next note off of the same pitch; repeated note ons
// before a note off queue up and are paired in order. The region starts at
// startBeat plus the offset of its first note, and is as long as the smallest
// multiple of 4 beats that covers its notes. The regions are not yet placed
// on a track: TrackID is set but the track does not list them.
func ToRegions(f *File, trackID string, startBeat float64, color string) []*beatline.Region {
	tpb := float64(f.TicksPerBeat)
	if tpb <= 0 {
		tpb = DefaultTicksPerBeat
	}
	var ret []*beatline.Region
	for _, t := range f.Tracks {
		notes := pairNotes(t.Events)
		if len(notes) == 0 {
			continue
		}
		anchor := notes[0].on
		for _, n := range notes[1:] {
			anchor = min(anchor, n.on)
		}
		name := t.Name
		if name == "" {
			name = DefaultRegionName
		}
		r := beatline.NewMIDIRegion(name, startBeat+float64(anchor)/tpb, 0)
		r.TrackID = trackID
		r.Color = color
		span := 0.0
		for _, n := range notes {
			start := float64(n.on-anchor) / tpb
			duration := max(beatline.MinNoteDuration, float64(n.off-n.on)/tpb)
			note := beatline.NewNote(int(n.pitch), int(n.velocity), start, duration)
			r.MIDI.Notes = append(r.MIDI.Notes, note)
			span = max(span, start+duration)
		}
		r.Duration = max(4, math.Ceil(span/4)*4)
		ret = append(ret, &r)
	}
	return ret
}

func pairNotes(events []Event) []pairedNote {
	pending := map[uint8][]pendingNote{}
	var ret []pairedNote
	for _, e := range events {
		switch e.Kind {
		case NoteOn:
			pending[e.Pitch] = append(pending[e.Pitch], pendingNote{e.Tick, e.Velocity})
		case NoteOff:
			q := pending[e.Pitch]
			if len(q) == 0 {
				continue
			}
			pending[e.Pitch] = q[1:]
			ret = append(ret, pairedNote{on: q[0].tick, off: e.Tick, pitch: e.Pitch, velocity: q[0].velocity})
		}
	}
	slices.SortStableFunc(ret, func(a, b pairedNote) int { return cmp.Compare(a.on, b.on) })
	return ret
}

// Import decodes a MIDI file and converts it to regions.
func Import(data []byte, trackID string, startBeat float64, color string) (Imported, error) {
	return ImportContext(context.Background(), data, trackID, startBeat, color)
}

func ImportContext(ctx context.Context, data []byte, trackID string, startBeat float64, color string) (Imported, error) {
	f, err := DecodeContext(ctx, data)
	if err != nil {
		return Imported{}, err
	}
	ret := Imported{Regions: ToRegions(f, trackID, startBeat, color)}
	if len(f.Tempo) > 0 {
		ret.Tempo, ret.HasTempo = f.Tempo[0].BPM, true
	}
	return ret, nil
}
