package midifile

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/beatline/beatline"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ExportTicksPerBeat is the resolution of exported files.
const ExportTicksPerBeat = 480

type exportEvent struct {
	tick int64
	on   bool
	key  uint8
	vel  uint8
}

// Export writes the MIDI regions of a track as a format 1 Standard MIDI File:
// a tempo track with the meter and tempo map, and a note track named after
// the track. Muted regions and notes past the end of their region are left
// out, and notes are cut at the end of their region.
func Export(w io.Writer, p *beatline.Project, trackID string) error {
	t := p.Track(trackID)
	if t == nil {
		return fmt.Errorf("midifile: export %s: %w", trackID, beatline.ErrTrackNotFound)
	}
	if !t.Kind.HoldsRegions() || t.Kind.RegionKind() != beatline.MIDIRegion {
		return fmt.Errorf("midifile: export %s: %w", t.Name, beatline.ErrWrongKind)
	}
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(ExportTicksPerBeat)

	var tempo smf.Track
	tempo.Add(0, smf.MetaMeter(uint8(p.TimeSignature.Numerator), uint8(p.TimeSignature.Denominator)))
	tempo.Add(0, smf.MetaTempo(p.BPM))
	last := int64(0)
	for _, c := range p.Tempo {
		tick := ticks(c.Time)
		tempo.Add(uint32(max(tick-last, 0)), smf.MetaTempo(c.BPM))
		last = max(tick, last)
	}
	tempo.Close(0)
	if err := sm.Add(tempo); err != nil {
		return fmt.Errorf("midifile: adding tempo track: %w", err)
	}

	var events []exportEvent
	for _, id := range t.Regions {
		r := p.Region(id)
		if r == nil || r.Muted || r.Kind != beatline.MIDIRegion || r.MIDI == nil {
			continue
		}
		for _, n := range r.MIDI.Notes {
			if n.Start >= r.Duration {
				continue
			}
			on := ticks(r.Start + n.Start)
			off := ticks(r.Start + min(n.End(), r.Duration))
			key := uint8(min(max(n.Pitch, 0), 127))
			events = append(events,
				exportEvent{tick: on, on: true, key: key, vel: uint8(min(max(n.Velocity, 1), 127))},
				exportEvent{tick: max(off, on+1), key: key})
		}
	}
	slices.SortStableFunc(events, func(a, b exportEvent) int {
		if c := cmp.Compare(a.tick, b.tick); c != 0 {
			return c
		}
		// note offs first so that back to back notes pair up in order
		return cmp.Compare(boolInt(a.on), boolInt(b.on))
	})

	var notes smf.Track
	notes.Add(0, smf.MetaTrackSequenceName(t.Name))
	last = 0
	for _, e := range events {
		delta := uint32(e.tick - last)
		if e.on {
			notes.Add(delta, midi.NoteOn(0, e.key, e.vel))
		} else {
			notes.Add(delta, midi.NoteOff(0, e.key))
		}
		last = e.tick
	}
	notes.Close(0)
	if err := sm.Add(notes); err != nil {
		return fmt.Errorf("midifile: adding note track: %w", err)
	}
	if _, err := sm.WriteTo(w); err != nil {
		return fmt.Errorf("midifile: writing %s: %w", t.Name, err)
	}
	return nil
}

func ticks(beat float64) int64 {
	return int64(math.Round(max(beat, 0) * ExportTicksPerBeat))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
