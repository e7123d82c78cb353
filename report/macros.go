package report

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/viterin/vek/vek32"

	"github.com/beatline/beatline"
)

// laneSamples is how many points of an automation lane are averaged.
const laneSamples = 64

type (
	// Macros is the data a report template is executed with.
	Macros struct {
		Project *beatline.Project
		Tracks  []TrackMacros
	}

	TrackMacros struct {
		*beatline.Track
		// Depth is how many folders the track is nested in.
		Depth   int
		Length  float64
		Notes   int
		Muted   int
		Regions []*beatline.Region
		Lanes   []LaneMacros
	}

	LaneMacros struct {
		Param  string
		Points int
		Mean   float32
	}
)

func NewMacros(p *beatline.Project) *Macros {
	ret := &Macros{Project: p}
	for i := range p.Tracks {
		t := &p.Tracks[i]
		tm := TrackMacros{Track: t, Depth: depth(p, t), Length: p.TrackLength(t.ID)}
		for _, id := range t.Regions {
			r := p.Region(id)
			if r == nil {
				continue
			}
			tm.Regions = append(tm.Regions, r)
			if r.Muted {
				tm.Muted++
			}
			if r.Kind == beatline.MIDIRegion && r.MIDI != nil {
				tm.Notes += len(r.MIDI.Notes)
			}
		}
		slices.SortFunc(tm.Regions, func(a, b *beatline.Region) int { return cmp.Compare(a.Start, b.Start) })
		for param, lane := range t.Automation {
			if lane == nil || len(lane.Points) == 0 {
				continue
			}
			tm.Lanes = append(tm.Lanes, LaneMacros{
				Param:  param,
				Points: len(lane.Points),
				Mean:   laneMean(lane, ret.Length()),
			})
		}
		slices.SortFunc(tm.Lanes, func(a, b LaneMacros) int { return cmp.Compare(a.Param, b.Param) })
		ret.Tracks = append(ret.Tracks, tm)
	}
	return ret
}

func depth(p *beatline.Project, t *beatline.Track) int {
	d := 0
	for id := t.GroupID; id != "" && d < len(p.Tracks); d++ {
		parent := p.Track(id)
		if parent == nil {
			break
		}
		id = parent.GroupID
	}
	return d
}

// laneMean averages the lane over [0, end], or over its own points when the
// project is empty.
func laneMean(lane *beatline.AutomationLane, end float64) float32 {
	if end <= 0 {
		for _, pt := range lane.Points {
			end = max(end, pt.Time)
		}
	}
	return vek32.Mean(lane.Sample(0, end, laneSamples))
}

// Length is the end of the last region in beats.
func (m *Macros) Length() float64 { return m.Project.Length() }

// Seconds is the length in seconds along the tempo map.
func (m *Macros) Seconds() float64 { return m.Project.SecondsAt(m.Length()) }

// Bars is the length in bars of the project's time signature, rounded up.
func (m *Macros) Bars() int {
	sig := m.Project.TimeSignature
	if sig.Numerator <= 0 || sig.Denominator <= 0 {
		return 0
	}
	beatsPerBar := float64(sig.Numerator) * 4 / float64(sig.Denominator)
	return int(math.Ceil(m.Length() / beatsPerBar))
}

func (m *Macros) NumRegions() int { return len(m.Project.Regions) }

func (m *Macros) NumNotes() int {
	n := 0
	for _, t := range m.Tracks {
		n += t.Notes
	}
	return n
}

// Clock formats seconds as m:ss.
func (m *Macros) Clock(seconds float64) string {
	s := int(math.Round(seconds))
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
