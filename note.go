package beatline

import (
	"math"
	"math/rand/v2"
	"slices"
)

// Note is a MIDI note inside a region. Start is relative to the region start
// and both Start and Duration are in beats.
type Note struct {
	ID       string  `json:"id" yaml:"id"`
	Pitch    int     `json:"pitch" yaml:"pitch"`
	Velocity int     `json:"velocity" yaml:"velocity"`
	Start    float64 `json:"startTime" yaml:"startTime"`
	Duration float64 `json:"duration" yaml:"duration"`
}

// MinNoteDuration is the shortest note, a sixteenth note in beats.
const MinNoteDuration = 1.0 / 16

// HumanizeVelocity is the velocity jitter applied per beat of humanize
// amount.
const HumanizeVelocity = 20

// NewNote returns a note with a new id and its fields clamped to range.
func NewNote(pitch, velocity int, start, duration float64) Note {
	n := Note{ID: newID(), Pitch: pitch, Velocity: velocity, Start: start, Duration: duration}
	n.normalize()
	return n
}

func (n *Note) normalize() {
	n.Pitch = clampInt(n.Pitch, 0, 127)
	n.Velocity = clampInt(n.Velocity, 1, 127)
	n.Start = ClampBeat(n.Start)
	n.Duration = clamp(n.Duration, MinNoteDuration, MaxBeat)
}

// End returns the end of the note relative to the region start.
func (n *Note) End() float64 {
	return n.Start + n.Duration
}

// AddNote adds a note to a MIDI region and returns its id.
func (p *Project) AddNote(regionID string, pitch, velocity int, start, duration float64) (string, error) {
	m, err := p.midi(regionID)
	if err != nil {
		return "", err
	}
	n := Note{ID: newID(), Pitch: pitch, Velocity: velocity, Start: start, Duration: duration}
	n.normalize()
	m.Notes = append(m.Notes, n)
	return n.ID, nil
}

// DeleteNotes removes the listed notes from the region.
func (p *Project) DeleteNotes(regionID string, ids []string) error {
	m, err := p.midi(regionID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return ErrNothingToDo
	}
	before := len(m.Notes)
	m.Notes = slices.DeleteFunc(m.Notes, func(n Note) bool { return slices.Contains(ids, n.ID) })
	if len(m.Notes) == before {
		return ErrNoteNotFound
	}
	return nil
}

// UpdateNote replaces the note with the same id as n.
func (p *Project) UpdateNote(regionID string, n Note) error {
	m, err := p.midi(regionID)
	if err != nil {
		return err
	}
	for i := range m.Notes {
		if m.Notes[i].ID == n.ID {
			n.normalize()
			m.Notes[i] = n
			return nil
		}
	}
	return ErrNoteNotFound
}

// QuantizeNotes snaps note starts to the nearest multiple of the grid and
// records the grid on the region. A grid of "off" changes nothing.
func (p *Project) QuantizeNotes(regionID, grid string, ids []string) error {
	size, ok := ParseGrid(grid)
	if !ok {
		return ErrNothingToDo
	}
	m, err := p.midi(regionID)
	if err != nil {
		return err
	}
	m.Quantize = grid
	return m.each(ids, func(n *Note) { n.Start = Snap(n.Start, size) })
}

func (p *Project) TransposeNotes(regionID string, ids []string, semitones int) error {
	m, err := p.midi(regionID)
	if err != nil {
		return err
	}
	return m.each(ids, func(n *Note) { n.Pitch += semitones })
}

// HumanizeNotes moves each note start by a uniform random offset in
// [-amount, amount] beats and each velocity by up to 20*amount.
func (p *Project) HumanizeNotes(regionID string, ids []string, amount float64, rng *rand.Rand) error {
	m, err := p.midi(regionID)
	if err != nil {
		return err
	}
	amount = clamp(amount, 0, MaxBeat)
	return m.each(ids, func(n *Note) {
		n.Start += (rng.Float64()*2 - 1) * amount
		n.Velocity = velocity(float64(n.Velocity) + (rng.Float64()*2-1)*HumanizeVelocity*amount)
	})
}

func (p *Project) ScaleVelocity(regionID string, ids []string, factor float64) error {
	m, err := p.midi(regionID)
	if err != nil {
		return err
	}
	factor = clamp(factor, 0, math.MaxFloat64)
	return m.each(ids, func(n *Note) { n.Velocity = velocity(float64(n.Velocity) * factor) })
}

// velocity rounds v to a MIDI velocity, clamping before the conversion so
// huge values cannot overflow.
func velocity(v float64) int {
	return int(math.Round(clamp(v, 1, 127)))
}

func (p *Project) midi(regionID string) (*MIDIContent, error) {
	r := p.Region(regionID)
	if r == nil {
		return nil, ErrRegionNotFound
	}
	if r.Kind != MIDIRegion || r.MIDI == nil {
		return nil, ErrWrongKind
	}
	return r.MIDI, nil
}

// each applies f to the listed notes, or to all notes if ids is empty, and
// normalizes them afterwards.
func (m *MIDIContent) each(ids []string, f func(n *Note)) error {
	found := false
	for i := range m.Notes {
		if len(ids) > 0 && !slices.Contains(ids, m.Notes[i].ID) {
			continue
		}
		f(&m.Notes[i])
		m.Notes[i].normalize()
		found = true
	}
	if !found && len(ids) > 0 {
		return ErrNoteNotFound
	}
	return nil
}
