package beatline

import (
	"cmp"
	"errors"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

type (
	// Project is the whole timeline document: tracks with their regions,
	// automation, tempo map, markers and buses. Tracks refer to regions by id;
	// the regions themselves live in the Regions map and point back to their
	// owning track with TrackID. Validate checks that the two directions agree.
	//
	// The methods of Project mutate it in place and report soft failures
	// (missing ids, mismatched kinds) as errors, leaving the project unchanged.
	// Numeric inputs out of range are clamped instead.
	Project struct {
		ID            string             `json:"id" yaml:"id"`
		Name          string             `json:"name" yaml:"name"`
		BPM           float64            `json:"bpm" yaml:"bpm"`
		TimeSignature TimeSignature      `json:"timeSignature" yaml:"timeSignature,flow"`
		Key           string             `json:"key" yaml:"key"`
		SampleRate    int                `json:"sampleRate" yaml:"sampleRate"`
		BitDepth      int                `json:"bitDepth" yaml:"bitDepth"`
		Tempo         []TempoChange      `json:"tempoChanges" yaml:"tempoChanges,omitempty"`
		Markers       []Marker           `json:"markers" yaml:"markers,omitempty"`
		Tracks        []Track            `json:"tracks" yaml:"tracks"`
		Regions       map[string]*Region `json:"regions" yaml:"regions"`
		Buses         []Bus              `json:"buses" yaml:"buses,omitempty"`
		Master        Channel            `json:"master" yaml:"master"`
		Loop          Loop               `json:"loop" yaml:"loop,flow"`
		UpdatedAt     time.Time          `json:"updatedAt" yaml:"updatedAt"`
	}

	TimeSignature struct {
		Numerator   int `json:"numerator" yaml:"numerator"`
		Denominator int `json:"denominator" yaml:"denominator"`
	}

	// Loop is the cycle range of the transport, in beats.
	Loop struct {
		Enabled bool    `json:"enabled" yaml:"enabled"`
		Start   float64 `json:"start" yaml:"start"`
		End     float64 `json:"end" yaml:"end"`
	}

	// Channel holds the mixer settings of the master output.
	Channel struct {
		Volume  float64  `json:"volume" yaml:"volume"`
		Pan     float64  `json:"pan" yaml:"pan"`
		Mute    bool     `json:"mute" yaml:"mute,omitempty"`
		Inserts []Insert `json:"inserts" yaml:"inserts,omitempty"`
	}

	// Bus is an auxiliary mix bus that track sends can target.
	Bus struct {
		ID      string   `json:"id" yaml:"id"`
		Name    string   `json:"name" yaml:"name"`
		Volume  float64  `json:"volume" yaml:"volume"`
		Pan     float64  `json:"pan" yaml:"pan"`
		Mute    bool     `json:"mute" yaml:"mute,omitempty"`
		Inserts []Insert `json:"inserts" yaml:"inserts,omitempty"`
	}

	Marker struct {
		ID    string  `json:"id" yaml:"id"`
		Time  float64 `json:"time" yaml:"time"`
		Name  string  `json:"name" yaml:"name"`
		Color string  `json:"color" yaml:"color,omitempty"`
	}

	// AudioBuffer is a buffer of stereo samples, as returned by the audio
	// engine when it loads a sample.
	AudioBuffer [][2]float32
)

const (
	MinBPM = 20
	MaxBPM = 300

	// MaxBeat is the latest time, in beats, anything can be placed at.
	MaxBeat = 1 << 20

	DefaultBPM        = 120
	DefaultSampleRate = 44100
	DefaultBitDepth   = 24
)

var (
	ErrTrackNotFound   = errors.New("track not found")
	ErrRegionNotFound  = errors.New("region not found")
	ErrNoteNotFound    = errors.New("note not found")
	ErrBusNotFound     = errors.New("bus not found")
	ErrMarkerNotFound  = errors.New("marker not found")
	ErrPointNotFound   = errors.New("automation point not found")
	ErrTempoNotFound   = errors.New("tempo change not found")
	ErrInsertNotFound  = errors.New("insert not found")
	ErrSendNotFound    = errors.New("send not found")
	ErrOutsideRegion   = errors.New("time is not inside the region")
	ErrMergeMismatch   = errors.New("regions must be on the same track and of the same kind")
	ErrTooFewRegions   = errors.New("at least two regions are needed")
	ErrWrongKind       = errors.New("operation does not apply to this kind")
	ErrNotFolder       = errors.New("track is not a folder")
	ErrCycle           = errors.New("folder membership would be cyclic")
	ErrNoRegionsOnKind = errors.New("track kind cannot hold regions")
	ErrNothingToDo     = errors.New("nothing to do")
)

// NewProject returns an empty project with default settings.
func NewProject(name string) Project {
	return Project{
		ID:            newID(),
		Name:          name,
		BPM:           DefaultBPM,
		TimeSignature: TimeSignature{Numerator: 4, Denominator: 4},
		Key:           "C major",
		SampleRate:    DefaultSampleRate,
		BitDepth:      DefaultBitDepth,
		Regions:       map[string]*Region{},
		Master:        Channel{Volume: 0.8},
		Loop:          Loop{Start: 0, End: 16},
	}
}

func newID() string {
	return uuid.NewString()
}

// Copy makes a deep copy of a Project. Nothing in the returned project shares
// memory with the original.
func (p *Project) Copy() Project {
	ret := *p
	ret.Tempo = append([]TempoChange(nil), p.Tempo...)
	ret.Markers = append([]Marker(nil), p.Markers...)
	ret.Tracks = make([]Track, len(p.Tracks))
	for i := range p.Tracks {
		ret.Tracks[i] = p.Tracks[i].Copy()
	}
	ret.Regions = make(map[string]*Region, len(p.Regions))
	for id, r := range p.Regions {
		if r == nil {
			ret.Regions[id] = nil
			continue
		}
		c := r.Copy()
		ret.Regions[id] = &c
	}
	ret.Buses = make([]Bus, len(p.Buses))
	for i, b := range p.Buses {
		b.Inserts = copyInserts(b.Inserts)
		ret.Buses[i] = b
	}
	ret.Master.Inserts = copyInserts(p.Master.Inserts)
	return ret
}

// TrackIndex returns the index of the track with the given id, or -1.
func (p *Project) TrackIndex(id string) int {
	for i := range p.Tracks {
		if p.Tracks[i].ID == id {
			return i
		}
	}
	return -1
}

// Track returns a pointer to the track with the given id, or nil.
func (p *Project) Track(id string) *Track {
	if i := p.TrackIndex(id); i >= 0 {
		return &p.Tracks[i]
	}
	return nil
}

// Region returns the region with the given id, or nil.
func (p *Project) Region(id string) *Region {
	if p.Regions == nil {
		return nil
	}
	return p.Regions[id]
}

// Length returns the end of the last region in beats.
func (p *Project) Length() float64 {
	ret := 0.0
	for _, r := range p.Regions {
		if r != nil {
			ret = max(ret, r.End())
		}
	}
	return ret
}

// TrackLength returns the end of the last region on a track in beats.
func (p *Project) TrackLength(trackID string) float64 {
	t := p.Track(trackID)
	if t == nil {
		return 0
	}
	ret := 0.0
	for _, id := range t.Regions {
		if r := p.Region(id); r != nil {
			ret = max(ret, r.End())
		}
	}
	return ret
}

func (p *Project) SetName(name string) {
	p.Name = name
}

func (p *Project) SetBPM(bpm float64) {
	p.BPM = clamp(bpm, MinBPM, MaxBPM)
}

func (p *Project) SetKey(key string) {
	p.Key = key
}

// SetTimeSignature sets the signature. The numerator is clamped to [1,32]
// and the denominator is rounded down to a power of two in [1,32].
func (p *Project) SetTimeSignature(numerator, denominator int) {
	numerator = max(min(numerator, 32), 1)
	denominator = max(min(denominator, 32), 1)
	d := 1
	for d*2 <= denominator {
		d *= 2
	}
	p.TimeSignature = TimeSignature{Numerator: numerator, Denominator: d}
}

func (p *Project) SetLoop(enabled bool, start, end float64) {
	if end < start {
		start, end = end, start
	}
	start = ClampBeat(start)
	end = max(ClampBeat(end), start)
	p.Loop = Loop{Enabled: enabled, Start: start, End: end}
}

func (p *Project) SetMasterVolume(v float64) { p.Master.Volume = clamp(v, 0, 1) }
func (p *Project) SetMasterPan(v float64)    { p.Master.Pan = clamp(v, -1, 1) }
func (p *Project) SetMasterMute(v bool)      { p.Master.Mute = v }

// AddBus appends a bus and returns its id.
func (p *Project) AddBus(name string) string {
	b := Bus{ID: newID(), Name: name, Volume: 0.8}
	p.Buses = append(p.Buses, b)
	return b.ID
}

// RemoveBus removes the bus and every send targeting it.
func (p *Project) RemoveBus(id string) error {
	i := p.busIndex(id)
	if i < 0 {
		return ErrBusNotFound
	}
	p.Buses = append(p.Buses[:i], p.Buses[i+1:]...)
	for t := range p.Tracks {
		sends := p.Tracks[t].Sends[:0]
		for _, s := range p.Tracks[t].Sends {
			if s.BusID != id {
				sends = append(sends, s)
			} else {
				delete(p.Tracks[t].Automation, SendParam(s.ID))
			}
		}
		p.Tracks[t].Sends = sends
	}
	return nil
}

func (p *Project) busIndex(id string) int {
	for i := range p.Buses {
		if p.Buses[i].ID == id {
			return i
		}
	}
	return -1
}

// AddMarker adds a marker, keeping the marker list ordered by time.
func (p *Project) AddMarker(at float64, name, color string) string {
	m := Marker{ID: newID(), Time: ClampBeat(at), Name: name, Color: color}
	i := 0
	for i < len(p.Markers) && p.Markers[i].Time <= m.Time {
		i++
	}
	p.Markers = append(p.Markers, Marker{})
	copy(p.Markers[i+1:], p.Markers[i:])
	p.Markers[i] = m
	return m.ID
}

func (p *Project) RemoveMarker(id string) error {
	for i := range p.Markers {
		if p.Markers[i].ID == id {
			p.Markers = append(p.Markers[:i], p.Markers[i+1:]...)
			return nil
		}
	}
	return ErrMarkerNotFound
}

// MoveMarker moves a marker to a new time, reordering the list.
func (p *Project) MoveMarker(id string, at float64) error {
	i := p.markerIndex(id)
	if i < 0 {
		return ErrMarkerNotFound
	}
	p.Markers[i].Time = ClampBeat(at)
	slices.SortStableFunc(p.Markers, func(a, b Marker) int { return cmp.Compare(a.Time, b.Time) })
	return nil
}

func (p *Project) markerIndex(id string) int {
	for i := range p.Markers {
		if p.Markers[i].ID == id {
			return i
		}
	}
	return -1
}

// ClampBeat brings a time position into [0, MaxBeat]. NaN becomes 0.
func ClampBeat(v float64) float64 { return clamp(v, 0, MaxBeat) }

// clamp limits v to [lo, hi], mapping NaN to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	return max(min(v, hi), lo)
}
