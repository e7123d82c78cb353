package beatline

import (
	"cmp"
	"slices"
)

type (
	// Region is a time-bounded placement of MIDI or audio content on a track.
	// Kind tells which of MIDI and Audio is set; the other one is nil.
	Region struct {
		ID         string        `json:"id" yaml:"id"`
		Name       string        `json:"name" yaml:"name"`
		TrackID    string        `json:"trackId" yaml:"trackId"`
		Kind       RegionKind    `json:"kind" yaml:"kind"`
		Start      float64       `json:"startTime" yaml:"startTime"`
		Duration   float64       `json:"duration" yaml:"duration"`
		Color      string        `json:"color" yaml:"color"`
		Muted      bool          `json:"muted" yaml:"muted,omitempty"`
		Looped     bool          `json:"looped" yaml:"looped,omitempty"`
		LoopLength float64       `json:"loopLength,omitempty" yaml:"loopLength,omitempty"`
		MIDI       *MIDIContent  `json:"midi,omitempty" yaml:"midi,omitempty"`
		Audio      *AudioContent `json:"audio,omitempty" yaml:"audio,omitempty"`
	}

	RegionKind string

	MIDIContent struct {
		Notes    []Note `json:"notes" yaml:"notes"`
		Quantize string `json:"quantize" yaml:"quantize"`
	}

	// AudioContent refers to an audio asset. Offset is the trim offset into
	// the source in beats. FadeIn and FadeOut are at most half the region
	// duration each.
	AudioContent struct {
		Source  string  `json:"source" yaml:"source"`
		Offset  float64 `json:"offset" yaml:"offset"`
		Gain    float64 `json:"gain" yaml:"gain"`
		FadeIn  float64 `json:"fadeIn" yaml:"fadeIn"`
		FadeOut float64 `json:"fadeOut" yaml:"fadeOut"`
	}

	// Edge selects which end of a region a resize moves.
	Edge string
)

const (
	MIDIRegion  RegionKind = "midi"
	AudioRegion RegionKind = "audio"
)

const (
	StartEdge Edge = "start"
	EndEdge   Edge = "end"
)

const (
	// MinRegionDuration is the shortest a region can be resized to, in beats.
	MinRegionDuration = 0.25
	MaxGain           = 4
)

// NewMIDIRegion returns an empty MIDI region, not yet placed on a track.
func NewMIDIRegion(name string, start, duration float64) Region {
	return Region{
		ID:       newID(),
		Name:     name,
		Kind:     MIDIRegion,
		Start:    start,
		Duration: duration,
		MIDI:     &MIDIContent{Notes: []Note{}, Quantize: "off"},
	}
}

// NewAudioRegion returns an audio region playing source from its beginning.
func NewAudioRegion(name, source string, start, duration float64) Region {
	return Region{
		ID:       newID(),
		Name:     name,
		Kind:     AudioRegion,
		Start:    start,
		Duration: duration,
		Audio:    &AudioContent{Source: source, Gain: 1},
	}
}

// End returns the beat where the region ends.
func (r *Region) End() float64 {
	return r.Start + r.Duration
}

// Contains reports whether beat is strictly inside the region.
func (r *Region) Contains(beat float64) bool {
	return beat > r.Start && beat < r.End()
}

// Copy makes a deep copy of a Region, keeping all ids.
func (r *Region) Copy() Region {
	ret := *r
	if r.MIDI != nil {
		m := *r.MIDI
		m.Notes = append([]Note(nil), r.MIDI.Notes...)
		ret.MIDI = &m
	}
	if r.Audio != nil {
		a := *r.Audio
		ret.Audio = &a
	}
	return ret
}

// Clone makes a deep copy of a Region with a new id for the region and each
// of its notes.
func (r *Region) Clone() Region {
	ret := r.Copy()
	ret.ID = newID()
	if ret.MIDI != nil {
		for i := range ret.MIDI.Notes {
			ret.MIDI.Notes[i].ID = newID()
		}
	}
	return ret
}

// normalize brings the region's fields into their valid ranges.
func (r *Region) normalize() {
	r.Start = ClampBeat(r.Start)
	if !(r.Duration > 0) {
		r.Duration = MinRegionDuration
	}
	r.Duration = min(r.Duration, MaxBeat)
	switch r.Kind {
	case MIDIRegion:
		r.Audio = nil
		if r.MIDI == nil {
			r.MIDI = &MIDIContent{Quantize: "off"}
		}
		if r.MIDI.Notes == nil {
			r.MIDI.Notes = []Note{}
		}
		for i := range r.MIDI.Notes {
			r.MIDI.Notes[i].normalize()
		}
	case AudioRegion:
		r.MIDI = nil
		if r.Audio == nil {
			r.Audio = &AudioContent{Gain: 1}
		}
		a := r.Audio
		a.Offset = ClampBeat(a.Offset)
		a.Gain = clamp(a.Gain, 0, MaxGain)
		a.FadeIn = clamp(a.FadeIn, 0, r.Duration/2)
		a.FadeOut = clamp(a.FadeOut, 0, r.Duration/2)
	}
	if r.Looped {
		r.LoopLength = clamp(r.LoopLength, r.Duration, MaxBeat)
	} else {
		r.LoopLength = 0
	}
}

// AddRegion places a copy of region on the track and returns its id. The
// region gets a new id if it has none or if the id is already taken. The
// region kind must match what the track records.
func (p *Project) AddRegion(trackID string, region Region) (string, error) {
	t := p.Track(trackID)
	if t == nil {
		return "", ErrTrackNotFound
	}
	if !t.Kind.HoldsRegions() {
		return "", ErrNoRegionsOnKind
	}
	if region.Kind != t.Kind.RegionKind() {
		return "", ErrWrongKind
	}
	r := region.Copy()
	if _, taken := p.Regions[r.ID]; r.ID == "" || taken {
		r.ID = newID()
	}
	r.TrackID = trackID
	if r.Color == "" {
		r.Color = t.Color
	}
	r.normalize()
	if p.Regions == nil {
		p.Regions = map[string]*Region{}
	}
	p.Regions[r.ID] = &r
	t.Regions = append(t.Regions, r.ID)
	return r.ID, nil
}

// DeleteRegion removes the region from the map and from its track.
func (p *Project) DeleteRegion(id string) error {
	r := p.Region(id)
	if r == nil {
		return ErrRegionNotFound
	}
	if t := p.Track(r.TrackID); t != nil {
		t.Regions = removeString(t.Regions, id)
	}
	delete(p.Regions, id)
	return nil
}

// MoveRegion moves the region to a new start and, if trackID is not empty,
// to another track of a compatible kind.
func (p *Project) MoveRegion(id string, start float64, trackID string) error {
	r := p.Region(id)
	if r == nil {
		return ErrRegionNotFound
	}
	if trackID != "" && trackID != r.TrackID {
		to := p.Track(trackID)
		if to == nil {
			return ErrTrackNotFound
		}
		if !to.Kind.HoldsRegions() {
			return ErrNoRegionsOnKind
		}
		if to.Kind.RegionKind() != r.Kind {
			return ErrWrongKind
		}
		if from := p.Track(r.TrackID); from != nil {
			from.Regions = removeString(from.Regions, id)
		}
		to.Regions = append(to.Regions, id)
		r.TrackID = trackID
	}
	r.Start = ClampBeat(start)
	return nil
}

// ResizeRegion changes the duration of the region. Resizing the end edge
// keeps the start fixed; resizing the start edge keeps the end fixed and,
// for audio, moves the trim offset along with the start.
func (p *Project) ResizeRegion(id string, duration float64, edge Edge) error {
	r := p.Region(id)
	if r == nil {
		return ErrRegionNotFound
	}
	duration = clamp(duration, MinRegionDuration, MaxBeat)
	switch edge {
	case StartEdge:
		end := r.End()
		start := max(end-duration, 0)
		delta := start - r.Start
		r.Start = start
		r.Duration = max(end-start, MinRegionDuration)
		if r.Kind == AudioRegion && r.Audio != nil {
			r.Audio.Offset = ClampBeat(r.Audio.Offset + delta)
		}
	default:
		r.Duration = duration
	}
	r.normalize()
	return nil
}

// SplitRegion cuts the region in two at beat at and returns the id of the
// new right half. MIDI notes starting before the split stay in the left
// half; the others move to the right half.
func (p *Project) SplitRegion(id string, at float64) (string, error) {
	r := p.Region(id)
	if r == nil {
		return "", ErrRegionNotFound
	}
	if !r.Contains(at) {
		return "", ErrOutsideRegion
	}
	t := p.Track(r.TrackID)
	if t == nil {
		return "", ErrTrackNotFound
	}
	left := at - r.Start
	right := r.Copy()
	right.ID = newID()
	right.Start = at
	right.Duration = r.Duration - left
	r.Duration = left
	switch r.Kind {
	case MIDIRegion:
		var keep, move []Note
		for _, n := range r.MIDI.Notes {
			if n.Start < left {
				keep = append(keep, n)
			} else {
				n.Start -= left
				move = append(move, n)
			}
		}
		r.MIDI.Notes = append([]Note{}, keep...)
		right.MIDI.Notes = append([]Note{}, move...)
	case AudioRegion:
		right.Audio.Offset += left
		r.Audio.FadeOut = 0
		right.Audio.FadeIn = 0
	}
	r.normalize()
	right.normalize()
	p.Regions[right.ID] = &right
	i := slices.Index(t.Regions, id)
	t.Regions = slices.Insert(t.Regions, i+1, right.ID)
	return right.ID, nil
}

// MergeRegions joins two or more regions of the same kind on the same track
// into the earliest one, which spans their union. MIDI notes are re-timed
// relative to the new start; audio keeps the earliest region's source.
func (p *Project) MergeRegions(ids []string) (string, error) {
	var regions []*Region
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		r := p.Region(id)
		if r == nil {
			return "", ErrRegionNotFound
		}
		regions = append(regions, r)
	}
	if len(regions) < 2 {
		return "", ErrTooFewRegions
	}
	for _, r := range regions[1:] {
		if r.TrackID != regions[0].TrackID || r.Kind != regions[0].Kind {
			return "", ErrMergeMismatch
		}
	}
	slices.SortStableFunc(regions, func(a, b *Region) int { return cmp.Compare(a.Start, b.Start) })
	first := regions[0]
	start, end := first.Start, first.End()
	for _, r := range regions[1:] {
		end = max(end, r.End())
	}
	switch first.Kind {
	case MIDIRegion:
		var notes []Note
		for _, r := range regions {
			for _, n := range r.MIDI.Notes {
				n.Start += r.Start - start
				notes = append(notes, n)
			}
		}
		slices.SortStableFunc(notes, func(a, b Note) int { return cmp.Compare(a.Start, b.Start) })
		first.MIDI.Notes = append([]Note{}, notes...)
	case AudioRegion:
		first.Audio.FadeOut = regions[len(regions)-1].Audio.FadeOut
	}
	first.Duration = end - start
	for _, r := range regions[1:] {
		if err := p.DeleteRegion(r.ID); err != nil {
			return "", err
		}
	}
	first.normalize()
	return first.ID, nil
}

// DuplicateRegion places a copy of the region right after it on the same
// track and returns the copy's id.
func (p *Project) DuplicateRegion(id string) (string, error) {
	r := p.Region(id)
	if r == nil {
		return "", ErrRegionNotFound
	}
	t := p.Track(r.TrackID)
	if t == nil {
		return "", ErrTrackNotFound
	}
	c := r.Clone()
	c.Start = r.End()
	p.Regions[c.ID] = &c
	t.Regions = append(t.Regions, c.ID)
	return c.ID, nil
}

func (p *Project) SetRegionMuted(id string, muted bool) error {
	return p.withRegion(id, func(r *Region) error { r.Muted = muted; return nil })
}

func (p *Project) SetRegionName(id, name string) error {
	return p.withRegion(id, func(r *Region) error { r.Name = name; return nil })
}

func (p *Project) SetRegionColor(id, color string) error {
	return p.withRegion(id, func(r *Region) error { r.Color = color; return nil })
}

// SetRegionLooped turns looping on or off. The loop length is raised to the
// region duration if shorter.
func (p *Project) SetRegionLooped(id string, looped bool, loopLength float64) error {
	return p.withRegion(id, func(r *Region) error {
		r.Looped = looped
		r.LoopLength = loopLength
		return nil
	})
}

func (p *Project) SetAudioFades(id string, fadeIn, fadeOut float64) error {
	return p.withRegion(id, func(r *Region) error {
		if r.Kind != AudioRegion {
			return ErrWrongKind
		}
		r.Audio.FadeIn, r.Audio.FadeOut = fadeIn, fadeOut
		return nil
	})
}

func (p *Project) SetAudioGain(id string, gain float64) error {
	return p.withRegion(id, func(r *Region) error {
		if r.Kind != AudioRegion {
			return ErrWrongKind
		}
		r.Audio.Gain = gain
		return nil
	})
}

// PasteRegions adds re-keyed copies of regions, shifted so that the earliest
// one starts at anchor. Each copy goes to its original track if that track
// still takes it, otherwise to fallbackTrackID. Regions that fit neither are
// skipped. The ids of the pasted regions are returned.
func (p *Project) PasteRegions(regions []Region, anchor float64, fallbackTrackID string) ([]string, error) {
	if len(regions) == 0 {
		return nil, ErrNothingToDo
	}
	earliest := regions[0].Start
	for _, r := range regions[1:] {
		earliest = min(earliest, r.Start)
	}
	var ids []string
	for i := range regions {
		c := regions[i].Clone()
		c.Start = ClampBeat(ClampBeat(anchor) + c.Start - earliest)
		id, err := p.AddRegion(c.TrackID, c)
		if err != nil && fallbackTrackID != "" {
			id, err = p.AddRegion(fallbackTrackID, c)
		}
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, ErrTrackNotFound
	}
	return ids, nil
}

func (p *Project) withRegion(id string, f func(r *Region) error) error {
	r := p.Region(id)
	if r == nil {
		return ErrRegionNotFound
	}
	if err := f(r); err != nil {
		return err
	}
	r.normalize()
	return nil
}

func removeString(s []string, v string) []string {
	return slices.DeleteFunc(s, func(x string) bool { return x == v })
}
