package beatline

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidProject = errors.New("invalid project")

const fadeEpsilon = 1e-9

// Validate checks the structural invariants of the project and returns an
// error describing the first one that is broken. The error wraps
// ErrInvalidProject.
func (p *Project) Validate() error {
	if !finite(p.BPM, p.Master.Volume, p.Master.Pan, p.Loop.Start, p.Loop.End) {
		return invalid("project settings are not finite")
	}
	for _, c := range p.Tempo {
		if !finite(c.Time, c.BPM) {
			return invalid("tempo change %s is not finite", c.ID)
		}
	}
	tracks := make(map[string]*Track, len(p.Tracks))
	for i := range p.Tracks {
		t := &p.Tracks[i]
		if t.ID == "" {
			return invalid("track %d has no id", i)
		}
		if _, ok := tracks[t.ID]; ok {
			return invalid("duplicate track id %s", t.ID)
		}
		tracks[t.ID] = t
	}
	owners := make(map[string]string, len(p.Regions))
	for _, t := range p.Tracks {
		if len(t.Regions) > 0 && !t.Kind.HoldsRegions() {
			return invalid("track %s of kind %s holds regions", t.ID, t.Kind)
		}
		for _, id := range t.Regions {
			if prev, ok := owners[id]; ok {
				return invalid("region %s listed by tracks %s and %s", id, prev, t.ID)
			}
			owners[id] = t.ID
			r := p.Regions[id]
			if r == nil {
				return invalid("track %s lists missing region %s", t.ID, id)
			}
			if r.TrackID != t.ID {
				return invalid("region %s belongs to %s but is listed by %s", id, r.TrackID, t.ID)
			}
		}
		if !finite(t.Volume, t.Pan) {
			return invalid("track %s has a non-finite volume or pan", t.ID)
		}
		for _, lane := range t.Automation {
			if lane == nil {
				continue
			}
			for _, pt := range lane.Points {
				if !finite(pt.Time, pt.Value) {
					return invalid("automation point %s of track %s is not finite", pt.ID, t.ID)
				}
			}
		}
		for _, s := range t.Sends {
			if !finite(s.Amount) {
				return invalid("send %s of track %s has a non-finite amount", s.ID, t.ID)
			}
			if p.busIndex(s.BusID) < 0 {
				return invalid("send %s of track %s targets missing bus %s", s.ID, t.ID, s.BusID)
			}
		}
		if t.GroupID != "" {
			f, ok := tracks[t.GroupID]
			if !ok {
				return invalid("track %s is in missing folder %s", t.ID, t.GroupID)
			}
			if f.Kind != FolderTrack {
				return invalid("track %s is in %s, which is not a folder", t.ID, t.GroupID)
			}
			if p.inFolder(t.GroupID, t.ID) {
				return invalid("folder membership of track %s is cyclic", t.ID)
			}
		}
	}
	for id, r := range p.Regions {
		if r == nil {
			return invalid("region %s is nil", id)
		}
		if r.ID != id {
			return invalid("region %s is stored under key %s", r.ID, id)
		}
		if _, ok := owners[id]; !ok {
			return invalid("region %s is not listed by any track", id)
		}
		if err := r.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Region) validate() error {
	if !(r.Start >= 0) || !finite(r.Start) {
		return invalid("region %s has start %v", r.ID, r.Start)
	}
	if !(r.Duration > 0) || !finite(r.Duration) {
		return invalid("region %s has duration %v", r.ID, r.Duration)
	}
	if r.Looped && r.LoopLength < r.Duration {
		return invalid("region %s loops shorter than its duration", r.ID)
	}
	switch r.Kind {
	case MIDIRegion:
		if r.MIDI == nil || r.Audio != nil {
			return invalid("midi region %s has wrong content", r.ID)
		}
		for _, n := range r.MIDI.Notes {
			if n.Pitch < 0 || n.Pitch > 127 || n.Velocity < 1 || n.Velocity > 127 {
				return invalid("note %s of region %s is out of range", n.ID, r.ID)
			}
			if !(n.Start >= 0) || !(n.Duration > 0) || !finite(n.Start, n.Duration) {
				return invalid("note %s of region %s has bad timing", n.ID, r.ID)
			}
		}
	case AudioRegion:
		if r.Audio == nil || r.MIDI != nil {
			return invalid("audio region %s has wrong content", r.ID)
		}
		half := r.Duration/2 + fadeEpsilon
		if r.Audio.FadeIn > half || r.Audio.FadeOut > half {
			return invalid("fades of region %s exceed half its duration", r.ID)
		}
	default:
		return invalid("region %s has unknown kind %q", r.ID, r.Kind)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidProject, fmt.Sprintf(format, args...))
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
