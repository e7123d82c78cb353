package beatline

import (
	"cmp"
	"math"
	"slices"
)

// TempoChange sets the tempo at a time in beats. Curve tells how the tempo
// gets there from the previous change (or from the project BPM): at once,
// along a straight ramp or along an eased ramp.
type TempoChange struct {
	ID    string     `json:"id" yaml:"id"`
	Time  float64    `json:"time" yaml:"time"`
	BPM   float64    `json:"bpm" yaml:"bpm"`
	Curve TempoCurve `json:"curve" yaml:"curve"`
}

type TempoCurve string

const (
	TempoStep   TempoCurve = "step"
	TempoLinear TempoCurve = "linear"
	TempoSmooth TempoCurve = "smooth"
)

const (
	MinTempoBPM = 40
	MaxTempoBPM = 240
)

const smoothSteps = 64

// AddTempoChange inserts a tempo change, keeping the tempo map ordered by
// time, and returns its id.
func (p *Project) AddTempoChange(at, bpm float64, curve TempoCurve) string {
	switch curve {
	case TempoStep, TempoLinear, TempoSmooth:
	default:
		curve = TempoStep
	}
	c := TempoChange{ID: newID(), Time: ClampBeat(at), BPM: clamp(bpm, MinTempoBPM, MaxTempoBPM), Curve: curve}
	i := 0
	for i < len(p.Tempo) && p.Tempo[i].Time <= c.Time {
		i++
	}
	p.Tempo = slices.Insert(p.Tempo, i, c)
	return c.ID
}

func (p *Project) RemoveTempoChange(id string) error {
	for i := range p.Tempo {
		if p.Tempo[i].ID == id {
			p.Tempo = slices.Delete(p.Tempo, i, i+1)
			return nil
		}
	}
	return ErrTempoNotFound
}

type tempoPoint struct {
	time, bpm float64
	curve     TempoCurve
}

// tempoPoints returns the tempo map as points sorted by time, starting with
// the project BPM at beat 0.
func (p *Project) tempoPoints() []tempoPoint {
	ret := make([]tempoPoint, 0, len(p.Tempo)+1)
	bpm := p.BPM
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	ret = append(ret, tempoPoint{0, bpm, TempoStep})
	sorted := append([]TempoChange(nil), p.Tempo...)
	slices.SortStableFunc(sorted, func(a, b TempoChange) int { return cmp.Compare(a.Time, b.Time) })
	for _, c := range sorted {
		ret = append(ret, tempoPoint{max(c.Time, 0), c.BPM, c.Curve})
	}
	return ret
}

// TempoAt returns the tempo in BPM at a beat.
func (p *Project) TempoAt(beat float64) float64 {
	points := p.tempoPoints()
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		if beat >= b.time {
			continue
		}
		return segmentBPM(a, b, beat)
	}
	return points[len(points)-1].bpm
}

func segmentBPM(a, b tempoPoint, beat float64) float64 {
	if b.time <= a.time {
		return b.bpm
	}
	x := (beat - a.time) / (b.time - a.time)
	switch b.curve {
	case TempoLinear:
		return a.bpm + (b.bpm-a.bpm)*x
	case TempoSmooth:
		return a.bpm + (b.bpm-a.bpm)*x*x*(3-2*x)
	default:
		return a.bpm
	}
}

// SecondsAt returns the time in seconds from beat 0 to the given beat,
// following the tempo map.
func (p *Project) SecondsAt(beat float64) float64 {
	if beat <= 0 {
		return 0
	}
	points := p.tempoPoints()
	ret := 0.0
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		if a.time >= beat {
			return ret
		}
		end := min(b.time, beat)
		if end <= a.time {
			continue
		}
		ret += segmentSeconds(a, b, end)
	}
	last := points[len(points)-1]
	if beat > last.time {
		ret += (beat - last.time) * 60 / last.bpm
	}
	return ret
}

// segmentSeconds integrates 60/bpm over [a.time, end], end <= b.time.
func segmentSeconds(a, b tempoPoint, end float64) float64 {
	switch b.curve {
	case TempoLinear:
		k := (b.bpm - a.bpm) / (b.time - a.time)
		if math.Abs(k) < 1e-12 {
			return (end - a.time) * 60 / a.bpm
		}
		return 60 / k * math.Log((a.bpm+k*(end-a.time))/a.bpm)
	case TempoSmooth:
		// Simpson's rule
		h := (end - a.time) / smoothSteps
		sum := 0.0
		for i := 0; i <= smoothSteps; i++ {
			w := 2.0
			switch {
			case i == 0 || i == smoothSteps:
				w = 1
			case i%2 == 1:
				w = 4
			}
			sum += w * 60 / segmentBPM(a, b, a.time+float64(i)*h)
		}
		return sum * h / 3
	default:
		return (end - a.time) * 60 / a.bpm
	}
}
