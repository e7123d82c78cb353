package beatline

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/viterin/vek/vek32"
)

type (
	// AutomationLane is the automation curve of one track parameter. Points
	// are kept in the order they were added; ValueAt and Sample sort a copy
	// by time.
	AutomationLane struct {
		Param   string            `json:"param" yaml:"param"`
		Enabled bool              `json:"enabled" yaml:"enabled"`
		Points  []AutomationPoint `json:"points" yaml:"points"`
	}

	// AutomationPoint is a value in [0,1] at a time in beats. Curve shapes
	// the segment from this point to the next one.
	AutomationPoint struct {
		ID    string  `json:"id" yaml:"id"`
		Time  float64 `json:"time" yaml:"time"`
		Value float64 `json:"value" yaml:"value"`
		Curve Curve   `json:"curve" yaml:"curve"`
	}

	Curve string
)

const (
	LinearCurve      Curve = "linear"
	SCurve           Curve = "s-curve"
	ExponentialCurve Curve = "exponential"
	LogarithmicCurve Curve = "logarithmic"
	StepCurve        Curve = "step"
)

const (
	VolumeParam = "volume"
	PanParam    = "pan"
	MuteParam   = "mute"
)

// SendParam returns the automation parameter of a send's amount.
func SendParam(sendID string) string {
	return "send:" + sendID
}

// PluginParam returns the automation parameter of an insert's parameter.
func PluginParam(insertID, name string) string {
	return "plugin:" + insertID + ":" + name
}

func (c Curve) valid() bool {
	switch c {
	case LinearCurve, SCurve, ExponentialCurve, LogarithmicCurve, StepCurve:
		return true
	}
	return false
}

// shape maps x in [0,1] to the fraction of the way from one point's value to
// the next.
func (c Curve) shape(x float64) float64 {
	switch c {
	case StepCurve:
		return 0
	case SCurve:
		return x * x * (3 - 2*x)
	case ExponentialCurve:
		return x * x
	case LogarithmicCurve:
		return math.Log1p(9*x) / math.Ln10
	default:
		return x
	}
}

func (l *AutomationLane) Copy() AutomationLane {
	ret := *l
	ret.Points = append([]AutomationPoint(nil), l.Points...)
	return ret
}

// Sorted returns a copy of the points sorted by time.
func (l *AutomationLane) Sorted() []AutomationPoint {
	ret := append([]AutomationPoint(nil), l.Points...)
	slices.SortStableFunc(ret, func(a, b AutomationPoint) int { return cmp.Compare(a.Time, b.Time) })
	return ret
}

// ValueAt returns the value of the lane at time t. Before the first point
// the lane holds the first value and after the last point the last value.
// An empty lane is 0.
func (l *AutomationLane) ValueAt(t float64) float64 {
	return valueAt(l.Sorted(), t)
}

func valueAt(points []AutomationPoint, t float64) float64 {
	if len(points) == 0 {
		return 0
	}
	i, _ := slices.BinarySearchFunc(points, t, func(p AutomationPoint, t float64) int {
		if p.Time <= t {
			return -1
		}
		return 1
	})
	if i == 0 {
		return points[0].Value
	}
	if i == len(points) {
		return points[len(points)-1].Value
	}
	a, b := points[i-1], points[i]
	if b.Time <= a.Time {
		return b.Value
	}
	x := (t - a.Time) / (b.Time - a.Time)
	return a.Value + (b.Value-a.Value)*a.Curve.shape(x)
}

// Sample returns n values of the lane evenly spaced over [from, to].
func (l *AutomationLane) Sample(from, to float64, n int) []float32 {
	if n <= 0 {
		return nil
	}
	points := l.Sorted()
	base := make([]float32, n)
	span := make([]float32, n)
	shape := make([]float32, n)
	step := 0.0
	if n > 1 {
		step = (to - from) / float64(n-1)
	}
	for k := range n {
		t := from + float64(k)*step
		if len(points) == 0 {
			continue
		}
		i, _ := slices.BinarySearchFunc(points, t, func(p AutomationPoint, t float64) int {
			if p.Time <= t {
				return -1
			}
			return 1
		})
		switch {
		case i == 0:
			base[k] = float32(points[0].Value)
		case i == len(points):
			base[k] = float32(points[i-1].Value)
		default:
			a, b := points[i-1], points[i]
			base[k] = float32(a.Value)
			if b.Time > a.Time {
				span[k] = float32(b.Value - a.Value)
				shape[k] = float32(a.Curve.shape((t - a.Time) / (b.Time - a.Time)))
			} else {
				base[k] = float32(b.Value)
			}
		}
	}
	out := make([]float32, n)
	vek32.Mul_Into(out, span, shape)
	vek32.Add_Inplace(out, base)
	return out
}

// AddAutomationPoint adds a point to the lane of param on the track, creating
// the lane if needed, and returns the point id. Send and plugin parameters
// must refer to an existing send or insert of the track.
func (p *Project) AddAutomationPoint(trackID, param string, at, value float64, curve Curve) (string, error) {
	t := p.Track(trackID)
	if t == nil {
		return "", ErrTrackNotFound
	}
	if err := t.checkParam(param); err != nil {
		return "", err
	}
	if !curve.valid() {
		curve = LinearCurve
	}
	if t.Automation == nil {
		t.Automation = map[string]*AutomationLane{}
	}
	l, ok := t.Automation[param]
	if !ok {
		l = &AutomationLane{Param: param, Enabled: true}
		t.Automation[param] = l
	}
	pt := AutomationPoint{ID: newID(), Time: ClampBeat(at), Value: clamp(value, 0, 1), Curve: curve}
	l.Points = append(l.Points, pt)
	return pt.ID, nil
}

func (p *Project) RemoveAutomationPoint(trackID, param, pointID string) error {
	l, err := p.lane(trackID, param)
	if err != nil {
		return err
	}
	i := l.pointIndex(pointID)
	if i < 0 {
		return ErrPointNotFound
	}
	l.Points = append(l.Points[:i], l.Points[i+1:]...)
	return nil
}

func (p *Project) MoveAutomationPoint(trackID, param, pointID string, at, value float64) error {
	l, err := p.lane(trackID, param)
	if err != nil {
		return err
	}
	i := l.pointIndex(pointID)
	if i < 0 {
		return ErrPointNotFound
	}
	l.Points[i].Time = ClampBeat(at)
	l.Points[i].Value = clamp(value, 0, 1)
	return nil
}

func (p *Project) SetAutomationCurve(trackID, param, pointID string, curve Curve) error {
	l, err := p.lane(trackID, param)
	if err != nil {
		return err
	}
	i := l.pointIndex(pointID)
	if i < 0 || !curve.valid() {
		return ErrPointNotFound
	}
	l.Points[i].Curve = curve
	return nil
}

// ClearAutomation removes the lane of param from the track.
func (p *Project) ClearAutomation(trackID, param string) error {
	if _, err := p.lane(trackID, param); err != nil {
		return err
	}
	delete(p.Track(trackID).Automation, param)
	return nil
}

func (p *Project) lane(trackID, param string) (*AutomationLane, error) {
	t := p.Track(trackID)
	if t == nil {
		return nil, ErrTrackNotFound
	}
	l, ok := t.Automation[param]
	if !ok || l == nil {
		return nil, ErrPointNotFound
	}
	return l, nil
}

func (l *AutomationLane) pointIndex(id string) int {
	for i := range l.Points {
		if l.Points[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *Track) checkParam(param string) error {
	kind, rest, _ := strings.Cut(param, ":")
	switch kind {
	case VolumeParam, PanParam, MuteParam:
		if rest != "" {
			return ErrWrongKind
		}
		return nil
	case "send":
		if t.sendIndex(rest) < 0 {
			return ErrSendNotFound
		}
		return nil
	case "plugin":
		insertID, name, ok := strings.Cut(rest, ":")
		if !ok || name == "" || t.insertIndex(insertID) < 0 {
			return ErrInsertNotFound
		}
		return nil
	}
	return ErrWrongKind
}
