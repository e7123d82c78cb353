package beatline_test

import (
	"errors"
	"math"
	"testing"

	"github.com/beatline/beatline"
)

func TestValueAtSortsPoints(t *testing.T) {
	lane := beatline.AutomationLane{
		Param: beatline.VolumeParam,
		Points: []beatline.AutomationPoint{
			{ID: "c", Time: 8, Value: 0, Curve: beatline.LinearCurve},
			{ID: "a", Time: 0, Value: 0, Curve: beatline.LinearCurve},
			{ID: "b", Time: 4, Value: 1, Curve: beatline.StepCurve},
		},
	}
	cases := []struct{ t, want float64 }{
		{-1, 0},
		{0, 0},
		{2, 0.5},
		{4, 1},
		{6, 1},
		{8, 0},
		{100, 0},
	}
	for _, c := range cases {
		if got := lane.ValueAt(c.t); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("ValueAt(%v) = %v, want %v", c.t, got, c.want)
		}
	}
	if lane.Points[0].ID != "c" {
		t.Errorf("ValueAt reordered the stored points")
	}
}

func TestCurveShapes(t *testing.T) {
	cases := []struct {
		curve beatline.Curve
		want  float64
	}{
		{beatline.LinearCurve, 0.5},
		{beatline.SCurve, 0.5},
		{beatline.ExponentialCurve, 0.25},
		{beatline.LogarithmicCurve, math.Log10(5.5)},
		{beatline.StepCurve, 0},
	}
	for _, c := range cases {
		lane := beatline.AutomationLane{Points: []beatline.AutomationPoint{
			{Time: 0, Value: 0, Curve: c.curve},
			{Time: 2, Value: 1},
		}}
		if got := lane.ValueAt(1); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%s midpoint = %v, want %v", c.curve, got, c.want)
		}
	}
}

func TestSampleMatchesValueAt(t *testing.T) {
	lane := beatline.AutomationLane{Points: []beatline.AutomationPoint{
		{Time: 1, Value: 0.2, Curve: beatline.SCurve},
		{Time: 5, Value: 0.9, Curve: beatline.ExponentialCurve},
		{Time: 9, Value: 0.1},
	}}
	samples := lane.Sample(0, 10, 41)
	if len(samples) != 41 {
		t.Fatalf("got %d samples, want 41", len(samples))
	}
	for i, s := range samples {
		want := lane.ValueAt(float64(i) * 0.25)
		if math.Abs(float64(s)-want) > 1e-6 {
			t.Errorf("sample %d = %v, ValueAt = %v", i, s, want)
		}
	}
	if got := (&beatline.AutomationLane{}).Sample(0, 1, 4); len(got) != 4 || got[0] != 0 {
		t.Errorf("empty lane samples: %v", got)
	}
}

func TestAutomationParams(t *testing.T) {
	p := beatline.NewProject("test")
	track := p.AddTrack(beatline.AudioTrack, "", -1).ID
	bus := p.AddBus("reverb")
	send, _ := p.AddSend(track, bus, 0.5, false)
	insert, _ := p.AddInsert(track, "eq", map[string]float64{"gain": 0.5})
	if _, err := p.AddAutomationPoint(track, beatline.SendParam(send), 0, 1, beatline.LinearCurve); err != nil {
		t.Errorf("send automation: %v", err)
	}
	if _, err := p.AddAutomationPoint(track, beatline.PluginParam(insert, "gain"), 0, 1, beatline.LinearCurve); err != nil {
		t.Errorf("plugin automation: %v", err)
	}
	if _, err := p.AddAutomationPoint(track, beatline.SendParam("nope"), 0, 1, beatline.LinearCurve); !errors.Is(err, beatline.ErrSendNotFound) {
		t.Errorf("missing send: got %v", err)
	}
	if err := p.RemoveBus(bus); err != nil {
		t.Fatal(err)
	}
	tr := p.Track(track)
	if len(tr.Sends) != 0 {
		t.Errorf("sends to removed bus remain")
	}
	if _, ok := tr.Automation[beatline.SendParam(send)]; ok {
		t.Errorf("automation of removed send remains")
	}
	if err := p.RemoveInsert(track, insert); err != nil {
		t.Fatal(err)
	}
	if len(tr.Automation) != 0 {
		t.Errorf("automation of removed insert remains: %v", tr.Automation)
	}
}

func TestMoveAndRemoveAutomationPoint(t *testing.T) {
	p := beatline.NewProject("test")
	track := p.AddTrack(beatline.AudioTrack, "", -1).ID
	id, _ := p.AddAutomationPoint(track, beatline.PanParam, 2, 0.3, beatline.LinearCurve)
	if err := p.MoveAutomationPoint(track, beatline.PanParam, id, -4, 3); err != nil {
		t.Fatal(err)
	}
	pt := p.Track(track).Automation[beatline.PanParam].Points[0]
	if pt.Time != 0 || pt.Value != 1 {
		t.Errorf("moved point not clamped: %+v", pt)
	}
	if err := p.RemoveAutomationPoint(track, beatline.PanParam, id); err != nil {
		t.Fatal(err)
	}
	if err := p.RemoveAutomationPoint(track, beatline.PanParam, id); !errors.Is(err, beatline.ErrPointNotFound) {
		t.Errorf("got %v, want ErrPointNotFound", err)
	}
	if err := p.ClearAutomation(track, beatline.PanParam); err != nil {
		t.Fatal(err)
	}
	if len(p.Track(track).Automation) != 0 {
		t.Errorf("lane not cleared")
	}
}
