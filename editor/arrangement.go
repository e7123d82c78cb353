package editor

import (
	"github.com/beatline/beatline"
)

func (m *Model) SetName(name string) bool {
	return m.run("SetName", func(p *beatline.Project) error { p.SetName(name); return nil })
}

// SetBPM sets the project tempo, clamped to [MinBPM, MaxBPM].
func (m *Model) SetBPM(bpm float64) bool {
	return m.run("SetBPM", func(p *beatline.Project) error { p.SetBPM(bpm); return nil })
}

func (m *Model) SetKey(key string) bool {
	return m.run("SetKey", func(p *beatline.Project) error { p.SetKey(key); return nil })
}

func (m *Model) SetTimeSignature(numerator, denominator int) bool {
	return m.run("SetTimeSignature", func(p *beatline.Project) error {
		p.SetTimeSignature(numerator, denominator)
		return nil
	})
}

func (m *Model) SetLoop(enabled bool, start, end float64) bool {
	return m.run("SetLoop", func(p *beatline.Project) error { p.SetLoop(enabled, start, end); return nil })
}

// Tempo map

func (m *Model) AddTempoChange(at, bpm float64, curve beatline.TempoCurve) string {
	return m.add("AddTempoChange", func(p *beatline.Project) (string, error) {
		return p.AddTempoChange(at, bpm, curve), nil
	})
}

func (m *Model) RemoveTempoChange(id string) bool {
	return m.run("RemoveTempoChange", func(p *beatline.Project) error { return p.RemoveTempoChange(id) })
}

// Markers

func (m *Model) AddMarker(at float64, name, color string) string {
	return m.add("AddMarker", func(p *beatline.Project) (string, error) { return p.AddMarker(at, name, color), nil })
}

func (m *Model) RemoveMarker(id string) bool {
	return m.run("RemoveMarker", func(p *beatline.Project) error { return p.RemoveMarker(id) })
}

func (m *Model) MoveMarker(id string, at float64) bool {
	return m.run("MoveMarker", func(p *beatline.Project) error { return p.MoveMarker(id, at) })
}

// Buses and master

func (m *Model) AddBus(name string) string {
	return m.add("AddBus", func(p *beatline.Project) (string, error) { return p.AddBus(name), nil })
}

// RemoveBus removes the bus and every send that targets it.
func (m *Model) RemoveBus(id string) bool {
	return m.run("RemoveBus", func(p *beatline.Project) error { return p.RemoveBus(id) })
}

func (m *Model) SetMasterVolume(v float64) bool {
	return m.run("SetMasterVolume", func(p *beatline.Project) error { p.SetMasterVolume(v); return nil })
}

func (m *Model) SetMasterPan(v float64) bool {
	return m.run("SetMasterPan", func(p *beatline.Project) error { p.SetMasterPan(v); return nil })
}

func (m *Model) SetMasterMute(v bool) bool {
	return m.run("SetMasterMute", func(p *beatline.Project) error { p.SetMasterMute(v); return nil })
}
