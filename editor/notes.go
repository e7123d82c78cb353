package editor

import (
	"github.com/beatline/beatline"
)

func (m *Model) AddNote(regionID string, pitch, velocity int, start, duration float64) string {
	return m.add("AddNote", func(p *beatline.Project) (string, error) {
		return p.AddNote(regionID, pitch, velocity, start, duration)
	})
}

func (m *Model) DeleteNotes(regionID string, ids []string) bool {
	return m.run("DeleteNotes", func(p *beatline.Project) error { return p.DeleteNotes(regionID, ids) })
}

func (m *Model) UpdateNote(regionID string, n beatline.Note) bool {
	return m.run("UpdateNote", func(p *beatline.Project) error { return p.UpdateNote(regionID, n) })
}

// QuantizeNotes snaps the notes to grid. An empty grid means the preferred
// quantize grid; empty ids means every note of the region.
func (m *Model) QuantizeNotes(regionID, grid string, ids []string) bool {
	if grid == "" {
		grid = m.prefs.QuantizeGrid
	}
	return m.run("QuantizeNotes", func(p *beatline.Project) error { return p.QuantizeNotes(regionID, grid, ids) })
}

func (m *Model) TransposeNotes(regionID string, ids []string, semitones int) bool {
	return m.run("TransposeNotes", func(p *beatline.Project) error { return p.TransposeNotes(regionID, ids, semitones) })
}

// HumanizeNotes randomizes note timing and velocity. The random source is
// seeded from the preferences, so a fixed seed gives repeatable results.
func (m *Model) HumanizeNotes(regionID string, ids []string, amount float64) bool {
	return m.run("HumanizeNotes", func(p *beatline.Project) error {
		return p.HumanizeNotes(regionID, ids, amount, m.rng)
	})
}

func (m *Model) ScaleVelocity(regionID string, ids []string, factor float64) bool {
	return m.run("ScaleVelocity", func(p *beatline.Project) error { return p.ScaleVelocity(regionID, ids, factor) })
}
