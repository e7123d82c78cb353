package editor

import (
	"github.com/beatline/beatline"
)

// AddRegion places a copy of region on the track and returns its id.
func (m *Model) AddRegion(trackID string, region beatline.Region) string {
	return m.add("AddRegion", func(p *beatline.Project) (string, error) { return p.AddRegion(trackID, region) })
}

// AddMIDIRegion adds an empty MIDI region to the track.
func (m *Model) AddMIDIRegion(trackID string, start, duration float64) string {
	return m.AddRegion(trackID, beatline.NewMIDIRegion("MIDI Region", start, duration))
}

func (m *Model) DeleteRegion(id string) bool {
	return m.run("DeleteRegion", func(p *beatline.Project) error { return p.DeleteRegion(id) })
}

// MoveRegion moves the region to start and, if trackID is not empty, to
// another track.
func (m *Model) MoveRegion(id string, start float64, trackID string) bool {
	return m.run("MoveRegion", func(p *beatline.Project) error { return p.MoveRegion(id, start, trackID) })
}

func (m *Model) ResizeRegion(id string, duration float64, edge beatline.Edge) bool {
	return m.run("ResizeRegion", func(p *beatline.Project) error { return p.ResizeRegion(id, duration, edge) })
}

// SplitRegion cuts the region at beat at and returns the id of the right
// half.
func (m *Model) SplitRegion(id string, at float64) string {
	return m.add("SplitRegion", func(p *beatline.Project) (string, error) { return p.SplitRegion(id, at) })
}

// MergeRegions joins the regions into the earliest one and returns its id.
func (m *Model) MergeRegions(ids []string) string {
	return m.add("MergeRegions", func(p *beatline.Project) (string, error) { return p.MergeRegions(ids) })
}

func (m *Model) DuplicateRegion(id string) string {
	return m.add("DuplicateRegion", func(p *beatline.Project) (string, error) { return p.DuplicateRegion(id) })
}

func (m *Model) SetRegionMuted(id string, muted bool) bool {
	return m.run("SetRegionMuted", func(p *beatline.Project) error { return p.SetRegionMuted(id, muted) })
}

func (m *Model) SetRegionName(id, name string) bool {
	return m.run("SetRegionName", func(p *beatline.Project) error { return p.SetRegionName(id, name) })
}

func (m *Model) SetRegionColor(id, color string) bool {
	return m.run("SetRegionColor", func(p *beatline.Project) error { return p.SetRegionColor(id, color) })
}

func (m *Model) SetRegionLooped(id string, looped bool, loopLength float64) bool {
	return m.run("SetRegionLooped", func(p *beatline.Project) error { return p.SetRegionLooped(id, looped, loopLength) })
}

func (m *Model) SetAudioFades(id string, fadeIn, fadeOut float64) bool {
	return m.run("SetAudioFades", func(p *beatline.Project) error { return p.SetAudioFades(id, fadeIn, fadeOut) })
}

func (m *Model) SetAudioGain(id string, gain float64) bool {
	return m.run("SetAudioGain", func(p *beatline.Project) error { return p.SetAudioGain(id, gain) })
}

// Copy puts copies of the selected regions on the clipboard.
func (m *Model) Copy() Action { return MakeAction((*copyRegions)(m)) }

type copyRegions Model

func (m *copyRegions) Enabled() bool { return len(m.d.SelectedRegions) > 0 }
func (m *copyRegions) Do() {
	regions := make([]*beatline.Region, 0, len(m.d.SelectedRegions))
	for _, id := range m.d.SelectedRegions {
		regions = append(regions, m.d.Project.Region(id))
	}
	m.clipboard.Set(regions)
}

// Cut copies the selected regions and deletes them.
func (m *Model) Cut() Action { return MakeAction((*cutRegions)(m)) }

type cutRegions Model

func (m *cutRegions) Enabled() bool { return len(m.d.SelectedRegions) > 0 }
func (m *cutRegions) Do() {
	(*copyRegions)(m).Do()
	(*Model)(m).deleteRegions("Cut", m.d.SelectedRegions)
}

// Paste pastes the clipboard at the playhead. Regions whose track is gone go
// to the first selected track.
func (m *Model) Paste() Action { return MakeAction((*pasteRegions)(m)) }

type pasteRegions Model

func (m *pasteRegions) Enabled() bool { return m.clipboard.Len() > 0 }
func (m *pasteRegions) Do()           { (*Model)(m).PasteAt(m.d.Playhead) }

// PasteAt pastes the clipboard so that the earliest region starts at anchor,
// selects the pasted regions and returns their ids.
func (m *Model) PasteAt(anchor float64) []string {
	var fallback string
	if len(m.d.SelectedTracks) > 0 {
		fallback = m.d.SelectedTracks[0]
	}
	done := m.change("Paste")
	ids, err := m.d.Project.PasteRegions(m.clipboard.Regions(), anchor, fallback)
	if !m.fail(err) {
		m.d.SelectedRegions = append(m.d.SelectedRegions[:0], ids...)
	}
	if !done() {
		return nil
	}
	return ids
}

// DeleteSelection deletes the selected regions, or the selected tracks if no
// regions are selected.
func (m *Model) DeleteSelection() Action { return MakeAction((*deleteSelection)(m)) }

type deleteSelection Model

func (m *deleteSelection) Enabled() bool {
	return len(m.d.SelectedRegions) > 0 || len(m.d.SelectedTracks) > 0
}
func (m *deleteSelection) Do() {
	if len(m.d.SelectedRegions) > 0 {
		(*Model)(m).deleteRegions("DeleteSelection", m.d.SelectedRegions)
		return
	}
	defer (*Model)(m).change("DeleteSelection")()
	for _, id := range m.d.SelectedTracks {
		if (*Model)(m).fail(m.d.Project.DeleteTrack(id)) {
			return
		}
	}
}

func (m *Model) deleteRegions(kind string, ids []string) {
	defer m.change(kind)()
	for _, id := range ids {
		if m.fail(m.d.Project.DeleteRegion(id)) {
			return
		}
	}
}

// DuplicateSelection duplicates the selected regions and selects the copies.
func (m *Model) DuplicateSelection() Action { return MakeAction((*duplicateSelection)(m)) }

type duplicateSelection Model

func (m *duplicateSelection) Enabled() bool { return len(m.d.SelectedRegions) > 0 }
func (m *duplicateSelection) Do() {
	defer (*Model)(m).change("DuplicateSelection")()
	copies := make([]string, 0, len(m.d.SelectedRegions))
	for _, id := range m.d.SelectedRegions {
		c, err := m.d.Project.DuplicateRegion(id)
		if (*Model)(m).fail(err) {
			return
		}
		copies = append(copies, c)
	}
	m.d.SelectedRegions = copies
}

// GroupSelection puts the selected tracks in a new folder.
func (m *Model) GroupSelection() Action { return MakeAction((*groupSelection)(m)) }

type groupSelection Model

func (m *groupSelection) Enabled() bool { return len(m.d.SelectedTracks) > 0 }
func (m *groupSelection) Do() {
	if id := (*Model)(m).GroupTracks(m.d.SelectedTracks, ""); id != "" {
		m.d.SelectedTracks = append(m.d.SelectedTracks[:0], id)
	}
}
