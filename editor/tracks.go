package editor

import (
	"github.com/beatline/beatline"
)

// AddTrack adds a track of the given kind at index, colored from the
// preferred palette, and returns its id.
func (m *Model) AddTrack(kind beatline.TrackKind, name string, index int) string {
	return m.add("AddTrack", func(p *beatline.Project) (string, error) {
		color := m.prefs.trackColor(len(p.Tracks))
		t := p.AddTrack(kind, name, index)
		t.Color = color
		return t.ID, nil
	})
}

func (m *Model) DeleteTrack(id string) bool {
	return m.run("DeleteTrack", func(p *beatline.Project) error { return p.DeleteTrack(id) })
}

func (m *Model) MoveTrack(id string, index int) bool {
	return m.run("MoveTrack", func(p *beatline.Project) error { return p.MoveTrack(id, index) })
}

func (m *Model) DuplicateTrack(id string) string {
	return m.add("DuplicateTrack", func(p *beatline.Project) (string, error) { return p.DuplicateTrack(id) })
}

func (m *Model) SetTrackName(id, name string) bool {
	return m.run("SetTrackName", func(p *beatline.Project) error { return p.SetTrackName(id, name) })
}

func (m *Model) SetTrackColor(id, color string) bool {
	return m.run("SetTrackColor", func(p *beatline.Project) error { return p.SetTrackColor(id, color) })
}

func (m *Model) SetTrackVolume(id string, v float64) bool {
	return m.run("SetTrackVolume", func(p *beatline.Project) error { return p.SetTrackVolume(id, v) })
}

func (m *Model) SetTrackPan(id string, v float64) bool {
	return m.run("SetTrackPan", func(p *beatline.Project) error { return p.SetTrackPan(id, v) })
}

func (m *Model) SetTrackMute(id string, v bool) bool {
	return m.run("SetTrackMute", func(p *beatline.Project) error { return p.SetTrackMute(id, v) })
}

func (m *Model) SetTrackSolo(id string, v bool) bool {
	return m.run("SetTrackSolo", func(p *beatline.Project) error { return p.SetTrackSolo(id, v) })
}

func (m *Model) SetTrackArmed(id string, v bool) bool {
	return m.run("SetTrackArmed", func(p *beatline.Project) error { return p.SetTrackArmed(id, v) })
}

func (m *Model) SetTrackRouting(id, input, output string) bool {
	return m.run("SetTrackRouting", func(p *beatline.Project) error { return p.SetTrackRouting(id, input, output) })
}

func (m *Model) SetTrackRecordMode(id string, mode beatline.RecordMode) bool {
	return m.run("SetTrackRecordMode", func(p *beatline.Project) error { return p.SetTrackRecordMode(id, mode) })
}

// Inserts

func (m *Model) AddInsert(trackID, pluginID string, params map[string]float64) string {
	return m.add("AddInsert", func(p *beatline.Project) (string, error) { return p.AddInsert(trackID, pluginID, params) })
}

func (m *Model) RemoveInsert(trackID, insertID string) bool {
	return m.run("RemoveInsert", func(p *beatline.Project) error { return p.RemoveInsert(trackID, insertID) })
}

func (m *Model) SetInsertEnabled(trackID, insertID string, enabled bool) bool {
	return m.run("SetInsertEnabled", func(p *beatline.Project) error { return p.SetInsertEnabled(trackID, insertID, enabled) })
}

func (m *Model) SetInsertParam(trackID, insertID, param string, value float64) bool {
	return m.run("SetInsertParam", func(p *beatline.Project) error { return p.SetInsertParam(trackID, insertID, param, value) })
}

func (m *Model) MoveInsert(trackID, insertID string, index int) bool {
	return m.run("MoveInsert", func(p *beatline.Project) error { return p.MoveInsert(trackID, insertID, index) })
}

// Sends

func (m *Model) AddSend(trackID, busID string, amount float64, preFader bool) string {
	return m.add("AddSend", func(p *beatline.Project) (string, error) { return p.AddSend(trackID, busID, amount, preFader) })
}

func (m *Model) RemoveSend(trackID, sendID string) bool {
	return m.run("RemoveSend", func(p *beatline.Project) error { return p.RemoveSend(trackID, sendID) })
}

func (m *Model) SetSendAmount(trackID, sendID string, amount float64) bool {
	return m.run("SetSendAmount", func(p *beatline.Project) error { return p.SetSendAmount(trackID, sendID, amount) })
}

func (m *Model) SetSendPreFader(trackID, sendID string, preFader bool) bool {
	return m.run("SetSendPreFader", func(p *beatline.Project) error { return p.SetSendPreFader(trackID, sendID, preFader) })
}

// Folders

// GroupTracks moves the tracks into a new folder and returns the folder id.
func (m *Model) GroupTracks(ids []string, name string) string {
	return m.add("GroupTracks", func(p *beatline.Project) (string, error) { return p.GroupTracks(ids, name) })
}

func (m *Model) UngroupFolder(id string) bool {
	return m.run("UngroupFolder", func(p *beatline.Project) error { return p.UngroupFolder(id) })
}

func (m *Model) SetFolderCollapsed(id string, collapsed bool) bool {
	return m.run("SetFolderCollapsed", func(p *beatline.Project) error { return p.SetFolderCollapsed(id, collapsed) })
}

func (m *Model) SetFolderStackType(id string, stack beatline.StackType) bool {
	return m.run("SetFolderStackType", func(p *beatline.Project) error { return p.SetFolderStackType(id, stack) })
}

// SetTrackGroup moves a track into a folder; an empty folderID moves it out.
func (m *Model) SetTrackGroup(trackID, folderID string) bool {
	return m.run("SetTrackGroup", func(p *beatline.Project) error { return p.SetTrackGroup(trackID, folderID) })
}
