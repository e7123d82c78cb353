package beatline

import (
	"maps"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type (
	// Track is a lane of the arrangement. Regions are referenced by id, in the
	// order they were placed on the track; the region data lives in
	// Project.Regions. Folder tracks hold no regions, other tracks join a
	// folder by setting GroupID to the folder's id.
	Track struct {
		ID         string                     `json:"id" yaml:"id"`
		Name       string                     `json:"name" yaml:"name"`
		Color      string                     `json:"color" yaml:"color"`
		Kind       TrackKind                  `json:"kind" yaml:"kind"`
		Volume     float64                    `json:"volume" yaml:"volume"`
		Pan        float64                    `json:"pan" yaml:"pan"`
		Mute       bool                       `json:"mute" yaml:"mute,omitempty"`
		Solo       bool                       `json:"solo" yaml:"solo,omitempty"`
		Armed      bool                       `json:"armed" yaml:"armed,omitempty"`
		Frozen     bool                       `json:"frozen" yaml:"frozen,omitempty"`
		Input      string                     `json:"input" yaml:"input,omitempty"`
		Output     string                     `json:"output" yaml:"output,omitempty"`
		RecordMode RecordMode                 `json:"recordMode" yaml:"recordMode"`
		Inserts    []Insert                   `json:"inserts" yaml:"inserts,omitempty"`
		Sends      []Send                     `json:"sends" yaml:"sends,omitempty"`
		Regions    []string                   `json:"regionIds" yaml:"regionIds,flow"`
		Automation map[string]*AutomationLane `json:"automation" yaml:"automation,omitempty"`
		GroupID    string                     `json:"groupId,omitempty" yaml:"groupId,omitempty"`
		Collapsed  bool                       `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
		StackType  StackType                  `json:"stackType,omitempty" yaml:"stackType,omitempty"`

		// FrozenSource is the asset reference of the rendered audio while the
		// track is frozen.
		FrozenSource string `json:"frozenSource,omitempty" yaml:"frozenSource,omitempty"`
	}

	TrackKind string

	RecordMode string

	StackType string

	// Insert is an effect plugin in a track's insert chain. Params are passed
	// to the plugin as is.
	Insert struct {
		ID       string             `json:"id" yaml:"id"`
		PluginID string             `json:"pluginId" yaml:"pluginId"`
		Enabled  bool               `json:"enabled" yaml:"enabled"`
		Params   map[string]float64 `json:"params" yaml:"params,flow"`
	}

	// Send routes a share of the track signal to a bus.
	Send struct {
		ID       string  `json:"id" yaml:"id"`
		BusID    string  `json:"busId" yaml:"busId"`
		Amount   float64 `json:"amount" yaml:"amount"`
		PreFader bool    `json:"preFader" yaml:"preFader,omitempty"`
	}
)

const (
	AudioTrack        TrackKind = "audio"
	InstrumentTrack   TrackKind = "software-instrument"
	DrummerTrack      TrackKind = "drummer"
	ExternalMIDITrack TrackKind = "external-midi"
	AuxTrack          TrackKind = "bus-aux"
	MasterTrack       TrackKind = "master"
	FolderTrack       TrackKind = "folder"
)

const (
	RecordReplace RecordMode = "replace"
	RecordOverdub RecordMode = "overdub"
	RecordMerge   RecordMode = "merge"
)

const (
	FolderStack  StackType = "folder"
	SummingStack StackType = "summing"
)

var TrackKinds = []TrackKind{AudioTrack, InstrumentTrack, DrummerTrack, ExternalMIDITrack, AuxTrack, MasterTrack, FolderTrack}

// TrackColors is the palette new tracks cycle through.
var TrackColors = []string{"#e5484d", "#f76b15", "#ffc53d", "#46a758", "#12a594", "#0090ff", "#6e56cf", "#d6409f"}

var titleCaser = cases.Title(language.English)

// Valid reports whether k is one of the known kinds.
func (k TrackKind) Valid() bool {
	for _, v := range TrackKinds {
		if v == k {
			return true
		}
	}
	return false
}

// HoldsRegions reports whether regions can be placed on tracks of this kind.
func (k TrackKind) HoldsRegions() bool {
	switch k {
	case AudioTrack, InstrumentTrack, DrummerTrack, ExternalMIDITrack:
		return true
	default:
		return false
	}
}

// RegionKind returns the kind of region recorded on tracks of this kind.
func (k TrackKind) RegionKind() RegionKind {
	if k == AudioTrack {
		return AudioRegion
	}
	return MIDIRegion
}

// Title returns a human readable name for the kind, e.g. "Software
// Instrument".
func (k TrackKind) Title() string {
	return titleCaser.String(strings.ReplaceAll(string(k), "-", " "))
}

// Copy makes a deep copy of a Track.
func (t *Track) Copy() Track {
	ret := *t
	ret.Inserts = copyInserts(t.Inserts)
	ret.Sends = append([]Send(nil), t.Sends...)
	ret.Regions = append([]string(nil), t.Regions...)
	if t.Automation != nil {
		ret.Automation = make(map[string]*AutomationLane, len(t.Automation))
		for k, l := range t.Automation {
			if l == nil {
				continue
			}
			c := l.Copy()
			ret.Automation[k] = &c
		}
	}
	return ret
}

func copyInserts(inserts []Insert) []Insert {
	if inserts == nil {
		return nil
	}
	ret := make([]Insert, len(inserts))
	for i, in := range inserts {
		in.Params = maps.Clone(in.Params)
		ret[i] = in
	}
	return ret
}

// AddTrack inserts a new track of the given kind at index (appending if the
// index is out of range) and returns it. An empty name is replaced with a
// numbered default based on the kind.
func (p *Project) AddTrack(kind TrackKind, name string, index int) *Track {
	if !kind.Valid() {
		kind = AudioTrack
	}
	if name == "" {
		name = p.defaultTrackName(kind)
	}
	t := Track{
		ID:         newID(),
		Name:       name,
		Color:      TrackColors[len(p.Tracks)%len(TrackColors)],
		Kind:       kind,
		Volume:     0.8,
		RecordMode: RecordReplace,
		Regions:    []string{},
	}
	if kind == FolderTrack {
		t.StackType = FolderStack
	}
	return p.insertTrack(t, index)
}

func (p *Project) insertTrack(t Track, index int) *Track {
	if index < 0 || index > len(p.Tracks) {
		index = len(p.Tracks)
	}
	p.Tracks = append(p.Tracks, Track{})
	copy(p.Tracks[index+1:], p.Tracks[index:])
	p.Tracks[index] = t
	return &p.Tracks[index]
}

func (p *Project) defaultTrackName(kind TrackKind) string {
	n := 1
	for _, t := range p.Tracks {
		if t.Kind == kind {
			n++
		}
	}
	return kind.Title() + " " + strconv.Itoa(n)
}

// DeleteTrack removes the track and all of its regions. Members of a deleted
// folder are moved out of the folder.
func (p *Project) DeleteTrack(id string) error {
	i := p.TrackIndex(id)
	if i < 0 {
		return ErrTrackNotFound
	}
	for _, rid := range p.Tracks[i].Regions {
		delete(p.Regions, rid)
	}
	p.Tracks = append(p.Tracks[:i], p.Tracks[i+1:]...)
	for j := range p.Tracks {
		if p.Tracks[j].GroupID == id {
			p.Tracks[j].GroupID = ""
		}
	}
	return nil
}

// MoveTrack moves the track to a new index in the track list.
func (p *Project) MoveTrack(id string, index int) error {
	i := p.TrackIndex(id)
	if i < 0 {
		return ErrTrackNotFound
	}
	index = clampInt(index, 0, len(p.Tracks)-1)
	if i == index {
		return ErrNothingToDo
	}
	t := p.Tracks[i]
	p.Tracks = append(p.Tracks[:i], p.Tracks[i+1:]...)
	p.insertTrack(t, index)
	return nil
}

// DuplicateTrack inserts a copy of the track right after it, with copies of
// all of its regions, and returns the copy's id.
func (p *Project) DuplicateTrack(id string) (string, error) {
	i := p.TrackIndex(id)
	if i < 0 {
		return "", ErrTrackNotFound
	}
	t := p.Tracks[i].Copy()
	t.ID = newID()
	t.Name = p.Tracks[i].Name + " copy"
	t.Regions = make([]string, 0, len(p.Tracks[i].Regions))
	for k := range t.Inserts {
		t.Inserts[k].ID = newID()
	}
	sendIDs := map[string]string{}
	for k := range t.Sends {
		newSend := newID()
		sendIDs[t.Sends[k].ID] = newSend
		t.Sends[k].ID = newSend
	}
	if t.Automation != nil {
		lanes := make(map[string]*AutomationLane, len(t.Automation))
		for param, lane := range t.Automation {
			param = rekeyParam(param, sendIDs, p.Tracks[i].Inserts, t.Inserts)
			lane.Param = param
			for k := range lane.Points {
				lane.Points[k].ID = newID()
			}
			lanes[param] = lane
		}
		t.Automation = lanes
	}
	for _, rid := range p.Tracks[i].Regions {
		r := p.Region(rid)
		if r == nil {
			continue
		}
		c := r.Clone()
		c.TrackID = t.ID
		p.Regions[c.ID] = &c
		t.Regions = append(t.Regions, c.ID)
	}
	p.insertTrack(t, i+1)
	return t.ID, nil
}

func (p *Project) SetTrackName(id, name string) error {
	return p.withTrack(id, func(t *Track) { t.Name = name })
}

func (p *Project) SetTrackColor(id, color string) error {
	return p.withTrack(id, func(t *Track) { t.Color = color })
}

func (p *Project) SetTrackVolume(id string, v float64) error {
	return p.withTrack(id, func(t *Track) { t.Volume = clamp(v, 0, 1) })
}

func (p *Project) SetTrackPan(id string, v float64) error {
	return p.withTrack(id, func(t *Track) { t.Pan = clamp(v, -1, 1) })
}

func (p *Project) SetTrackMute(id string, v bool) error {
	return p.withTrack(id, func(t *Track) { t.Mute = v })
}

func (p *Project) SetTrackSolo(id string, v bool) error {
	return p.withTrack(id, func(t *Track) { t.Solo = v })
}

func (p *Project) SetTrackArmed(id string, v bool) error {
	return p.withTrack(id, func(t *Track) { t.Armed = v })
}

func (p *Project) SetTrackRouting(id, input, output string) error {
	return p.withTrack(id, func(t *Track) { t.Input, t.Output = input, output })
}

func (p *Project) SetTrackRecordMode(id string, mode RecordMode) error {
	switch mode {
	case RecordReplace, RecordOverdub, RecordMerge:
	default:
		mode = RecordReplace
	}
	return p.withTrack(id, func(t *Track) { t.RecordMode = mode })
}

// SetTrackFrozen marks the track frozen with the rendered asset as its
// source, or unfreezes it when source is empty.
func (p *Project) SetTrackFrozen(id, source string) error {
	return p.withTrack(id, func(t *Track) {
		t.Frozen = source != ""
		t.FrozenSource = source
	})
}

// AddInsert appends an effect to the track's insert chain and returns its id.
func (p *Project) AddInsert(trackID, pluginID string, params map[string]float64) (string, error) {
	t := p.Track(trackID)
	if t == nil {
		return "", ErrTrackNotFound
	}
	in := Insert{ID: newID(), PluginID: pluginID, Enabled: true, Params: maps.Clone(params)}
	if in.Params == nil {
		in.Params = map[string]float64{}
	}
	t.Inserts = append(t.Inserts, in)
	return in.ID, nil
}

// RemoveInsert removes the insert and the automation lanes of its parameters.
func (p *Project) RemoveInsert(trackID, insertID string) error {
	t := p.Track(trackID)
	if t == nil {
		return ErrTrackNotFound
	}
	i := t.insertIndex(insertID)
	if i < 0 {
		return ErrInsertNotFound
	}
	t.Inserts = append(t.Inserts[:i], t.Inserts[i+1:]...)
	prefix := "plugin:" + insertID + ":"
	for param := range t.Automation {
		if strings.HasPrefix(param, prefix) {
			delete(t.Automation, param)
		}
	}
	return nil
}

func (p *Project) SetInsertEnabled(trackID, insertID string, enabled bool) error {
	return p.withInsert(trackID, insertID, func(in *Insert) { in.Enabled = enabled })
}

func (p *Project) SetInsertParam(trackID, insertID, param string, value float64) error {
	return p.withInsert(trackID, insertID, func(in *Insert) {
		if in.Params == nil {
			in.Params = map[string]float64{}
		}
		in.Params[param] = value
	})
}

// MoveInsert moves an insert to a new position in the chain.
func (p *Project) MoveInsert(trackID, insertID string, index int) error {
	t := p.Track(trackID)
	if t == nil {
		return ErrTrackNotFound
	}
	i := t.insertIndex(insertID)
	if i < 0 {
		return ErrInsertNotFound
	}
	index = clampInt(index, 0, len(t.Inserts)-1)
	in := t.Inserts[i]
	t.Inserts = append(t.Inserts[:i], t.Inserts[i+1:]...)
	t.Inserts = append(t.Inserts, Insert{})
	copy(t.Inserts[index+1:], t.Inserts[index:])
	t.Inserts[index] = in
	return nil
}

// AddSend adds a send from the track to a bus and returns its id.
func (p *Project) AddSend(trackID, busID string, amount float64, preFader bool) (string, error) {
	t := p.Track(trackID)
	if t == nil {
		return "", ErrTrackNotFound
	}
	if p.busIndex(busID) < 0 {
		return "", ErrBusNotFound
	}
	s := Send{ID: newID(), BusID: busID, Amount: clamp(amount, 0, 1), PreFader: preFader}
	t.Sends = append(t.Sends, s)
	return s.ID, nil
}

func (p *Project) RemoveSend(trackID, sendID string) error {
	t := p.Track(trackID)
	if t == nil {
		return ErrTrackNotFound
	}
	i := t.sendIndex(sendID)
	if i < 0 {
		return ErrSendNotFound
	}
	t.Sends = append(t.Sends[:i], t.Sends[i+1:]...)
	delete(t.Automation, SendParam(sendID))
	return nil
}

func (p *Project) SetSendAmount(trackID, sendID string, amount float64) error {
	return p.withSend(trackID, sendID, func(s *Send) { s.Amount = clamp(amount, 0, 1) })
}

func (p *Project) SetSendPreFader(trackID, sendID string, preFader bool) error {
	return p.withSend(trackID, sendID, func(s *Send) { s.PreFader = preFader })
}

func (p *Project) withTrack(id string, f func(t *Track)) error {
	t := p.Track(id)
	if t == nil {
		return ErrTrackNotFound
	}
	f(t)
	return nil
}

func (p *Project) withInsert(trackID, insertID string, f func(in *Insert)) error {
	t := p.Track(trackID)
	if t == nil {
		return ErrTrackNotFound
	}
	i := t.insertIndex(insertID)
	if i < 0 {
		return ErrInsertNotFound
	}
	f(&t.Inserts[i])
	return nil
}

func (p *Project) withSend(trackID, sendID string, f func(s *Send)) error {
	t := p.Track(trackID)
	if t == nil {
		return ErrTrackNotFound
	}
	i := t.sendIndex(sendID)
	if i < 0 {
		return ErrSendNotFound
	}
	f(&t.Sends[i])
	return nil
}

func (t *Track) insertIndex(id string) int {
	for i := range t.Inserts {
		if t.Inserts[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *Track) sendIndex(id string) int {
	for i := range t.Sends {
		if t.Sends[i].ID == id {
			return i
		}
	}
	return -1
}

// rekeyParam rewrites send and plugin automation parameters of a duplicated
// track to point to the duplicated sends and inserts.
func rekeyParam(param string, sendIDs map[string]string, oldInserts, newInserts []Insert) string {
	kind, rest, _ := strings.Cut(param, ":")
	switch kind {
	case "send":
		if id, ok := sendIDs[rest]; ok {
			return SendParam(id)
		}
	case "plugin":
		insertID, name, _ := strings.Cut(rest, ":")
		for i := range oldInserts {
			if oldInserts[i].ID == insertID && i < len(newInserts) {
				return PluginParam(newInserts[i].ID, name)
			}
		}
	}
	return param
}
