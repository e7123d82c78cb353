package beatline

import "slices"

// GroupTracks creates a folder track at the position of the first of the
// given tracks and moves the tracks into it. The folder takes over the
// enclosing folder of that first track. Unknown ids are ignored.
func (p *Project) GroupTracks(ids []string, name string) (string, error) {
	first := -1
	var members []string
	for i := range p.Tracks {
		if slices.Contains(ids, p.Tracks[i].ID) {
			if first < 0 {
				first = i
			}
			members = append(members, p.Tracks[i].ID)
		}
	}
	if first < 0 {
		return "", ErrTrackNotFound
	}
	parent := p.Tracks[first].GroupID
	for range len(p.Tracks) {
		if !slices.Contains(members, parent) {
			break
		}
		if t := p.Track(parent); t != nil {
			parent = t.GroupID
		} else {
			parent = ""
		}
	}
	if name == "" {
		name = p.defaultTrackName(FolderTrack)
	}
	folder := Track{
		ID:         newID(),
		Name:       name,
		Color:      p.Tracks[first].Color,
		Kind:       FolderTrack,
		Volume:     0.8,
		RecordMode: RecordReplace,
		Regions:    []string{},
		GroupID:    parent,
		StackType:  FolderStack,
	}
	p.insertTrack(folder, first)
	for _, id := range members {
		p.Track(id).GroupID = folder.ID
	}
	return folder.ID, nil
}

// UngroupFolder removes the folder track and clears the folder of its
// members.
func (p *Project) UngroupFolder(folderID string) error {
	i := p.TrackIndex(folderID)
	if i < 0 {
		return ErrTrackNotFound
	}
	if p.Tracks[i].Kind != FolderTrack {
		return ErrNotFolder
	}
	p.Tracks = slices.Delete(p.Tracks, i, i+1)
	for j := range p.Tracks {
		if p.Tracks[j].GroupID == folderID {
			p.Tracks[j].GroupID = ""
		}
	}
	return nil
}

func (p *Project) SetFolderCollapsed(folderID string, collapsed bool) error {
	return p.withFolder(folderID, func(t *Track) { t.Collapsed = collapsed })
}

func (p *Project) SetFolderStackType(folderID string, stack StackType) error {
	if stack != SummingStack {
		stack = FolderStack
	}
	return p.withFolder(folderID, func(t *Track) { t.StackType = stack })
}

// SetTrackGroup moves the track into the folder, or out of any folder when
// folderID is empty.
func (p *Project) SetTrackGroup(trackID, folderID string) error {
	t := p.Track(trackID)
	if t == nil {
		return ErrTrackNotFound
	}
	if folderID == "" {
		t.GroupID = ""
		return nil
	}
	f := p.Track(folderID)
	if f == nil {
		return ErrTrackNotFound
	}
	if f.Kind != FolderTrack {
		return ErrNotFolder
	}
	if p.inFolder(folderID, trackID) {
		return ErrCycle
	}
	t.GroupID = folderID
	return nil
}

// Members returns the ids of the tracks directly inside the folder.
func (p *Project) Members(folderID string) []string {
	var ret []string
	for _, t := range p.Tracks {
		if t.GroupID == folderID {
			ret = append(ret, t.ID)
		}
	}
	return ret
}

// inFolder reports whether track id is folderID or nested somewhere inside
// it, following GroupID links upwards from id.
func (p *Project) inFolder(id, folderID string) bool {
	for range len(p.Tracks) + 1 {
		if id == folderID {
			return true
		}
		t := p.Track(id)
		if t == nil || t.GroupID == "" {
			return false
		}
		id = t.GroupID
	}
	return true
}

func (p *Project) withFolder(id string, f func(t *Track)) error {
	t := p.Track(id)
	if t == nil {
		return ErrTrackNotFound
	}
	if t.Kind != FolderTrack {
		return ErrNotFolder
	}
	f(t)
	return nil
}
