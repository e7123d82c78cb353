package beatline_test

import (
	"cmp"
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/beatline/beatline"
)

func newMIDIProject(t *testing.T) (beatline.Project, string, string) {
	t.Helper()
	p := beatline.NewProject("test")
	track := p.AddTrack(beatline.InstrumentTrack, "", -1).ID
	r := beatline.NewMIDIRegion("clip", 4, 8)
	r.MIDI.Notes = []beatline.Note{
		{ID: "a", Pitch: 60, Velocity: 100, Start: 0, Duration: 1},
		{ID: "b", Pitch: 62, Velocity: 90, Start: 2.5, Duration: 0.5},
		{ID: "c", Pitch: 64, Velocity: 80, Start: 5, Duration: 2},
		{ID: "d", Pitch: 65, Velocity: 70, Start: 7.25, Duration: 0.5},
	}
	id, err := p.AddRegion(track, r)
	if err != nil {
		t.Fatalf("AddRegion failed: %v", err)
	}
	return p, track, id
}

func sortedNotes(notes []beatline.Note) []beatline.Note {
	ret := slices.Clone(notes)
	slices.SortFunc(ret, func(a, b beatline.Note) int { return cmp.Compare(a.ID, b.ID) })
	return ret
}

func TestAddRegionRejectsWrongTrackKind(t *testing.T) {
	p := beatline.NewProject("test")
	folder := p.AddTrack(beatline.FolderTrack, "", -1).ID
	audio := p.AddTrack(beatline.AudioTrack, "", -1).ID
	if _, err := p.AddRegion(folder, beatline.NewMIDIRegion("x", 0, 4)); !errors.Is(err, beatline.ErrNoRegionsOnKind) {
		t.Errorf("region on folder: got %v, want ErrNoRegionsOnKind", err)
	}
	if _, err := p.AddRegion(audio, beatline.NewMIDIRegion("x", 0, 4)); !errors.Is(err, beatline.ErrWrongKind) {
		t.Errorf("midi region on audio track: got %v, want ErrWrongKind", err)
	}
	if _, err := p.AddRegion("nope", beatline.NewMIDIRegion("x", 0, 4)); !errors.Is(err, beatline.ErrTrackNotFound) {
		t.Errorf("region on missing track: got %v, want ErrTrackNotFound", err)
	}
	if len(p.Regions) != 0 {
		t.Errorf("rejected regions were added: %d", len(p.Regions))
	}
}

func TestSplitThenMergeRestoresRegion(t *testing.T) {
	p, track, id := newMIDIProject(t)
	orig := p.Region(id).Copy()
	right, err := p.SplitRegion(id, 8)
	if err != nil {
		t.Fatalf("SplitRegion failed: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("invalid after split: %v", err)
	}
	l, r := p.Region(id), p.Region(right)
	if l.Duration != 4 || r.Start != 8 || r.Duration != 4 {
		t.Errorf("split spans: left %v+%v right %v+%v", l.Start, l.Duration, r.Start, r.Duration)
	}
	if len(l.MIDI.Notes) != 2 || len(r.MIDI.Notes) != 2 {
		t.Errorf("notes not partitioned: left %d right %d", len(l.MIDI.Notes), len(r.MIDI.Notes))
	}
	if got := r.MIDI.Notes[0].Start; got != 1 {
		t.Errorf("moved note start: got %v, want 1", got)
	}
	if n := len(p.Track(track).Regions); n != 2 {
		t.Errorf("track should list 2 regions, got %d", n)
	}
	merged, err := p.MergeRegions([]string{right, id})
	if err != nil {
		t.Fatalf("MergeRegions failed: %v", err)
	}
	if merged != id {
		t.Errorf("merge should keep the earliest region id %s, got %s", id, merged)
	}
	m := p.Region(merged)
	if m.Start != orig.Start || m.Duration != orig.Duration {
		t.Errorf("merged span %v+%v, want %v+%v", m.Start, m.Duration, orig.Start, orig.Duration)
	}
	if !reflect.DeepEqual(sortedNotes(m.MIDI.Notes), sortedNotes(orig.MIDI.Notes)) {
		t.Errorf("merged notes differ:\n got %v\nwant %v", m.MIDI.Notes, orig.MIDI.Notes)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("invalid after merge: %v", err)
	}
}

func TestSplitOutsideRegionIsRejected(t *testing.T) {
	p, _, id := newMIDIProject(t)
	for _, at := range []float64{4, 12, 0, 20} {
		if _, err := p.SplitRegion(id, at); !errors.Is(err, beatline.ErrOutsideRegion) {
			t.Errorf("split at %v: got %v, want ErrOutsideRegion", at, err)
		}
	}
}

func TestMergeMismatch(t *testing.T) {
	p, _, id := newMIDIProject(t)
	other := p.AddTrack(beatline.InstrumentTrack, "", -1).ID
	id2, _ := p.AddRegion(other, beatline.NewMIDIRegion("x", 0, 4))
	before := p.Copy()
	if _, err := p.MergeRegions([]string{id, id2}); !errors.Is(err, beatline.ErrMergeMismatch) {
		t.Errorf("got %v, want ErrMergeMismatch", err)
	}
	if _, err := p.MergeRegions([]string{id}); !errors.Is(err, beatline.ErrTooFewRegions) {
		t.Errorf("got %v, want ErrTooFewRegions", err)
	}
	if !reflect.DeepEqual(before, p.Copy()) {
		t.Errorf("failed merge modified the project")
	}
}

func TestResizeRegion(t *testing.T) {
	p := beatline.NewProject("test")
	track := p.AddTrack(beatline.AudioTrack, "", -1).ID
	id, _ := p.AddRegion(track, beatline.NewAudioRegion("take", "file.wav", 4, 8))
	if err := p.ResizeRegion(id, 6, beatline.StartEdge); err != nil {
		t.Fatal(err)
	}
	r := p.Region(id)
	if r.Start != 6 || r.End() != 12 || r.Audio.Offset != 2 {
		t.Errorf("start resize: start %v end %v offset %v", r.Start, r.End(), r.Audio.Offset)
	}
	if err := p.ResizeRegion(id, 0.01, beatline.EndEdge); err != nil {
		t.Fatal(err)
	}
	if r.Duration != beatline.MinRegionDuration {
		t.Errorf("duration not floored: %v", r.Duration)
	}
}

func TestAudioFadesClamped(t *testing.T) {
	p := beatline.NewProject("test")
	track := p.AddTrack(beatline.AudioTrack, "", -1).ID
	id, _ := p.AddRegion(track, beatline.NewAudioRegion("take", "file.wav", 0, 4))
	if err := p.SetAudioFades(id, 10, 1); err != nil {
		t.Fatal(err)
	}
	if a := p.Region(id).Audio; a.FadeIn != 2 || a.FadeOut != 1 {
		t.Errorf("fades: in %v out %v", a.FadeIn, a.FadeOut)
	}
	if err := p.SetRegionLooped(id, true, 1); err != nil {
		t.Fatal(err)
	}
	if r := p.Region(id); r.LoopLength != r.Duration {
		t.Errorf("loop length %v shorter than duration %v", r.LoopLength, r.Duration)
	}
}

func TestMoveRegionToTrack(t *testing.T) {
	p, track, id := newMIDIProject(t)
	other := p.AddTrack(beatline.DrummerTrack, "", -1).ID
	audio := p.AddTrack(beatline.AudioTrack, "", -1).ID
	if err := p.MoveRegion(id, 16, other); err != nil {
		t.Fatal(err)
	}
	if len(p.Track(track).Regions) != 0 || len(p.Track(other).Regions) != 1 || p.Region(id).TrackID != other {
		t.Errorf("region not moved between tracks")
	}
	if err := p.MoveRegion(id, 0, audio); !errors.Is(err, beatline.ErrWrongKind) {
		t.Errorf("move to audio track: got %v, want ErrWrongKind", err)
	}
	if err := p.MoveRegion(id, 0, "missing"); !errors.Is(err, beatline.ErrTrackNotFound) {
		t.Errorf("move to missing track: got %v", err)
	}
	if p.Region(id).Start != 16 {
		t.Errorf("failed move changed the start")
	}
	if err := p.Validate(); err != nil {
		t.Error(err)
	}
}

func TestPasteRegionsKeepsOffsets(t *testing.T) {
	p, track, id := newMIDIProject(t)
	id2, _ := p.AddRegion(track, beatline.NewMIDIRegion("second", 10, 4))
	clip := []beatline.Region{p.Region(id).Copy(), p.Region(id2).Copy()}
	ids, err := p.PasteRegions(clip, 32, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 {
		t.Fatalf("pasted %d regions, want 2", len(ids))
	}
	a, b := p.Region(ids[0]), p.Region(ids[1])
	if a.Start != 32 || b.Start != 38 {
		t.Errorf("pasted starts %v %v, want 32 38", a.Start, b.Start)
	}
	if a.ID == id || a.MIDI.Notes[0].ID == "a" {
		t.Errorf("pasted region was not re-keyed")
	}
	if err := p.Validate(); err != nil {
		t.Error(err)
	}
}

func TestDeleteTrackRemovesRegions(t *testing.T) {
	p, track, _ := newMIDIProject(t)
	if _, err := p.DuplicateTrack(track); err != nil {
		t.Fatal(err)
	}
	if len(p.Regions) != 2 {
		t.Fatalf("duplicate should copy regions, have %d", len(p.Regions))
	}
	if err := p.DeleteTrack(track); err != nil {
		t.Fatal(err)
	}
	if len(p.Regions) != 1 {
		t.Errorf("regions of deleted track remain: %d", len(p.Regions))
	}
	if err := p.Validate(); err != nil {
		t.Error(err)
	}
}

func TestCopyIsDeep(t *testing.T) {
	p, track, id := newMIDIProject(t)
	p.AddAutomationPoint(track, beatline.VolumeParam, 0, 0.5, beatline.LinearCurve)
	c := p.Copy()
	p.Region(id).MIDI.Notes[0].Pitch = 1
	p.Track(track).Automation[beatline.VolumeParam].Points[0].Value = 1
	p.Track(track).Regions[0] = "changed"
	if c.Region(id).MIDI.Notes[0].Pitch != 60 {
		t.Errorf("copy shares notes")
	}
	if c.Track(track).Automation[beatline.VolumeParam].Points[0].Value != 0.5 {
		t.Errorf("copy shares automation")
	}
	if c.Track(track).Regions[0] != id {
		t.Errorf("copy shares region list")
	}
}
