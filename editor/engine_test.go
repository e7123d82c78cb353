package editor_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/beatline/beatline"
	"github.com/beatline/beatline/editor"
)

type fakeEngine struct {
	created, removed []string
	rendered         []float64
	renderErr        error
	sample           beatline.AudioBuffer
	onRender         func()
}

func (e *fakeEngine) CreateTrackProcessor(t beatline.Track) { e.created = append(e.created, t.ID) }
func (e *fakeEngine) RemoveTrackProcessor(id string)        { e.removed = append(e.removed, id) }

func (e *fakeEngine) RenderTrackToBuffer(_ context.Context, t beatline.Track, _ beatline.Project, end float64) (editor.RenderedAsset, error) {
	if e.renderErr != nil {
		return editor.RenderedAsset{}, e.renderErr
	}
	e.rendered = append(e.rendered, end)
	if e.onRender != nil {
		e.onRender()
	}
	return editor.RenderedAsset{URL: "render://" + t.ID}, nil
}

func (e *fakeEngine) LoadSample(context.Context, string) (beatline.AudioBuffer, error) {
	if e.sample == nil {
		return nil, editor.ErrNoEngine
	}
	return e.sample, nil
}

func newEngineModel(t *testing.T) (*editor.Model, *fakeEngine) {
	t.Helper()
	e := &fakeEngine{}
	return editor.NewModel(editor.DefaultPreferences(), nil, e), e
}

func TestEngineFollowsTracks(t *testing.T) {
	m, e := newEngineModel(t)
	a := m.AddTrack(beatline.AudioTrack, "", -1)
	b := m.AddTrack(beatline.InstrumentTrack, "", -1)
	if !slices.Equal(e.created, []string{a, b}) {
		t.Fatalf("created %v, want %v", e.created, []string{a, b})
	}
	m.DeleteTrack(a)
	if !slices.Equal(e.removed, []string{a}) {
		t.Errorf("removed %v, want [%s]", e.removed, a)
	}
	m.Undo().Do()
	if len(e.created) != 3 || e.created[2] != a {
		t.Errorf("undo should recreate the processor, created %v", e.created)
	}
	m.SetTrackVolume(b, 0.2)
	if len(e.created) != 3 || len(e.removed) != 1 {
		t.Errorf("editing a track should not touch processors: %v / %v", e.created, e.removed)
	}
	m.NewProject("empty")
	if len(e.removed) != 3 {
		t.Errorf("new project should remove every processor, removed %v", e.removed)
	}
}

func TestFreezeAndUnfreeze(t *testing.T) {
	m, e := newEngineModel(t)
	track := m.AddTrack(beatline.InstrumentTrack, "", -1)
	m.AddMIDIRegion(track, 2, 6)
	if err := m.FreezeTrack(context.Background(), track); err != nil {
		t.Fatalf("FreezeTrack failed: %v", err)
	}
	tr, _ := m.Track(track)
	if !tr.Frozen || tr.FrozenSource != "render://"+track {
		t.Errorf("track not frozen: %+v", tr)
	}
	if len(e.rendered) != 1 || e.rendered[0] != 8 {
		t.Errorf("rendered to %v, want [8]", e.rendered)
	}
	if !m.UnfreezeTrack(track) {
		t.Fatal("UnfreezeTrack was not applied")
	}
	if tr, _ := m.Track(track); tr.Frozen || tr.FrozenSource != "" {
		t.Errorf("track still frozen: %+v", tr)
	}
	if m.UnfreezeTrack(track) {
		t.Error("unfreezing twice should be a no-op")
	}
}

func TestFreezeRenderErrorKeepsProject(t *testing.T) {
	m, e := newEngineModel(t)
	track := m.AddTrack(beatline.InstrumentTrack, "", -1)
	e.renderErr = errors.New("device lost")
	depth := m.History().Depth()
	if err := m.FreezeTrack(context.Background(), track); !errors.Is(err, e.renderErr) {
		t.Errorf("got %v, want the render error", err)
	}
	if tr, _ := m.Track(track); tr.Frozen {
		t.Error("track frozen despite the error")
	}
	if m.History().Depth() != depth {
		t.Error("failed freeze pushed history")
	}
}

func TestBounceTrack(t *testing.T) {
	m, _ := newEngineModel(t)
	track := m.AddTrack(beatline.InstrumentTrack, "Lead", -1)
	m.AddMIDIRegion(track, 0, 12)
	id, err := m.BounceTrack(context.Background(), track)
	if err != nil {
		t.Fatalf("BounceTrack failed: %v", err)
	}
	p := m.Project()
	if p.TrackIndex(id) != p.TrackIndex(track)+1 {
		t.Error("bounced track should follow the source")
	}
	bounced := p.Track(id)
	if bounced.Kind != beatline.AudioTrack || len(bounced.Regions) != 1 {
		t.Fatalf("unexpected bounced track %+v", bounced)
	}
	r := p.Region(bounced.Regions[0])
	if r.Audio.Source != "render://"+track || r.Duration != 12 {
		t.Errorf("unexpected bounced region %+v", r)
	}
	if !p.Track(track).Mute {
		t.Error("source track should be muted")
	}
	m.Undo().Do()
	if len(m.Project().Tracks) != 1 {
		t.Error("bounce should undo in one step")
	}
}

func TestImportAudio(t *testing.T) {
	m, e := newEngineModel(t)
	track := m.AddTrack(beatline.AudioTrack, "", -1)
	if _, err := m.ImportAudio(context.Background(), track, "kick.wav", 0); !errors.Is(err, editor.ErrNoEngine) {
		t.Errorf("got %v, want ErrNoEngine", err)
	}
	// two seconds at 120 bpm is four beats
	e.sample = make(beatline.AudioBuffer, 2*beatline.DefaultSampleRate)
	id, err := m.ImportAudio(context.Background(), track, "kick.wav", 4)
	if err != nil {
		t.Fatalf("ImportAudio failed: %v", err)
	}
	r, _ := m.Region(id)
	if r.Kind != beatline.AudioRegion || r.Start != 4 || r.Duration != 4 || r.Audio.Source != "kick.wav" {
		t.Errorf("unexpected region %+v", r)
	}
}

func TestFreezeRolledBackReturnsError(t *testing.T) {
	m, e := newEngineModel(t)
	track := m.AddTrack(beatline.InstrumentTrack, "", -1)
	e.onRender = func() { m.DeleteTrack(track) }
	err := m.FreezeTrack(context.Background(), track)
	if !errors.Is(err, beatline.ErrTrackNotFound) {
		t.Fatalf("FreezeTrack = %v, want ErrTrackNotFound", err)
	}
	if _, ok := m.Track(track); ok {
		t.Error("track deleted during the render should stay deleted")
	}
}
