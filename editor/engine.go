package editor

import (
	"context"
	"errors"

	"github.com/beatline/beatline"
)

type (
	// AudioEngine is the audio side the model talks to. The model tells it
	// when tracks come and go, and asks it to render tracks for freezing and
	// bouncing. Track and project arguments are copies the engine may keep.
	AudioEngine interface {
		CreateTrackProcessor(track beatline.Track)
		RemoveTrackProcessor(trackID string)
		RenderTrackToBuffer(ctx context.Context, track beatline.Track, project beatline.Project, endBeat float64) (RenderedAsset, error)
		LoadSample(ctx context.Context, url string) (beatline.AudioBuffer, error)
	}

	// RenderedAsset refers to rendered audio. The model stores the URL as is.
	RenderedAsset struct {
		URL string
	}

	// NullEngine is an AudioEngine that does nothing. Rendering and loading
	// fail with ErrNoEngine.
	NullEngine struct{}
)

var ErrNoEngine = errors.New("no audio engine")

func (NullEngine) CreateTrackProcessor(beatline.Track) {}
func (NullEngine) RemoveTrackProcessor(string)         {}

func (NullEngine) RenderTrackToBuffer(context.Context, beatline.Track, beatline.Project, float64) (RenderedAsset, error) {
	return RenderedAsset{}, ErrNoEngine
}

func (NullEngine) LoadSample(context.Context, string) (beatline.AudioBuffer, error) {
	return nil, ErrNoEngine
}

// syncEngine creates processors for new tracks and removes the processors of
// deleted tracks.
func (m *Model) syncEngine() {
	seen := make(map[string]bool, len(m.d.Project.Tracks))
	for i := range m.d.Project.Tracks {
		t := &m.d.Project.Tracks[i]
		seen[t.ID] = true
		if !m.processors[t.ID] {
			m.processors[t.ID] = true
			m.engine.CreateTrackProcessor(t.Copy())
		}
	}
	for id := range m.processors {
		if !seen[id] {
			delete(m.processors, id)
			m.engine.RemoveTrackProcessor(id)
		}
	}
}
