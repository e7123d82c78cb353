package editor

import (
	"context"
	"fmt"

	"github.com/beatline/beatline"
)

// FreezeTrack renders the track through the engine and marks it frozen with
// the rendered asset as its source.
func (m *Model) FreezeTrack(ctx context.Context, id string) error {
	t := m.d.Project.Track(id)
	if t == nil {
		return fmt.Errorf("freeze: %w", beatline.ErrTrackNotFound)
	}
	asset, err := m.render(ctx, t)
	if err != nil {
		m.Alerts().Add(fmt.Sprintf("Error freezing track %s: %v", t.Name, err), Error)
		return fmt.Errorf("freeze: %w", err)
	}
	if !m.run("FreezeTrack", func(p *beatline.Project) error { return p.SetTrackFrozen(id, asset.URL) }) {
		return fmt.Errorf("freeze: %w", m.changeErr)
	}
	return nil
}

func (m *Model) UnfreezeTrack(id string) bool {
	return m.run("UnfreezeTrack", func(p *beatline.Project) error {
		t := p.Track(id)
		if t != nil && !t.Frozen {
			return beatline.ErrNothingToDo
		}
		return p.SetTrackFrozen(id, "")
	})
}

// BounceTrack renders the track into a new audio track placed right after
// it, mutes the source track and returns the id of the new track.
func (m *Model) BounceTrack(ctx context.Context, id string) (string, error) {
	t := m.d.Project.Track(id)
	if t == nil {
		return "", fmt.Errorf("bounce: %w", beatline.ErrTrackNotFound)
	}
	asset, err := m.render(ctx, t)
	if err != nil {
		m.Alerts().Add(fmt.Sprintf("Error bouncing track %s: %v", t.Name, err), Error)
		return "", fmt.Errorf("bounce: %w", err)
	}
	end := max(m.d.Project.TrackLength(id), beatline.MinRegionDuration)
	name := t.Name + " bounce"
	ret := m.add("BounceTrack", func(p *beatline.Project) (string, error) {
		index := p.TrackIndex(id) + 1
		color := m.prefs.trackColor(len(p.Tracks))
		bounced := p.AddTrack(beatline.AudioTrack, name, index)
		bounced.Color = color
		bouncedID := bounced.ID
		r := beatline.NewAudioRegion(name, asset.URL, 0, end)
		if _, err := p.AddRegion(bouncedID, r); err != nil {
			return "", err
		}
		return bouncedID, p.SetTrackMute(id, true)
	})
	if ret == "" {
		return "", fmt.Errorf("bounce: %w", m.changeErr)
	}
	return ret, nil
}

func (m *Model) render(ctx context.Context, t *beatline.Track) (RenderedAsset, error) {
	end := m.d.Project.TrackLength(t.ID)
	return m.engine.RenderTrackToBuffer(ctx, t.Copy(), m.d.Project.Copy(), end)
}
