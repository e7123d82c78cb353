package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/beatline/beatline"
	"github.com/beatline/beatline/midifile"
)

// Format is a project document encoding.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

var ErrUnknownFormat = errors.New("unknown project format")

// NewProject replaces the project with an empty one built from the
// preferences and clears the history.
func (m *Model) NewProject(name string) {
	m.install(m.prefs.newProject(name))
	m.d.FilePath = ""
}

// ReadProject reads a project document, JSON or YAML, and installs it as is.
// The history is cleared. On error the current project is kept.
func (m *Model) ReadProject(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	var p beatline.Project
	if errJSON := json.Unmarshal(b, &p); errJSON != nil {
		p = beatline.Project{}
		if errYaml := yaml.Unmarshal(b, &p); errYaml != nil {
			err := fmt.Errorf("error unmarshaling a project file: %v / %v", errYaml, errJSON)
			m.Alerts().Add(err.Error(), Error)
			return err
		}
	}
	if p.Regions == nil {
		p.Regions = map[string]*beatline.Region{}
	}
	m.install(p)
	if f, ok := r.(*os.File); ok {
		m.d.FilePath = f.Name()
	}
	if err := p.Validate(); err != nil {
		m.Alerts().Add(fmt.Sprintf("Project has problems: %v", err), Warning)
	}
	return nil
}

// SetProject installs a copy of p, e.g. one loaded from a store, and clears
// the history.
func (m *Model) SetProject(p beatline.Project) {
	m.install(p.Copy())
}

func (m *Model) install(p beatline.Project) {
	m.d.Project = p
	m.d.ChangedSinceSave = false
	m.d.SelectedTracks = nil
	m.d.SelectedRegions = nil
	m.d.Playhead = 0
	m.history.Clear()
	m.syncEngine()
	m.metrics.setDepth(0)
}

// WriteProject writes the project in the given format, YAML if empty, and
// stamps its UpdatedAt.
func (m *Model) WriteProject(w io.Writer, format Format) error {
	m.d.Project.UpdatedAt = time.Now().UTC()
	var contents []byte
	var err error
	switch format {
	case JSON:
		contents, err = json.MarshalIndent(m.d.Project, "", "  ")
	case YAML, "":
		contents, err = yaml.Marshal(m.d.Project)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("error marshaling a project file: %w", err)
	}
	if _, err := w.Write(contents); err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}
	if f, ok := w.(*os.File); ok {
		m.d.FilePath = f.Name()
	}
	m.d.ChangedSinceSave = false
	return nil
}

// ExportMIDI writes the MIDI regions of a track as a Standard MIDI File.
func (m *Model) ExportMIDI(w io.Writer, trackID string) error {
	return midifile.Export(w, &m.d.Project, trackID)
}

// ImportMIDI decodes a Standard MIDI File and places its regions on the
// track, starting at startBeat. If the project has no regions yet, the tempo
// of the file becomes the project tempo. The imported regions are selected.
// On any error the project is left untouched.
func (m *Model) ImportMIDI(data []byte, trackID string, startBeat float64) error {
	return m.ImportMIDIContext(context.Background(), data, trackID, startBeat)
}

func (m *Model) ImportMIDIContext(ctx context.Context, data []byte, trackID string, startBeat float64) error {
	t := m.d.Project.Track(trackID)
	if t == nil {
		m.metrics.imported(false)
		return fmt.Errorf("import midi: %w", beatline.ErrTrackNotFound)
	}
	if t.Kind.RegionKind() != beatline.MIDIRegion || !t.Kind.HoldsRegions() {
		m.metrics.imported(false)
		return fmt.Errorf("import midi: %w", beatline.ErrWrongKind)
	}
	imported, err := midifile.ImportContext(ctx, data, trackID, startBeat, t.Color)
	if err != nil {
		m.metrics.imported(false)
		m.Alerts().Add(fmt.Sprintf("Error importing MIDI file: %v", err), Error)
		return fmt.Errorf("import midi: %w", err)
	}
	done := m.change("ImportMIDI")
	if imported.HasTempo && len(m.d.Project.Regions) == 0 {
		m.d.Project.SetBPM(imported.Tempo)
	}
	var ids []string
	for _, r := range imported.Regions {
		id, err := m.d.Project.AddRegion(trackID, *r)
		if m.fail(err) {
			break
		}
		ids = append(ids, id)
	}
	if len(imported.Regions) == 0 {
		m.fail(beatline.ErrNothingToDo)
	} else if !m.changeCancel {
		m.d.SelectedRegions = ids
	}
	if !done() {
		m.metrics.imported(false)
		if m.changeErr != nil && !errors.Is(m.changeErr, beatline.ErrNothingToDo) {
			return fmt.Errorf("import midi: %w", m.changeErr)
		}
		return nil
	}
	m.metrics.imported(true)
	m.Alerts().Add(fmt.Sprintf("Imported %d MIDI regions", len(ids)), Info)
	return nil
}

// ImportAudio loads a sample through the engine and places it on an audio
// track at start. The region is as long as the sample at the project tempo.
func (m *Model) ImportAudio(ctx context.Context, trackID, url string, start float64) (string, error) {
	buf, err := m.engine.LoadSample(ctx, url)
	if err != nil {
		return "", fmt.Errorf("import audio: %w", err)
	}
	seconds := float64(len(buf)) / float64(max(m.d.Project.SampleRate, 1))
	beats := seconds * m.d.Project.BPM / 60
	r := beatline.NewAudioRegion(url, url, start, max(beats, beatline.MinRegionDuration))
	done := m.change("ImportAudio")
	id, err := m.d.Project.AddRegion(trackID, r)
	m.fail(err)
	if !done() {
		return "", fmt.Errorf("import audio: %w", m.changeErr)
	}
	return id, nil
}
