// Package editor is the command layer over a beatline.Project. Every edit
// runs through a Model, which snapshots the project, checks the result and
// keeps the undo history, the clipboard and the audio engine in sync.
package editor

import (
	"errors"
	"log"
	"math/rand/v2"
	"slices"

	"github.com/beatline/beatline"
)

type (
	// modelData is the part of the model that is replaced wholesale when a
	// project is loaded.
	modelData struct {
		Project          beatline.Project
		SelectedTracks   []string
		SelectedRegions  []string
		Playhead         float64
		FilePath         string
		ChangedSinceSave bool
	}

	// Model owns the project and all the state around it. It is not safe for
	// concurrent use; a UI owns it on one goroutine.
	Model struct {
		d modelData

		prefs      Preferences
		history    *History
		clipboard  Clipboard
		engine     AudioEngine
		alerts     Alerts
		metrics    *Metrics
		rng        *rand.Rand
		processors map[string]bool

		changeLevel  int
		changeCancel bool
		changeErr    error
		snapshot     beatline.Project
	}
)

// NewModel returns a model holding a new project. A nil history gets one with
// the preferred undo limit and a nil engine means NullEngine.
func NewModel(prefs Preferences, history *History, engine AudioEngine) *Model {
	if history == nil {
		history = NewHistory(prefs.UndoLimit)
	}
	if engine == nil {
		engine = NullEngine{}
	}
	m := &Model{
		prefs:      prefs,
		history:    history,
		engine:     engine,
		processors: map[string]bool{},
	}
	seed := prefs.HumanizeSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	m.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	m.d.Project = prefs.newProject("Untitled")
	m.syncEngine()
	return m
}

// change starts a command of the given kind. The returned function must be
// deferred; it validates the result and either commits it to history or rolls
// the project back. Nested changes commit as one. The function returns true if
// the change was committed.
func (m *Model) change(kind string) func() bool {
	if m.changeLevel == 0 {
		m.snapshot = m.d.Project.Copy()
		m.changeCancel = false
		m.changeErr = nil
	}
	m.changeLevel++
	return func() bool {
		m.changeLevel--
		if m.changeLevel > 0 {
			return !m.changeCancel
		}
		if !m.changeCancel {
			// a project that was loaded broken may still be edited
			if err := m.d.Project.Validate(); err != nil && m.snapshot.Validate() == nil {
				m.changeCancel = true
				m.changeErr = err
			}
		}
		if m.changeCancel {
			m.d.Project = m.snapshot
			m.snapshot = beatline.Project{}
			m.pruneSelection()
			m.metrics.rejected(kind)
			if m.changeErr != nil && !errors.Is(m.changeErr, beatline.ErrNothingToDo) {
				log.Printf("%s: %v", kind, m.changeErr)
				m.alerts.AddNamed(kind, kind+": "+m.changeErr.Error(), Warning)
			}
			return false
		}
		m.history.Save(&m.snapshot)
		m.snapshot = beatline.Project{}
		m.d.ChangedSinceSave = true
		m.pruneSelection()
		m.syncEngine()
		m.metrics.command(kind)
		m.metrics.setDepth(m.history.Depth())
		return true
	}
}

// fail cancels the current change if err is not nil.
func (m *Model) fail(err error) bool {
	if err == nil {
		return false
	}
	m.changeCancel = true
	if m.changeErr == nil {
		m.changeErr = err
	}
	return true
}

// run applies f as a single change.
func (m *Model) run(kind string, f func(p *beatline.Project) error) bool {
	done := m.change(kind)
	m.fail(f(&m.d.Project))
	return done()
}

// add applies f as a single change and returns the id it created, or "" if
// the change was rolled back.
func (m *Model) add(kind string, f func(p *beatline.Project) (string, error)) string {
	done := m.change(kind)
	id, err := f(&m.d.Project)
	m.fail(err)
	if !done() {
		return ""
	}
	return id
}

func (m *Model) pruneSelection() {
	m.d.SelectedTracks = slices.DeleteFunc(m.d.SelectedTracks, func(id string) bool {
		return m.d.Project.Track(id) == nil
	})
	m.d.SelectedRegions = slices.DeleteFunc(m.d.SelectedRegions, func(id string) bool {
		return m.d.Project.Region(id) == nil
	})
}

// Project returns a deep copy of the current project.
func (m *Model) Project() beatline.Project { return m.d.Project.Copy() }

// Track returns a copy of the track with the given id.
func (m *Model) Track(id string) (beatline.Track, bool) {
	t := m.d.Project.Track(id)
	if t == nil {
		return beatline.Track{}, false
	}
	return t.Copy(), true
}

// Region returns a copy of the region with the given id.
func (m *Model) Region(id string) (beatline.Region, bool) {
	r := m.d.Project.Region(id)
	if r == nil {
		return beatline.Region{}, false
	}
	return r.Copy(), true
}

// AutomationSamples samples the lane of a track parameter at n evenly spaced
// times in [from, to]. It returns nil if the track has no such lane.
func (m *Model) AutomationSamples(trackID, param string, from, to float64, n int) []float32 {
	t := m.d.Project.Track(trackID)
	if t == nil {
		return nil
	}
	lane, ok := t.Automation[param]
	if !ok || lane == nil {
		return nil
	}
	return lane.Sample(from, to, n)
}

func (m *Model) Preferences() Preferences { return m.prefs }
func (m *Model) History() *History         { return m.history }
func (m *Model) Clipboard() *Clipboard     { return &m.clipboard }
func (m *Model) FilePath() string          { return m.d.FilePath }
func (m *Model) SetFilePath(path string)   { m.d.FilePath = path }
func (m *Model) ChangedSinceSave() bool    { return m.d.ChangedSinceSave }

func (m *Model) SetChangedSinceSave(value bool) { m.d.ChangedSinceSave = value }

// SelectTracks replaces the track selection. Unknown ids are ignored.
func (m *Model) SelectTracks(ids ...string) {
	m.d.SelectedTracks = m.d.SelectedTracks[:0]
	for _, id := range ids {
		if m.d.Project.Track(id) != nil && !slices.Contains(m.d.SelectedTracks, id) {
			m.d.SelectedTracks = append(m.d.SelectedTracks, id)
		}
	}
}

// SelectRegions replaces the region selection. Unknown ids are ignored.
func (m *Model) SelectRegions(ids ...string) {
	m.d.SelectedRegions = m.d.SelectedRegions[:0]
	for _, id := range ids {
		if m.d.Project.Region(id) != nil && !slices.Contains(m.d.SelectedRegions, id) {
			m.d.SelectedRegions = append(m.d.SelectedRegions, id)
		}
	}
}

func (m *Model) ClearSelection() {
	m.d.SelectedTracks = m.d.SelectedTracks[:0]
	m.d.SelectedRegions = m.d.SelectedRegions[:0]
}

func (m *Model) SelectedTracks() []string  { return slices.Clone(m.d.SelectedTracks) }
func (m *Model) SelectedRegions() []string { return slices.Clone(m.d.SelectedRegions) }

// SetPlayhead moves the playhead. Negative positions clamp to 0.
func (m *Model) SetPlayhead(beat float64) { m.d.Playhead = beatline.ClampBeat(beat) }

func (m *Model) Playhead() float64 { return m.d.Playhead }
