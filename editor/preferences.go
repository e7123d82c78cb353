package editor

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/beatline/beatline"
	"gopkg.in/yaml.v2"
)

type (
	Preferences struct {
		UndoLimit    int
		Project      ProjectPreferences
		TrackColors  []string
		QuantizeGrid string
		// HumanizeSeed seeds the random source of humanize; 0 picks a random
		// seed.
		HumanizeSeed uint64
		StorePath    string
		YmlError     error `yaml:"-"`
	}

	// ProjectPreferences are the settings of new projects.
	ProjectPreferences struct {
		BPM         float64
		Numerator   int
		Denominator int
		Key         string
		SampleRate  int
		BitDepth    int
	}
)

//go:embed preferences.yml
var defaultPreferencesYaml []byte

// DefaultPreferences returns the built in preferences.
func DefaultPreferences() Preferences {
	var preferences Preferences
	err := yaml.UnmarshalStrict(defaultPreferencesYaml, &preferences)
	if err != nil {
		panic(fmt.Errorf("failed to unmarshal preferences: %w", err))
	}
	return preferences
}

// ReadCustomConfigYml modifies the target argument, i.e. needs a pointer
func ReadCustomConfigYml(filename string, target interface{}) (exists bool, err error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return false, err
	}
	path := filepath.Join(configDir, "beatline", filename)
	bytes, err2 := os.ReadFile(path)
	if err2 != nil {
		return false, err2
	}
	err = yaml.Unmarshal(bytes, target)
	return true, err
}

// MakePreferences returns the built in preferences overridden by the user's
// preferences.yml, if there is one.
func MakePreferences() Preferences {
	preferences := DefaultPreferences()
	exists, err := ReadCustomConfigYml("preferences.yml", &preferences)
	if exists {
		preferences.YmlError = err
	}
	return preferences
}

// ParsePreferences overrides the built in preferences with the yaml in b.
func ParsePreferences(b []byte) (Preferences, error) {
	preferences := DefaultPreferences()
	if err := yaml.UnmarshalStrict(b, &preferences); err != nil {
		return preferences, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	return preferences, nil
}

func (p Preferences) newProject(name string) beatline.Project {
	ret := beatline.NewProject(name)
	if p.Project.BPM > 0 {
		ret.SetBPM(p.Project.BPM)
	}
	if p.Project.Numerator > 0 && p.Project.Denominator > 0 {
		ret.SetTimeSignature(p.Project.Numerator, p.Project.Denominator)
	}
	if p.Project.Key != "" {
		ret.Key = p.Project.Key
	}
	if p.Project.SampleRate > 0 {
		ret.SampleRate = p.Project.SampleRate
	}
	if p.Project.BitDepth > 0 {
		ret.BitDepth = p.Project.BitDepth
	}
	return ret
}

func (p Preferences) trackColor(i int) string {
	if len(p.TrackColors) == 0 {
		return beatline.TrackColors[i%len(beatline.TrackColors)]
	}
	return p.TrackColors[i%len(p.TrackColors)]
}
