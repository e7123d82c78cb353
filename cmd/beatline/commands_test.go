package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beatline/beatline/editor"
)

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]editor.Format{
		"song.json":     editor.JSON,
		"song.JSON":     editor.JSON,
		"song.yml":      editor.YAML,
		"song.yaml":     editor.YAML,
		"dir.json/song": editor.YAML,
	} {
		if got := formatOf(path); got != want {
			t.Errorf("formatOf(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestNewThenConvert(t *testing.T) {
	prefs := editor.DefaultPreferences()
	dir := t.TempDir()
	path := filepath.Join(dir, "sketches", "idea.yml")
	if err := runNew(prefs, []string{"-bpm", "96", "-key", "A minor", path}); err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if err := runNew(prefs, []string{"-n", path}); err == nil {
		t.Error("new -n should refuse to overwrite")
	}
	if err := runConvert(prefs, []string{"-j", path}); err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	m, err := openProject(prefs, filepath.Join(dir, "sketches", "idea.json"), false)
	if err != nil {
		t.Fatal(err)
	}
	p := m.Project()
	if p.Name != "idea" || p.BPM != 96 || p.Key != "A minor" {
		t.Errorf("got name %q, bpm %v, key %q", p.Name, p.BPM, p.Key)
	}
}

func TestOpenProjectCreate(t *testing.T) {
	prefs := editor.DefaultPreferences()
	path := filepath.Join(t.TempDir(), "missing.yml")
	if _, err := openProject(prefs, path, false); !os.IsNotExist(err) {
		t.Errorf("expected not exist error, got %v", err)
	}
	m, err := openProject(prefs, path, true)
	if err != nil {
		t.Fatal(err)
	}
	if p := m.Project(); p.Name != "missing" || m.FilePath() != path {
		t.Errorf("got name %q, path %q", p.Name, m.FilePath())
	}
}

func TestMetricsFlag(t *testing.T) {
	var buf bytes.Buffer
	if err := writeMetrics(&buf); err != nil || buf.Len() != 0 {
		t.Fatalf("metrics disabled: wrote %q, err %v", buf.String(), err)
	}
	enableMetrics()
	t.Cleanup(func() { registry, metrics = nil, nil })
	path := filepath.Join(t.TempDir(), "counted.yml")
	if err := runNew(editor.DefaultPreferences(), []string{"-bpm", "100", path}); err != nil {
		t.Fatal(err)
	}
	if err := writeMetrics(&buf); err != nil {
		t.Fatal(err)
	}
	if want := `beatline_editor_commands_total{kind="SetBPM"} 1`; !strings.Contains(buf.String(), want) {
		t.Errorf("metrics output is missing %q:\n%s", want, buf.String())
	}
}
