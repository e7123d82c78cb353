package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/beatline/beatline"
	"github.com/beatline/beatline/editor"
	"github.com/beatline/beatline/report"
	"github.com/beatline/beatline/store"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		for _, c := range commands {
			if c.name == name {
				fmt.Fprintf(os.Stderr, "Usage: %s %s %s\n", os.Args[0], name, c.usage)
			}
		}
		fs.PrintDefaults()
	}
	return fs
}

func formatOf(path string) editor.Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return editor.JSON
	}
	return editor.YAML
}

func projectName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// openProject reads the project at path into a new model. With create set, a
// missing file gives a new project named after the file.
func openProject(prefs editor.Preferences, path string, create bool) (*editor.Model, error) {
	m := newModel(prefs)
	f, err := os.Open(path)
	if create && errors.Is(err, os.ErrNotExist) {
		m.NewProject(projectName(path))
		m.SetFilePath(path)
		return m, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := m.ReadProject(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func saveProject(m *editor.Model, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.WriteProject(f, formatOf(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runNew(prefs editor.Preferences, args []string) error {
	fs := newFlagSet("new")
	name := fs.String("name", "", "Project name. Defaults to the file name.")
	bpm := fs.Float64("bpm", 0, "Tempo in beats per minute. Defaults to the preferences.")
	key := fs.String("key", "", "Musical key, e.g. \"A minor\".")
	safe := fs.Bool("n", false, "Never overwrite an existing file.")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one project file")
	}
	path := fs.Arg(0)
	if _, err := os.Stat(path); *safe && err == nil {
		return fmt.Errorf("file %v already exists", path)
	}
	m := newModel(prefs)
	if *name == "" {
		*name = projectName(path)
	}
	m.NewProject(*name)
	if *bpm > 0 {
		m.SetBPM(*bpm)
	}
	if *key != "" {
		m.SetKey(*key)
	}
	if err := saveProject(m, path); err != nil {
		return err
	}
	fmt.Println(styles.ok.Render("created"), path)
	return nil
}

func runImport(prefs editor.Preferences, args []string) error {
	fs := newFlagSet("import")
	trackName := fs.String("track", "", "Import into the track with this name, creating it if needed. By default each file gets a new track named after it.")
	at := fs.Float64("at", 0, "Beat where the imported regions start.")
	outPath := fs.String("o", "", "Write the project here instead of over the input project.")
	fs.Parse(args)
	if fs.NArg() < 2 {
		fs.Usage()
		return errors.New("expected a project file and at least one MIDI file")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	path := fs.Arg(0)
	m, err := openProject(prefs, path, true)
	if err != nil {
		return err
	}
	for _, midiPath := range fs.Args()[1:] {
		data, err := os.ReadFile(midiPath)
		if err != nil {
			return err
		}
		name := *trackName
		if name == "" {
			name = projectName(midiPath)
		}
		id := findTrack(m, name)
		if id == "" {
			id = m.AddTrack(beatline.InstrumentTrack, name, -1)
		}
		if err := m.ImportMIDIContext(ctx, data, id, *at); err != nil {
			return fmt.Errorf("%s: %w", midiPath, err)
		}
		t, _ := m.Track(id)
		fmt.Printf("%s %s -> %s (%d regions)\n", styles.ok.Render("imported"), midiPath, swatch(&t), len(m.SelectedRegions()))
	}
	if *outPath != "" {
		path = *outPath
	}
	return saveProject(m, path)
}

func findTrack(m *editor.Model, name string) string {
	p := m.Project()
	for _, t := range p.Tracks {
		if t.Name == name {
			return t.ID
		}
	}
	return ""
}

func runExport(prefs editor.Preferences, args []string) error {
	fs := newFlagSet("export")
	trackName := fs.String("track", "", "Name of the track to export. Defaults to the first track with MIDI regions.")
	outPath := fs.String("o", "", "Output .mid file. Defaults to the project file with a .mid extension.")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one project file")
	}
	m, err := openProject(prefs, fs.Arg(0), false)
	if err != nil {
		return err
	}
	id := findTrack(m, *trackName)
	if *trackName == "" {
		p := m.Project()
		for _, t := range p.Tracks {
			if t.Kind.HoldsRegions() && t.Kind.RegionKind() == beatline.MIDIRegion {
				id = t.ID
				break
			}
		}
	}
	if id == "" {
		return fmt.Errorf("no track to export: %w", beatline.ErrTrackNotFound)
	}
	out := *outPath
	if out == "" {
		out = strings.TrimSuffix(fs.Arg(0), filepath.Ext(fs.Arg(0))) + ".mid"
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := m.ExportMIDI(f, id); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Println(styles.ok.Render("exported"), out)
	return nil
}

func runConvert(prefs editor.Preferences, args []string) error {
	fs := newFlagSet("convert")
	jsonOut := fs.Bool("j", false, "Write .json files.")
	yamlOut := fs.Bool("y", false, "Write .yml files (default).")
	stdout := fs.Bool("s", false, "Write to standard output instead of files.")
	fs.Parse(args)
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("expected at least one project file")
	}
	format, ext := editor.YAML, ".yml"
	if *jsonOut && !*yamlOut {
		format, ext = editor.JSON, ".json"
	}
	for _, path := range fs.Args() {
		m, err := openProject(prefs, path, false)
		if err != nil {
			return err
		}
		if *stdout {
			if err := m.WriteProject(os.Stdout, format); err != nil {
				return err
			}
			continue
		}
		out := strings.TrimSuffix(path, filepath.Ext(path)) + ext
		if out == path {
			return fmt.Errorf("%s is already in the target format", path)
		}
		if err := saveProject(m, out); err != nil {
			return err
		}
		fmt.Println(styles.ok.Render("converted"), path, "->", out)
	}
	return nil
}

func runReport(prefs editor.Preferences, args []string) error {
	fs := newFlagSet("report")
	format := fs.String("f", "text", fmt.Sprintf("Report format: %s, or the name of a template in -t.", strings.Join(report.Formats, ", ")))
	tmplDir := fs.String("t", "", "Use the *.tmpl templates in this directory instead of the built in ones.")
	fs.Parse(args)
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("expected at least one project file")
	}
	var r *report.Reporter
	var err error
	if *tmplDir != "" {
		r, err = report.NewFromTemplates(*tmplDir)
	} else {
		r, err = report.New()
	}
	if err != nil {
		return err
	}
	for _, path := range fs.Args() {
		m, err := openProject(prefs, path, false)
		if err != nil {
			return err
		}
		p := m.Project()
		if err := r.Render(os.Stdout, *format, &p); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}

func runStore(prefs editor.Preferences, args []string) error {
	fs := newFlagSet("store")
	dbPath := fs.String("db", prefs.StorePath, "SQLite database file.")
	fs.Parse(args)
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("expected save, load, list or delete")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	s, err := store.Open(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer s.Close()
	rest := fs.Args()[1:]
	switch fs.Arg(0) {
	case "save":
		for _, path := range rest {
			m, err := openProject(prefs, path, false)
			if err != nil {
				return err
			}
			p := m.Project()
			if _, err := s.Save(ctx, &p); err != nil {
				return err
			}
			fmt.Println(styles.ok.Render("saved"), p.Name, styles.dim.Render(p.ID))
		}
	case "load":
		if len(rest) != 2 {
			return errors.New("usage: store load id project.yml")
		}
		p, err := s.Load(ctx, rest[0])
		if err != nil {
			return err
		}
		m := newModel(prefs)
		m.SetProject(p)
		if err := saveProject(m, rest[1]); err != nil {
			return err
		}
		fmt.Println(styles.ok.Render("loaded"), p.Name, "->", rest[1])
	case "list":
		entries, err := s.List(ctx)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s  %s  %s\n", styles.dim.Render(e.ID), styles.title.Render(e.Name), e.UpdatedAt.Local().Format(time.DateTime))
		}
	case "delete":
		for _, id := range rest {
			if err := s.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Println(styles.ok.Render("deleted"), id)
		}
	default:
		return fmt.Errorf("unknown store command %q", fs.Arg(0))
	}
	return nil
}
