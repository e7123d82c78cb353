package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/beatline/beatline/editor"
	"github.com/beatline/beatline/version"
)

type command struct {
	name  string
	usage string
	run   func(prefs editor.Preferences, args []string) error
}

// commands is filled in init, as the usage of each command's flag set looks
// the command up by name.
var commands []command

func init() {
	commands = []command{
		{"new", "[flags] project.yml", runNew},
		{"import", "[flags] project.yml file.mid ...", runImport},
		{"export", "[flags] project.yml", runExport},
		{"convert", "[flags] project ...", runConvert},
		{"report", "[flags] project ...", runReport},
		{"store", "[flags] save|load|list|delete [args]", runStore},
	}
}

func main() {
	log.SetFlags(0)
	help := flag.Bool("h", false, "Show help.")
	versionFlag := flag.Bool("v", false, "Print version.")
	metricsFlag := flag.Bool("metrics", false, "Print the editor metrics to stderr when the command finishes.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	prefs := editor.MakePreferences()
	if prefs.YmlError != nil {
		log.Printf("preferences.yml: %v", prefs.YmlError)
	}
	if *metricsFlag {
		enableMetrics()
	}
	name, args := flag.Arg(0), flag.Args()[1:]
	for _, c := range commands {
		if c.name == name {
			if err := c.run(prefs, args); err != nil {
				log.Fatal(styles.err.Render("beatline "+name+": ") + err.Error())
			}
			if err := writeMetrics(os.Stderr); err != nil {
				log.Printf("metrics: %v", err)
			}
			return
		}
	}
	fmt.Fprintf(os.Stderr, "unknown command %q\n", name)
	flag.Usage()
	os.Exit(2)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Beatline command line utility for timeline projects and MIDI files.\nUsage: %s [flags] command [flags] [args]\n\nCommands:\n", os.Args[0])
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %s %s\n", styles.title.Render(c.name), c.usage)
	}
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}
