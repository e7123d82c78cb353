// Package version reports which build of beatline is running.
package version

import "runtime/debug"

// Version can be set at build time:
//
//	go build -ldflags "-X github.com/beatline/beatline/version.Version=$(git describe --dirty)"
var Version string

// Hash is the short VCS revision the binary was built from, with a -dirty
// suffix for modified trees. It is empty outside a VCS build.
var Hash = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return revision(info.Settings)
}()

func revision(settings []debug.BuildSetting) string {
	var rev string
	modified := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if rev != "" && modified {
		rev += "-dirty"
	}
	return rev
}

// VersionOrHash is Version if set, otherwise Hash, otherwise "devel".
var VersionOrHash = func() string {
	switch {
	case Version != "":
		return Version
	case Hash != "":
		return Hash
	}
	return "devel"
}()
