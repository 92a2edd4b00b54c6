// Package buildinfo reports the version stamped into the binary.
//
// Set at link time:
//
//	go build -ldflags "-X github.com/m3rciful/recruitbot/core/buildinfo.Version=v1.0.0 \
//	  -X github.com/m3rciful/recruitbot/core/buildinfo.Commit=$(git rev-parse --short HEAD)"
//
// Without ldflags the VCS stamp recorded by the go tool is used when present.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

var fillOnce sync.Once

func fill() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "" && len(s.Value) >= 7 {
				Commit = s.Value[:7]
			}
		case "vcs.time":
			if Date == "" {
				Date = s.Value
			}
		}
	}
}

// String returns "version (commit, date)", omitting unknown parts.
func String() string {
	fillOnce.Do(fill)
	switch {
	case Commit == "":
		return Version
	case Date == "":
		return fmt.Sprintf("%s (%s)", Version, Commit)
	}
	return fmt.Sprintf("%s (%s, %s)", Version, Commit, Date)
}
