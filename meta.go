// Package crunkurrent provides metadata about the crunkurrent project, like
// its version and license.
//
// The supervisor itself can be imported from package,
//
//	github.com/amonks/crunkurrent/supervisor
package crunkurrent

import (
	"runtime/debug"
	"time"
)

//go:generate go run github.com/amonks/crunkurrent/cmd/licenses CREDITS.txt

var (
	Version     = "(devel)"
	Revision    = "unknown"
	ReleaseDate = "unknown"
	DirtyBuild  = false
)

const License = "© Andrew Monks <a@monks.co>. Free for noncommercial and small-business use."

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if info.Main.Version != "" {
		Version = info.Main.Version
	}
	for _, kv := range info.Settings {
		switch kv.Key {
		case "vcs.revision":
			Revision = kv.Value
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, kv.Value); err == nil {
				ReleaseDate = t.Format("2006-01-02")
			}
		case "vcs.modified":
			DirtyBuild = kv.Value == "true"
		}
	}
}
