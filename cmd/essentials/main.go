// Command essentials runs the fetch, files and serve demos.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/marmos91/essentials/cmd/essentials/commands"
)

// Set with -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version, commands.Commit, commands.Date = buildInfo()

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "essentials: %v\n", err)
		os.Exit(1)
	}
}

// buildInfo falls back to the module and VCS data embedded by "go install"
// when the binary was built without ldflags.
func buildInfo() (string, string, string) {
	v, c, d := version, commit, date
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v, c, d
	}

	if v == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if c == "none" {
				c = s.Value
			}
		case "vcs.time":
			if d == "unknown" {
				d = s.Value
			}
		}
	}
	return v, c, d
}
