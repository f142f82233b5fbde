// Package version carries the build identity stamped into warden binaries.
//
// Release builds override the variables below through the linker, e.g.
//
//	go build -ldflags "-X github.com/wardentools/core/version.Version=v1.2.0"
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Populated by the Go linker at build time.
var (
	Version   = "dev"     // Git tag or dev version string
	Commit    = "none"    // Git commit hash
	Branch    = "unknown" // Git branch name
	BuildDate = "unknown" // Build timestamp
)

// Info holds all the versioning information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Compiler  string `json:"compiler"`
	Platform  string `json:"platform"`
}

// GetInfo returns the build identity along with the runtime's toolchain
// details.
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Branch:    Branch,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Compiler:  runtime.Compiler,
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String renders the info as aligned label/value lines.
func (i Info) String() string {
	var b strings.Builder
	for _, row := range [][2]string{
		{"Version", i.Version},
		{"Commit", i.Commit},
		{"Branch", i.Branch},
		{"Build Date", i.BuildDate},
		{"Go Version", i.GoVersion},
		{"Compiler", i.Compiler},
		{"Platform", i.Platform},
	} {
		fmt.Fprintf(&b, "%-12s%s\n", row[0]+":", row[1])
	}
	return strings.TrimRight(b.String(), "\n")
}
