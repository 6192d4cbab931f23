package version

import (
	"fmt"
	"runtime"
)

// Program is the name reported in version output and the HTTP User-Agent.
const Program = "activecampaign"

var (
	// These will be set by ldflags during build
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info contains version information
type Info struct {
	Program   string `json:"program"`
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns version information
func Get() Info {
	return Info{
		Program:   Program,
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// UserAgent returns the value sent in the User-Agent header of API calls,
// e.g. "activecampaign/v1.2.0 (linux/amd64)".
func (i Info) UserAgent() string {
	return fmt.Sprintf("%s/%s (%s)", i.Program, i.Version, i.Platform)
}

// String returns a human-readable version string
func (i Info) String() string {
	return fmt.Sprintf("%s %s\nGit Commit: %s\nBuild Date: %s\nGo Version: %s\nPlatform: %s",
		i.Program, i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform)
}
