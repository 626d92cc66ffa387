package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set at build time with -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info is the resolved build identity of the running binary.
type Info struct {
	Version   string
	GitCommit string
	BuildDate time.Time
	Dirty     bool
}

// Resolve merges the -ldflags values with the VCS details embedded in
// the build info. Injected values win over embedded ones.
func Resolve() Info {
	info := Info{Version: Version, GitCommit: GitCommit}
	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildDate = t
		}
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				commit := s.Value
				if len(commit) > 7 {
					commit = commit[:7]
				}
				info.GitCommit = commit
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		case "vcs.time":
			if info.BuildDate.IsZero() {
				if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
					info.BuildDate = t
				}
			}
		}
	}
	return info
}

// String renders the identity the way the command line tools print it.
func (i Info) String() string {
	v := i.Version
	if i.GitCommit != "" {
		v += "-" + i.GitCommit
	}
	if i.Dirty {
		v += "-dirty"
	}
	if !i.BuildDate.IsZero() {
		v += fmt.Sprintf(" (built %s)", i.BuildDate.Format("2006-01-02"))
	}
	return v
}
