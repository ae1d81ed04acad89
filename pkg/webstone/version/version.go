// Package version exposes build metadata injected at link time through
// -ldflags on the variables below.
package version

// AppVersion aggregates the build metadata.
type AppVersion struct {
	Version   string
	GitCommit string
	BuildDate string
}

var (
	// Version is the release version.
	Version = ""
	// Metadata qualifies unreleased builds.
	Metadata = "unreleased"
	// GitCommit is the source commit sha1.
	GitCommit = ""
	// BuildDate is the build timestamp.
	BuildDate = ""
)

// GetVersion returns the running build's version information.
func GetVersion() *AppVersion {
	v := Version
	if Metadata != "" {
		v += "-" + Metadata
	}

	return &AppVersion{
		Version:   v,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	}
}
