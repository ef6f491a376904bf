// Package version provides information about the build version of the service.
package version

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service string `json:"service" example:"pfascheck-api"`
	Version string `json:"version" example:"v0.3.0"`
	Commit  string `json:"commit" example:"3f2c1ab"`
	Date    string `json:"date" example:"2026-05-02"`
}

// Binary names reported by each command
const (
	Service = "pfascheck-api"
	CLI     = "pfascheck"
)

// Info returns the API server's build information, stamped at build time with
// -ldflags "-X 'pfascheck/internal/core/version.version=v0.3.0' -X ...commit=... -X ...date=..."
func Info() BuildInfo { return InfoFor(Service) }

// InfoFor returns the build information labelled with another binary name
func InfoFor(name string) BuildInfo {
	return BuildInfo{
		Service: name,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String is the one line form printed by the CLI
func (b BuildInfo) String() string {
	return b.Service + " " + b.Version + " (" + b.Commit + ", " + b.Date + ")"
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
