// Package settings provides build metadata, per-run configuration and
// context helpers shared by the renderjson CLI and its packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "renderjson"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Output modes accepted by the CLI.
const (
	OutputText = "text"
	OutputHTML = "html"
	OutputPage = "page"
)

// ValidOutputs lists the accepted --output values.
var ValidOutputs = []string{OutputText, OutputHTML, OutputPage}

// Run holds the settings of a single invocation: where input comes from,
// how the tree is presented and how chatty the logs are.
type Run struct {
	MinLogLevel int8
	LogFormat   string
	InputPath   string
	Output      string
	Interactive bool
	NoColor     bool
	IsQuiet     bool
}

// NewCliParams returns the defaults used by the CLI before flags are applied.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		LogFormat:   "json",
		Output:      OutputText,
	}
}

// FromStdin reports whether input is read from standard input.
func (r *Run) FromStdin() bool {
	return r.InputPath == "" || r.InputPath == "-"
}
