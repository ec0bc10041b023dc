// Package settings provides build metadata, runtime configuration, and
// context helpers used across the scenex CLI and library packages.
package settings

import "time"

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "scenex"

// Defaults for the editor pipeline.
const (
	DefaultTabWidth        = 2
	DefaultContentDebounce = 500 * time.Millisecond
	DefaultCursorDebounce  = 1000 * time.Millisecond
)

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds configuration settings for a single execution of the application.
// It includes options for logging, indentation, debounce timing, rule
// resources, and output behavior.
type Run struct {
	MinLogLevel     int8
	LogFile         string
	RulesFile       string
	TabWidth        int
	ContentDebounce time.Duration
	CursorDebounce  time.Duration
	NoColor         bool
	ExitOnError     bool
}

// NewCliParams initializes and returns a pointer to a Run struct with default CLI parameters.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel:     0,
		TabWidth:        DefaultTabWidth,
		ContentDebounce: DefaultContentDebounce,
		CursorDebounce:  DefaultCursorDebounce,
		NoColor:         false,
		ExitOnError:     true,
	}
}

// EffectiveTabWidth returns the configured tab width, never below 1.
func (r *Run) EffectiveTabWidth() int {
	if r == nil || r.TabWidth < 1 {
		return DefaultTabWidth
	}
	return r.TabWidth
}
