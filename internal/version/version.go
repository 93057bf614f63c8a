// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.4.0"

// Milestones:
// 0.4.0 - Chartlet plot view, error ellipse, running fix support
// 0.3.0 - Least-squares position fixing, fix quality grading, TOML sight logs
// 0.2.0 - JPL Horizons ephemeris provider, daily almanac pages, twilight times
// 0.1.0 - Initial release: sight reduction TUI, practice problem generator, headless modes
