package version

import "github.com/fatih/color"

// Version information for the textchunk CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.3.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Pretty renders Version with its major, minor and patch parts colored.
// Suffixes after the patch number are left plain.
func Pretty() string {
	parts := splitVersion(Version)
	if parts == nil {
		return Version
	}
	return versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(parts[2]) + parts[3]
}

// splitVersion splits "1.2.3-rc" into ["1" "2" "3" "-rc"].
func splitVersion(v string) []string {
	out := make([]string, 0, 4)
	start := 0
	for i := 0; i < len(v) && len(out) < 2; i++ {
		if v[i] == '.' {
			out = append(out, v[start:i])
			start = i + 1
		}
	}
	if len(out) != 2 {
		return nil
	}
	rest := v[start:]
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return nil
	}
	return append(out, rest[:end], rest[end:])
}
