// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"

	"github.com/alnah/go-html2pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForLaunch returns hints for browser launch errors. getenv reads the
// environment (os.Getenv in production).
func ForLaunch(getenv func(string) string) string {
	var hints []string

	inCI := getenv("CI") != "" ||
		getenv("GITHUB_ACTIONS") != "" ||
		getenv("GITLAB_CI") != "" ||
		getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && getenv("HTML2PDF_NO_SANDBOX") == "" {
		hints = append(hints, "set HTML2PDF_NO_SANDBOX=true for Docker/CI")
	}

	if getenv("HTML2PDF_BROWSER_BIN") == "" {
		hints = append(hints, "set HTML2PDF_BROWSER_BIN to use a pre-installed Chromium")
	}

	return formatHints(hints)
}

// ForProvisioning returns a hint for a provisioning failure reason
// ("network", "disk" or "verification").
func ForProvisioning(reason string) string {
	switch reason {
	case "network":
		return format("set browser.hosts to a reachable mirror, or HTML2PDF_BROWSER_BIN to skip the download")
	case "disk":
		return format("check that browser.rootDir is writable, or that HTML2PDF_BROWSER_BIN exists")
	case "verification":
		return format("the browser binary does not start; check its shared libraries (ldd) or remove it to re-download")
	default:
		return ""
	}
}

// ForTimeout returns a hint about increasing timeout for slow documents.
func ForTimeout() string {
	return format("for large documents or slow assets, use --timeout or HTML2PDF_TIMEOUT")
}

// ForConfigNotFound returns a hint for config file not found errors.
func ForConfigNotFound() string {
	return format("use --config /path/to/file.yaml or create ~/.config/go-html2pdf/<name>.yaml")
}

// ForOutputDirectory returns hints for output file write errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable, or use -o - for stdout")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
