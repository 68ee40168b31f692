// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-web2pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserLaunch returns hints for browser launch errors.
// Detects CI/Docker environment and suggests the relevant settings.
func ForBrowserLaunch() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "use --no-sandbox (or ROD_NO_SANDBOX=1) for Docker/CI")
	}

	// A visible window needs a display; headless does not.
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" && isUnixDesktop() {
		hints = append(hints, "no display detected, use --headless")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "use --browser-bin or ROD_BROWSER_BIN to pick a Chrome/Edge binary")
	}

	return formatHints(hints)
}

// ForNavigationTimeout returns a hint about slow pages.
func ForNavigationTimeout() string {
	return format("slow or endlessly loading page, raise --nav-timeout")
}

// ForLazyLoad returns a hint about pages that keep growing while scrolled.
func ForLazyLoad() string {
	return format("page kept growing while scrolling (infinite feed?), raise --lazy-timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(toSlash(p), ".config/go-web2pdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForNothingToMerge returns a hint when no PDF could be planned or opened.
func ForNothingToMerge(inputFile string) string {
	if inputFile == "" {
		return format("pass a URL list file or put PDF files in the output directory")
	}
	return format("add URLs to " + inputFile + " or put PDF files in the output directory")
}

// ForOutputDirectory returns hints for output directory errors.
func ForOutputDirectory() string {
	return format("check the directory exists and is writable")
}

// isUnixDesktop reports whether a visible browser window would need an X11
// or Wayland display.
var isUnixDesktop = func() bool {
	return fileutil.FileExists("/proc/version")
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
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
