package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-web2pdf/internal/fileutil"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Browser  browserInfo `json:"browser"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// browserInfo holds Chrome/Chromium/Edge detection results.
type browserInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Source  string `json:"source,omitempty"` // which setting or lookup found it
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	Display       bool   `json:"display"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	OutputDir         string `json:"output_dir"`
	OutputDirWritable bool   `json:"output_dir_writable"`
	TempWritable      bool   `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		switch arg {
		case "--json":
			jsonOutput = true
		case "-h", "--help":
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
	}

	result := runDoctor(env.Getenv)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(getenv func(string) string) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  getenv("ROD_NO_SANDBOX"),
			BrowserBin: getenv("ROD_BROWSER_BIN"),
		},
	}

	checkBrowser(result, getenv)
	checkEnvironment(result, getenv)
	checkSystem(result, getenv)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// sandboxDisabled reports whether any setting turns the sandbox off.
func sandboxDisabled(getenv func(string) string) bool {
	if getenv("ROD_NO_SANDBOX") == "1" {
		return true
	}
	b, err := strconv.ParseBool(getenv("WEB2PDF_NO_SANDBOX"))
	return err == nil && b
}

// checkBrowser locates the browser the same way a conversion would:
// WEB2PDF_BROWSER_BIN, then ROD_BROWSER_BIN, then go-rod's lookup.
func checkBrowser(result *doctorResult, getenv func(string) string) {
	path, source := getenv("WEB2PDF_BROWSER_BIN"), "WEB2PDF_BROWSER_BIN"
	if path == "" {
		path, source = result.Env.BrowserBin, "ROD_BROWSER_BIN"
	}

	if path == "" {
		var found bool
		path, found = launcher.LookPath()
		if !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome or set WEB2PDF_BROWSER_BIN")
			return
		}
		source = "auto-detected"
	}

	if !fileutil.FileExists(path) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Browser not found at %s (%s)", path, source))
		return
	}

	result.Browser.Found = true
	result.Browser.Path = path
	result.Browser.Source = source

	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- user-configured browser
	if err == nil {
		result.Browser.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get browser version: %v", err))
	}

	result.Browser.Sandbox = !sandboxDisabled(getenv)
}

// checkEnvironment detects container, CI and display availability.
func checkEnvironment(result *doctorResult, getenv func(string) string) {
	result.Env.Container, result.Env.ContainerHint = isContainer(getenv)

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && !sandboxDisabled(getenv) {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but the sandbox is on. Use --no-sandbox or WEB2PDF_NO_SANDBOX=1")
	}

	// The browser window is visible unless --headless is given.
	result.Env.Display = runtime.GOOS != "linux" ||
		getenv("DISPLAY") != "" || getenv("WAYLAND_DISPLAY") != ""
	if !result.Env.Display {
		result.Warnings = append(result.Warnings,
			"No display detected. Use --headless or WEB2PDF_HEADLESS=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string) (bool, string) {
	// Explicit override (highest priority)
	if getenv("WEB2PDF_CONTAINER") == "1" {
		return true, "WEB2PDF_CONTAINER=1"
	}
	// Docker
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	// Kubernetes
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp and output directories are writable.
func checkSystem(result *doctorResult, getenv func(string) string) {
	if dirWritable(os.TempDir()) {
		result.System.TempWritable = true
	} else {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
	}

	dir := getenv("WEB2PDF_OUTPUT_DIR")
	if dir == "" {
		dir = "."
	}
	result.System.OutputDir = dir

	if _, err := os.Stat(dir); err != nil {
		// Created on first run.
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Output directory %s does not exist yet", dir))
		return
	}
	if dirWritable(dir) {
		result.System.OutputDirWritable = true
	} else {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Output directory not writable: %s", dir))
	}
}

// dirWritable reserves and removes a temp file in dir.
func dirWritable(dir string) bool {
	_, cleanup, err := fileutil.TempPath(dir, "doctor")
	if err != nil {
		return false
	}
	cleanup()
	return true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "web2pdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Browser")
	if r.Browser.Found {
		fmt.Fprintf(w, "  [OK] Found at %s (%s)\n", r.Browser.Path, r.Browser.Source)
		if r.Browser.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Browser.Version)
		}
		if r.Browser.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	if r.Env.Display {
		fmt.Fprintln(w, "  [OK] Display: available")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.System.OutputDirWritable {
		fmt.Fprintf(w, "  [OK] Output directory: %s writable\n", r.System.OutputDir)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
