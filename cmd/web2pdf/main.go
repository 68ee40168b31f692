package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Command names.
const (
	cmdConvert    = "convert"
	cmdMerge      = "merge"
	cmdDoctor     = "doctor"
	cmdVersion    = "version"
	cmdHelp       = "help"
	cmdCompletion = "completion"
)

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches to a command and returns the process exit code.
// Without a command name, arguments go to convert.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		return runConvertCmd(nil, env)
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case cmdConvert:
		return runConvertCmd(rest, env)
	case cmdMerge:
		return runMergeCmd(rest, env)
	case cmdDoctor:
		return runDoctorCmd(rest, env)
	case cmdVersion, "--version":
		fmt.Fprintf(env.Stdout, "web2pdf %s\n", Version)
		return ExitSuccess
	case cmdHelp, "-h", "--help":
		return runHelp(rest, env)
	case cmdCompletion:
		return runCompletionCmd(rest, env)
	}

	if strings.HasPrefix(cmd, "-") || looksLikeURLList(cmd) {
		return runConvertCmd(args[1:], env)
	}

	fmt.Fprintf(env.Stderr, "error: %v: %s\n\n", ErrUnknownCommand, cmd)
	printUsage(env.Stderr)
	return ExitUsage
}

// looksLikeURLList reports whether arg names a URL list file.
func looksLikeURLList(arg string) bool {
	switch strings.ToLower(filepath.Ext(arg)) {
	case ".txt", ".md", ".markdown", ".list":
		return true
	}
	return false
}

// hasVerboseFlag reports whether -v or --verbose appears in args.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}
