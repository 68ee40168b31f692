package main

import (
	"fmt"
	"io"

	"github.com/alnah/go-web2pdf/internal/config"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: web2pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert a URL list to PDFs and merge them (default)")
	fmt.Fprintln(w, "  merge      Merge the PDFs already in the output directory")
	fmt.Fprintln(w, "  doctor     Check browser and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'web2pdf help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: web2pdf convert [urls-file] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render every URL to a PDF named after the page title, then merge them")
	fmt.Fprintln(w, "with the PDFs of the output directory into one document with bookmarks.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintf(w, "  urls-file    .txt (one URL per line) or .md (links), default %s\n", config.DefaultInputFile)
	fmt.Fprintln(w, "               A missing file merges the existing PDFs only.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output-dir <dir>    Directory for converted and merged PDFs")
	fmt.Fprintf(w, "  -m, --merged <name>       Merged file name (default %s)\n", config.DefaultMergedName)
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --no-merge            Convert only, skip the merge step")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome/Edge executable (default: auto-detect)")
	fmt.Fprintln(w, "      --headless            Run without a window")
	fmt.Fprintln(w, "      --no-sandbox          Disable the Chrome sandbox (Docker/CI)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Timeouts:")
	fmt.Fprintf(w, "      --nav-timeout <d>     Page load (default %v)\n", config.DefaultNavigationTimeout)
	fmt.Fprintf(w, "      --lazy-timeout <d>    Lazy-load scrolling (default %v)\n", config.DefaultLazyLoadTimeout)
	fmt.Fprintf(w, "      --export-timeout <d>  PDF export (default %v)\n", config.DefaultExportTimeout)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintf(w, "  -p, --page-size <s>       Page size: a4, letter, legal (default %s)\n", config.DefaultPageSize)
	fmt.Fprintf(w, "      --margin-px <f>       Margin in CSS pixels (default %d)\n", config.DefaultMarginPx)
	fmt.Fprintln(w)
	printCommonUsage(w)
	fmt.Fprintln(w)
	printEnvUsage(w)
}

// printMergeUsage prints usage for the merge command.
func printMergeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: web2pdf merge [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Merge the PDFs of the output directory (sorted by name) into one")
	fmt.Fprintln(w, "document with one bookmark per file. The merged file itself is skipped.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output-dir <dir>    Directory to merge")
	fmt.Fprintf(w, "  -m, --merged <name>       Merged file name (default %s)\n", config.DefaultMergedName)
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	printCommonUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: web2pdf doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that a browser can be found and the output directory is writable.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Machine-readable output")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -q, --quiet               Only show warnings and errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug output")
}

func printEnvUsage(w io.Writer) {
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  WEB2PDF_CONFIG, WEB2PDF_INPUT, WEB2PDF_OUTPUT_DIR, WEB2PDF_MERGED,")
	fmt.Fprintln(w, "  WEB2PDF_BROWSER_BIN, WEB2PDF_HEADLESS, WEB2PDF_NO_SANDBOX,")
	fmt.Fprintln(w, "  WEB2PDF_NAV_TIMEOUT, WEB2PDF_LAZY_TIMEOUT, WEB2PDF_EXPORT_TIMEOUT,")
	fmt.Fprintln(w, "  WEB2PDF_PAGE_SIZE. Flags override environment, which overrides the config file.")
}

// runHelp prints help for the given command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case cmdConvert:
		printConvertUsage(env.Stdout)
	case cmdMerge:
		printMergeUsage(env.Stdout)
	case cmdDoctor:
		printDoctorUsage(env.Stdout)
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: web2pdf version")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: web2pdf help [command]")
	case cmdCompletion:
		printCompletionUsage(env.Stdout)
	default:
		fmt.Fprintf(env.Stderr, "%v: %s\n\n", ErrUnknownCommand, args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
