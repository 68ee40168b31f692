package main

import (
	"errors"
	"os"

	web2pdf "github.com/alnah/go-web2pdf"
	"github.com/alnah/go-web2pdf/internal/config"
)

// Exit codes for web2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess        = 0 // All conversions succeeded and the merge was written
	ExitGeneral        = 1 // General/unexpected error
	ExitUsage          = 2 // Invalid flags, config, or validation
	ExitIO             = 3 // File not found, permission denied
	ExitBrowser        = 4 // Browser/Chrome errors
	ExitPartial        = 5 // Some conversions failed
	ExitNothingToMerge = 6 // No PDF could be planned or opened
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Nothing to merge (exit 6)
	if errors.Is(err, web2pdf.ErrNoPDFs) ||
		errors.Is(err, web2pdf.ErrNoValidContent) {
		return ExitNothingToMerge
	}

	// Browser errors (exit 4)
	if errors.Is(err, web2pdf.ErrBrowserLaunch) ||
		errors.Is(err, web2pdf.ErrPageCreate) ||
		errors.Is(err, web2pdf.ErrPageLoad) ||
		errors.Is(err, web2pdf.ErrNavigationTimeout) ||
		errors.Is(err, web2pdf.ErrLazyLoad) ||
		errors.Is(err, web2pdf.ErrTitle) ||
		errors.Is(err, web2pdf.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, web2pdf.ErrWritePDF) ||
		errors.Is(err, web2pdf.ErrMergeWrite) ||
		errors.Is(err, ErrOutputDir) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, web2pdf.ErrInvalidPageSize) ||
		errors.Is(err, web2pdf.ErrInvalidMargin) ||
		errors.Is(err, web2pdf.ErrInvalidMergedName) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
