package web2pdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyURL          = errors.New("URL cannot be empty")
	ErrBrowserLaunch     = errors.New("failed to launch browser")
	ErrPageCreate        = errors.New("failed to create browser page")
	ErrNavigationTimeout = errors.New("navigation timed out")
	ErrPageLoad          = errors.New("failed to load page")
	ErrLazyLoad          = errors.New("lazy-load expansion failed")
	ErrTitle             = errors.New("failed to read page title")
	ErrPDFGeneration     = errors.New("PDF generation failed")
	ErrWritePDF          = errors.New("failed to write PDF file")
	ErrWorkerPanic       = errors.New("conversion worker panicked")

	// Merge errors.
	ErrNoPDFs         = errors.New("no PDFs found")
	ErrNoValidContent = errors.New("no valid PDF content to merge")
	ErrMergeOpen      = errors.New("failed to open PDF")
	ErrMergeWrite     = errors.New("failed to write merged PDF")

	// Pipeline construction errors.
	ErrInvalidMergedName = errors.New("invalid merged file name")

	// Page settings validation errors.
	ErrInvalidPageSize = errors.New("invalid page size")
	ErrInvalidMargin   = errors.New("invalid margin")
)
