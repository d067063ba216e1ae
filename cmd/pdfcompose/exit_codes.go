package main

import (
	"errors"
	"os"

	pdfcompose "github.com/alnah/go-pdfcompose"
	"github.com/alnah/go-pdfcompose/internal/config"
)

// Exit codes for the pdfcompose CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Document written
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
	ExitSource  = 5 // Source document could not be fetched or is not a PDF
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, pdfcompose.ErrBrowserConnect) ||
		errors.Is(err, pdfcompose.ErrPageCreate) ||
		errors.Is(err, pdfcompose.ErrPageLoad) ||
		errors.Is(err, pdfcompose.ErrCapture) {
		return ExitBrowser
	}

	// Source errors (exit 5)
	if errors.Is(err, pdfcompose.ErrSourceFetch) ||
		errors.Is(err, pdfcompose.ErrInvalidPDF) ||
		errors.Is(err, pdfcompose.ErrNotPDF) {
		return ExitSource
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadSource) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfig) ||
		errors.Is(err, config.ErrConfigTooLarge) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrFieldRange) ||
		errors.Is(err, pdfcompose.ErrInvalidSource) ||
		errors.Is(err, pdfcompose.ErrInvalidPageCount) ||
		errors.Is(err, pdfcompose.ErrInvalidPageSize) ||
		errors.Is(err, pdfcompose.ErrInvalidOrientation) ||
		errors.Is(err, pdfcompose.ErrInvalidLayout) ||
		errors.Is(err, pdfcompose.ErrBandsOverlap) ||
		errors.Is(err, pdfcompose.ErrInvalidColor) ||
		errors.Is(err, pdfcompose.ErrInvalidBand) ||
		errors.Is(err, pdfcompose.ErrInvalidFontSize) ||
		errors.Is(err, pdfcompose.ErrInvalidOpacity) ||
		errors.Is(err, pdfcompose.ErrInvalidDate) ||
		errors.Is(err, pdfcompose.ErrInvalidAssetPath) ||
		errors.Is(err, pdfcompose.ErrUnsupportedTarget) {
		return ExitUsage
	}

	return ExitGeneral
}
