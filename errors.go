package pdfcompose

import (
	"errors"

	"github.com/alnah/go-pdfcompose/internal/capture"
	"github.com/alnah/go-pdfcompose/internal/compose"
	"github.com/alnah/go-pdfcompose/internal/inspect"
	"github.com/alnah/go-pdfcompose/internal/labels"
)

// Sentinel errors for library operations.
var (
	ErrCompose          = errors.New("PDF composition failed")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrInvalidDate      = labels.ErrInvalidDateFormat
	ErrPoolClosed       = errors.New("composer pool is closed")

	// Source errors.
	ErrInvalidSource    = errors.New("invalid source")
	ErrSourceFetch      = errors.New("failed to fetch source document")
	ErrNotPDF           = errors.New("selected file is not a PDF")
	ErrInvalidPDF       = inspect.ErrInvalidPDF
	ErrInvalidPageCount = errors.New("invalid page count")

	// Layout errors.
	ErrEmptyDocument = compose.ErrEmptyDocument
	ErrBandsOverlap  = compose.ErrBandsOverlap
	ErrInvalidLayout = compose.ErrInvalidPolicy

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")

	// Overlay validation errors.
	ErrInvalidColor    = errors.New("invalid color")
	ErrInvalidBand     = errors.New("invalid band")
	ErrInvalidOpacity  = errors.New("invalid opacity")
	ErrInvalidFontSize = errors.New("invalid font size")

	// Capture errors.
	ErrBrowserConnect    = capture.ErrBrowserConnect
	ErrPageCreate        = capture.ErrPageCreate
	ErrPageLoad          = capture.ErrPageLoad
	ErrCapture           = capture.ErrCapture
	ErrUnsupportedTarget = capture.ErrUnsupportedTarget
)
