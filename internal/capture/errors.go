package capture

import "errors"

// Sentinel errors for capture operations.
var (
	ErrBrowserConnect    = errors.New("failed to connect to browser")
	ErrPageCreate        = errors.New("failed to create browser page")
	ErrPageLoad          = errors.New("failed to load page")
	ErrCapture           = errors.New("failed to capture element")
	ErrHTMLConversion    = errors.New("HTML conversion failed")
	ErrUnsupportedTarget = errors.New("unsupported capture target")
	ErrReadTarget        = errors.New("failed to read capture target")
)
