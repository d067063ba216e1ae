package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// unsetFloat marks a float flag that was not given. No valid height, font
// size or opacity is negative.
const unsetFloat = -1.0

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// sourceFlags selects the base document of the compose command.
type sourceFlags struct {
	url     string
	file    string
	capture string
	pages   int
	items   []string
}

// captureFlags holds DOM capture flags.
type captureFlags struct {
	selector string
	style    string
	width    int
	asCover  bool
}

// pageFlags holds page geometry flags.
type pageFlags struct {
	size        string
	orientation string
	layout      string
}

// documentFlags holds placeholder values.
type documentFlags struct {
	title    string
	date     string
	itemText string
}

// coverFlags holds cover page flags.
type coverFlags struct {
	title       string
	subtitle    string
	color       string
	noWatermark bool
	disabled    bool
}

// bandFlags holds header or footer flags.
type bandFlags struct {
	text      string
	color     string
	textColor string
	height    float64
	fontSize  float64
	disabled  bool
}

// watermarkFlags holds watermark flags.
type watermarkFlags struct {
	url      string
	opacity  float64
	disabled bool
}

// composeFlags holds all flags for the compose and batch commands.
type composeFlags struct {
	common    commonFlags
	output    string
	workers   int
	timeout   string
	assetPath string
	source    sourceFlags
	capture   captureFlags
	page      pageFlags
	document  documentFlags
	cover     coverFlags
	header    bandFlags
	footer    bandFlags
	watermark watermarkFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed logs and timing")
}

// addSourceFlags adds base document flags to a FlagSet.
func addSourceFlags(fs *flag.FlagSet, f *sourceFlags) {
	fs.StringVar(&f.url, "url", "", "rebuild the PDF at this http(s) URL")
	fs.StringVar(&f.file, "file", "", "rebuild this PDF file")
	fs.StringVar(&f.capture, "capture", "", "capture an element of a web page, HTML or Markdown file")
	fs.IntVarP(&f.pages, "pages", "n", 0, "generated pages when no items are given (default: 3)")
	fs.StringArrayVar(&f.items, "item", nil, "text of one generated page (repeatable)")
}

// addCaptureFlags adds DOM capture flags to a FlagSet.
func addCaptureFlags(fs *flag.FlagSet, f *captureFlags) {
	fs.StringVar(&f.selector, "selector", "", "CSS selector of the captured element (default: #pdf-content)")
	fs.StringVar(&f.style, "style", "", "style applied to captured Markdown files")
	fs.IntVar(&f.width, "width", 0, "capture viewport width in CSS pixels (default: 794)")
	fs.BoolVar(&f.asCover, "as-cover", false, "use the capture as the cover page")
}

// addPageFlags adds page geometry flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: a4, letter, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.StringVar(&f.layout, "layout", "", "band layout: reserve, overpaint")
}

// addDocumentFlags adds placeholder flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "title", "", "document title, fills {title}")
	fs.StringVar(&f.date, "date", "", "document date, fills {date} (\"auto\" = today)")
	fs.StringVar(&f.itemText, "item-text", "", "template of the text line on generated pages")
}

// addCoverFlags adds cover page flags to a FlagSet.
func addCoverFlags(fs *flag.FlagSet, f *coverFlags) {
	fs.StringVar(&f.title, "cover-title", "", "cover title")
	fs.StringVar(&f.subtitle, "cover-subtitle", "", "cover subtitle")
	fs.StringVar(&f.color, "cover-color", "", "cover background color (hex)")
	fs.BoolVar(&f.noWatermark, "cover-no-watermark", false, "do not stamp the watermark on the cover")
	fs.BoolVar(&f.disabled, "no-cover", false, "disable cover page")
}

// addBandFlags adds header or footer flags named after band to a FlagSet.
func addBandFlags(fs *flag.FlagSet, f *bandFlags, band string) {
	fs.StringVar(&f.text, band+"-text", "", band+" text: {page}, {total}, {date}, {title}")
	fs.StringVar(&f.color, band+"-color", "", band+" background color (hex)")
	fs.StringVar(&f.textColor, band+"-text-color", "", band+" text color (hex)")
	fs.Float64Var(&f.height, band+"-height", unsetFloat, band+" height in points")
	fs.Float64Var(&f.fontSize, band+"-font-size", unsetFloat, band+" font size in points")
	fs.BoolVar(&f.disabled, "no-"+band, false, "disable "+band)
}

// addWatermarkFlags adds watermark flags to a FlagSet.
func addWatermarkFlags(fs *flag.FlagSet, f *watermarkFlags) {
	fs.StringVar(&f.url, "wm-url", "", "watermark image URL")
	fs.Float64Var(&f.opacity, "wm-opacity", unsetFloat, "watermark opacity (0.0-1.0]")
	fs.BoolVar(&f.disabled, "no-watermark", false, "disable watermark")
}

// newComposeFlagSet registers the flags of a compose-like command. Source
// flags are only registered for the compose command.
func newComposeFlagSet(name string, f *composeFlags, withSource bool) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "composition timeout per document (e.g., 30s, 2m)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory for capture styles")

	// Flag groups
	addCommonFlags(fs, &f.common)
	if withSource {
		addSourceFlags(fs, &f.source)
		addCaptureFlags(fs, &f.capture)
	}
	addPageFlags(fs, &f.page)
	addDocumentFlags(fs, &f.document)
	addCoverFlags(fs, &f.cover)
	addBandFlags(fs, &f.header, "header")
	addBandFlags(fs, &f.footer, "footer")
	addWatermarkFlags(fs, &f.watermark)

	return fs
}

// parseComposeFlags parses compose command flags and returns positional args.
func parseComposeFlags(args []string, stderr io.Writer) (*composeFlags, []string, error) {
	return parseFlags("compose", args, true, stderr, printComposeUsage)
}

// parseBatchFlags parses batch command flags and returns positional args.
func parseBatchFlags(args []string, stderr io.Writer) (*composeFlags, []string, error) {
	return parseFlags("batch", args, false, stderr, printBatchUsage)
}

func parseFlags(name string, args []string, withSource bool, stderr io.Writer, usage func(io.Writer)) (*composeFlags, []string, error) {
	f := &composeFlags{}
	fs := newComposeFlagSet(name, f, withSource)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return f, fs.Args(), nil
}

// hasVerboseFlag reports whether -v or --verbose appears in args. It is
// read before any command parses its flags.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" || a == "--verbose=true" {
			return true
		}
	}
	return false
}
