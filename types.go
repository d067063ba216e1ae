package pdfcompose

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alnah/go-pdfcompose/internal/canvas"
	"github.com/alnah/go-pdfcompose/internal/compose"
)

// Page size constants.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// pageSizes maps presets to portrait geometry in points.
var pageSizes = map[string]canvas.Size{
	PageSizeA4:     {W: 595.28, H: 841.89},
	PageSizeLetter: {W: 612, H: 792},
	PageSizeLegal:  {W: 612, H: 1008},
}

// PageSettings selects the geometry of the cover and of generated pages.
// Rebuilt pages always keep the size of the source page they replace.
type PageSettings struct {
	Size        string // "a4", "letter", "legal"
	Orientation string // "portrait", "landscape"
}

// DefaultPageSettings returns A4 portrait.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{Size: PageSizeA4, Orientation: OrientationPortrait}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	if _, ok := pageSizes[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}
	switch strings.ToLower(p.Orientation) {
	case "", OrientationPortrait, OrientationLandscape:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
}

// Dimensions returns the page geometry in points. Call Validate first.
func (p *PageSettings) Dimensions() canvas.Size {
	if p == nil {
		p = DefaultPageSettings()
	}
	size, ok := pageSizes[strings.ToLower(p.Size)]
	if !ok {
		size = pageSizes[PageSizeA4]
	}
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		size.W, size.H = size.H, size.W
	}
	return size
}

// Band configures a header or footer strip. Text is a template:
// {page}, {total}, {date} and {title} are replaced per page.
type Band struct {
	Height    float64 // points
	Color     string  // fill, "#rrggbb"
	Text      string
	FontSize  float64
	TextColor string // "#rrggbb"
}

// Default overlay colors.
const (
	DefaultBandColor = "#3498db"
	DefaultTextColor = "#ffffff"
)

// DefaultHeader returns the 50pt blue header band.
func DefaultHeader() *Band {
	return &Band{Height: 50, Color: DefaultBandColor, Text: "Header - Page {page}", FontSize: 14, TextColor: DefaultTextColor}
}

// DefaultFooter returns the 40pt blue footer band.
func DefaultFooter() *Band {
	return &Band{Height: 40, Color: DefaultBandColor, Text: "Footer - Page {page}", FontSize: 12, TextColor: DefaultTextColor}
}

// Validate checks that band settings are valid.
// Returns nil if b is nil (nil means no band).
func (b *Band) Validate() error {
	if b == nil {
		return nil
	}
	if !positive(b.Height) {
		return fmt.Errorf("%w: height must be positive, got %.2f", ErrInvalidBand, b.Height)
	}
	if !positive(b.FontSize) || b.FontSize > b.Height {
		return fmt.Errorf("%w: %.2f (must be positive and fit the %.2fpt band)", ErrInvalidFontSize, b.FontSize, b.Height)
	}
	if _, err := parseColor(b.Color); err != nil {
		return err
	}
	_, err := parseColor(b.TextColor)
	return err
}

func (b *Band) toBand() *compose.Band {
	if b == nil {
		return nil
	}
	return &compose.Band{
		Height:    b.Height,
		Fill:      mustColor(b.Color),
		Label:     b.Text,
		FontSize:  b.FontSize,
		TextColor: mustColor(b.TextColor),
	}
}

// Cover configures the first page. It never carries header or footer bands.
type Cover struct {
	Title     string // template
	Subtitle  string // template
	Color     string // full-bleed fill, "#rrggbb"
	TextColor string
	Watermark bool // stamp the watermark on the cover too
}

// DefaultCover returns the blue cover with placeholder title and subtitle.
func DefaultCover() *Cover {
	return &Cover{
		Title:     "COVER PAGE TITLE",
		Subtitle:  "This is the subtitle of the cover page",
		Color:     DefaultBandColor,
		TextColor: DefaultTextColor,
		Watermark: true,
	}
}

// Validate checks that cover settings are valid.
// Returns nil if c is nil (nil means no cover).
func (c *Cover) Validate() error {
	if c == nil {
		return nil
	}
	if _, err := parseColor(c.Color); err != nil {
		return err
	}
	_, err := parseColor(c.TextColor)
	return err
}

// Cover typography, in points.
const (
	coverTitleSize      = 30
	coverSubtitleSize   = 16
	coverTitleOffset    = -20
	coverSubtitleOffset = 20
)

func (c *Cover) toCover(stamp *compose.Stamp) *compose.Cover {
	cv := &compose.Cover{
		Fill:           mustColor(c.Color),
		Title:          c.Title,
		Subtitle:       c.Subtitle,
		TitleSize:      coverTitleSize,
		SubtitleSize:   coverSubtitleSize,
		TextColor:      mustColor(c.TextColor),
		TitleOffset:    coverTitleOffset,
		SubtitleOffset: coverSubtitleOffset,
	}
	if c.Watermark {
		cv.Watermark = stamp
	}
	return cv
}

// DefaultWatermarkURL is the remote logo used when none is configured.
const DefaultWatermarkURL = "https://cdn.testbook.com/article2pdf/v1/tb-logo-highres.png"

// DefaultOpacity is the watermark opacity.
const DefaultOpacity = 0.2

// Watermark configures the translucent image stamped on content pages.
// When URL cannot be fetched or decoded a text watermark is synthesized.
type Watermark struct {
	URL     string
	Opacity float64 // (0, 1]
}

// DefaultWatermark returns the remote logo at 0.2 opacity.
func DefaultWatermark() *Watermark {
	return &Watermark{URL: DefaultWatermarkURL, Opacity: DefaultOpacity}
}

// Validate checks that watermark settings are valid.
// Returns nil if w is nil (nil means no watermark).
func (w *Watermark) Validate() error {
	if w == nil {
		return nil
	}
	if !(w.Opacity > 0 && w.Opacity <= 1) {
		return fmt.Errorf("%w: %.2f (must be in (0, 1])", ErrInvalidOpacity, w.Opacity)
	}
	return nil
}

// Input contains composition parameters.
type Input struct {
	Source    Source
	Page      *PageSettings // nil = A4 portrait
	Cover     *Cover        // nil = no cover
	Header    *Band         // nil = no header
	Footer    *Band         // nil = no footer
	Watermark *Watermark    // nil = no watermark
	// Layout is "reserve" (default) to fit base content between the bands
	// or "overpaint" to let the bands paint over it.
	Layout string
	Title  string // {title} and document metadata
	// Date fills {date}: a literal, "auto", "auto:FORMAT" or "auto:preset".
	Date string
	// ItemText is the template of the text line on generated pages;
	// {item} is the item text.
	ItemText string
}

// Result is a composed document.
type Result struct {
	PDF                  []byte
	Pages                int
	Filename             string
	WatermarkSynthesized bool
}

// Validate checks the whole input, including that the bands fit the page
// geometry used for the cover and generated pages.
func (in *Input) Validate() error {
	if err := in.Source.Validate(); err != nil {
		return err
	}
	if err := in.Page.Validate(); err != nil {
		return err
	}
	if err := in.Cover.Validate(); err != nil {
		return err
	}
	if err := in.Header.Validate(); err != nil {
		return err
	}
	if err := in.Footer.Validate(); err != nil {
		return err
	}
	if err := in.Watermark.Validate(); err != nil {
		return err
	}
	if _, err := compose.ParsePolicy(in.Layout); err != nil {
		return err
	}
	return compose.CheckBands(in.Header.toBand(), in.Footer.toBand(), in.Page.Dimensions())
}

// positive reports whether v is finite and above zero. NaN fails every
// comparison, so it is rejected here too.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// parseColor parses "#rrggbb" or "#rgb".
func parseColor(s string) (canvas.Color, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return canvas.Color{}, fmt.Errorf("%w: %q (want #rrggbb)", ErrInvalidColor, s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return canvas.Color{}, fmt.Errorf("%w: %q (want #rrggbb)", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return canvas.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return canvas.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// mustColor is parseColor for already validated input.
func mustColor(s string) canvas.Color {
	c, _ := parseColor(s)
	return c
}
