package compose

import (
	"errors"
	"fmt"
	"math"

	"github.com/alnah/go-pdfcompose/internal/canvas"
)

// Sentinel errors for composition.
var (
	ErrBandsOverlap  = errors.New("header and footer bands leave no room for content")
	ErrEmptyDocument = errors.New("document has no pages")
	ErrInvalidPolicy = errors.New("invalid layout policy")
)

// Policy decides whether base content shares the page with the bands.
type Policy string

// Layout policies.
const (
	// PolicyReserve fits base content into the frame between the bands.
	PolicyReserve Policy = "reserve"
	// PolicyOverpaint places base content on the full page; bands paint over it.
	PolicyOverpaint Policy = "overpaint"
)

// ParsePolicy maps a name to a Policy. An empty name is PolicyReserve.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyReserve:
		return PolicyReserve, nil
	case PolicyOverpaint:
		return PolicyOverpaint, nil
	}
	return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidPolicy, s, PolicyReserve, PolicyOverpaint)
}

// Band is a solid strip across the top or bottom of a content page with one
// centred label.
type Band struct {
	Height    float64
	Fill      canvas.Color
	Label     string // template, see labels.Expand
	FontSize  float64
	TextColor canvas.Color
}

// baselineShift approximates half the cap height of Helvetica as a fraction
// of the font size; it centres a label vertically inside its band.
const baselineShift = 0.35

func (b *Band) height() float64 {
	if b == nil {
		return 0
	}
	return b.Height
}

// baseline returns the label baseline for a band whose top edge is at top.
func (b *Band) baseline(top float64) float64 {
	return top + b.Height/2 + b.FontSize*baselineShift
}

// Frame returns the rectangle base content occupies on a page of the given
// size.
func Frame(page canvas.Size, header, footer *Band, policy Policy) canvas.Rect {
	if policy == PolicyOverpaint {
		return canvas.Rect{W: page.W, H: page.H}
	}
	top := header.height()
	return canvas.Rect{X: 0, Y: top, W: page.W, H: page.H - top - footer.height()}
}

// CheckBands reports ErrBandsOverlap when the bands do not fit on every
// listed page size. A NaN height never fits.
func CheckBands(header, footer *Band, sizes ...canvas.Size) error {
	total := header.height() + footer.height()
	for _, s := range sizes {
		if !(total < s.H) {
			return fmt.Errorf("%w: %.2fpt of bands on a %.2fpt page", ErrBandsOverlap, total, s.H)
		}
	}
	return nil
}

// fit scales a box of size src into frame keeping its aspect ratio. The
// result is centred horizontally and aligned to the top of the frame.
func fit(src canvas.Size, frame canvas.Rect) canvas.Rect {
	if src.W <= 0 || src.H <= 0 {
		return frame
	}
	scale := math.Min(frame.W/src.W, frame.H/src.H)
	w, h := src.W*scale, src.H*scale
	return canvas.Rect{X: frame.X + (frame.W-w)/2, Y: frame.Y, W: w, H: h}
}

// centered returns a w x h box centred on the page.
func centered(page canvas.Size, w, h float64) canvas.Rect {
	return canvas.Rect{X: (page.W - w) / 2, Y: (page.H - h) / 2, W: w, H: h}
}
