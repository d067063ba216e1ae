// Package canvas defines the drawing surface the composition pipeline paints
// on, plus the gofpdf-backed document that implements it.
//
// All coordinates are PDF points with the origin at the top-left corner of
// the current page. Draw calls composite in call order: a later call paints
// over an earlier one.
package canvas

import "errors"

// Sentinel errors for document operations.
var (
	ErrImageRegister = errors.New("image registration failed")
	ErrEmbedPages    = errors.New("page embedding failed")
	ErrOutput        = errors.New("PDF serialization failed")
)

// Size is a page geometry in points.
type Size struct {
	W float64
	H float64
}

// Rect is an axis-aligned rectangle in points.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Color is an opaque RGB color.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// Common colors.
var (
	White = Color{R: 255, G: 255, B: 255}
	Black = Color{}
)

// Align controls how a Label is positioned relative to its anchor.
type Align int

// Label alignments.
const (
	AlignLeft Align = iota
	AlignCenter
)

// Label is a single line of text anchored at a baseline point.
type Label struct {
	Text  string
	X     float64
	Y     float64 // baseline
	Size  float64 // font size in points
	Color Color
	Align Align
}

// ImageRef is a registered image. Registration happens once per document;
// every page that shows the image draws the same reference.
type ImageRef struct {
	Name   string
	Width  int // pixels
	Height int // pixels
}

// PageRef is a transclusion of one source page, drawable as a single unit
// onto any page of the destination document.
type PageRef struct {
	ID    int
	Index int // zero-based position in the source document
	Size  Size
}

// Surface receives draw calls for the current page.
type Surface interface {
	AddPage(size Size)
	FillRect(r Rect, c Color)
	DrawText(l Label)
	// DrawImage paints img into r. Opacity applies to this call only.
	DrawImage(img ImageRef, r Rect, opacity float64)
	DrawPage(p PageRef, r Rect)
	// Clip restricts every draw issued by draw to r.
	Clip(r Rect, draw func())
}

// Document is an append-only page sequence with its shared resources.
type Document interface {
	Surface
	RegisterImage(name string, data []byte) (ImageRef, error)
	// EmbedPages creates one transclusion per entry of sizes, in order, from
	// the given PDF bytes.
	EmbedPages(data []byte, sizes []Size) ([]PageRef, error)
	PageCount() int
	Bytes() ([]byte, error)
}
