package compose

import (
	"fmt"
	"math"

	"github.com/alnah/go-pdfcompose/internal/canvas"
	"github.com/alnah/go-pdfcompose/internal/labels"
)

// TextLine is the single line of base content on a batch page.
type TextLine struct {
	Template string // "{item}" when empty
	X        float64
	Y        float64 // baseline
	Size     float64
	Color    canvas.Color
}

// Builder appends pages to a document. Page numbers in labels count
// content pages only; the cover is not numbered.
type Builder struct {
	Page    canvas.Size // geometry of the cover and of generated pages
	Cover   *Cover
	Overlay Overlay
	Policy  Policy
	Line    TextLine
	// Values carries the run-wide placeholders (title, date). Page, total
	// and item are filled per page.
	Values labels.Values
}

// Rebuild appends the cover, then one page per source page with the source
// content transcluded beneath the overlays. Each new page has the size of
// the page it replaces.
func (b *Builder) Rebuild(doc canvas.Document, pages []canvas.PageRef) error {
	sizes := make([]canvas.Size, len(pages))
	for i, p := range pages {
		sizes[i] = p.Size
	}
	if err := CheckBands(b.Overlay.Header, b.Overlay.Footer, sizes...); err != nil {
		return err
	}

	b.cover(doc)
	for i, p := range pages {
		doc.AddPage(p.Size)
		doc.DrawPage(p, b.placement(p.Size))
		b.Overlay.Decorate(doc, p.Size, b.values(i, len(pages), ""))
	}
	return b.done(doc)
}

// Batch appends the cover, then one page per item carrying the item line.
func (b *Builder) Batch(doc canvas.Document, items []string) error {
	if err := CheckBands(b.Overlay.Header, b.Overlay.Footer, b.Page); err != nil {
		return err
	}

	tmpl := b.Line.Template
	if tmpl == "" {
		tmpl = "{item}"
	}
	frame := Frame(b.Page, b.Overlay.Header, b.Overlay.Footer, b.Policy)
	y := b.Line.Y
	if b.Policy != PolicyOverpaint {
		y = math.Max(y, frame.Y+b.Line.Size)
	}

	b.cover(doc)
	for i, item := range items {
		v := b.values(i, len(items), item)
		doc.AddPage(b.Page)
		doc.DrawText(canvas.Label{
			Text:  labels.Expand(tmpl, v),
			X:     b.Line.X,
			Y:     y,
			Size:  b.Line.Size,
			Color: b.Line.Color,
		})
		b.Overlay.Decorate(doc, b.Page, v)
	}
	return b.done(doc)
}

// Raster appends the cover, then slices img across as many pages as its
// height needs once scaled to the frame width.
func (b *Builder) Raster(doc canvas.Document, img canvas.ImageRef) error {
	if err := CheckBands(b.Overlay.Header, b.Overlay.Footer, b.Page); err != nil {
		return err
	}
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("%w: captured image has no area", ErrEmptyDocument)
	}

	frame := Frame(b.Page, b.Overlay.Header, b.Overlay.Footer, b.Policy)
	drawnH := float64(img.Height) * frame.W / float64(img.Width)
	n := SliceCount(drawnH, frame.H)

	b.cover(doc)
	for i := 0; i < n; i++ {
		doc.AddPage(b.Page)
		r := canvas.Rect{X: frame.X, Y: frame.Y - float64(i)*frame.H, W: frame.W, H: drawnH}
		doc.Clip(frame, func() {
			doc.DrawImage(img, r, 1)
		})
		b.Overlay.Decorate(doc, b.Page, b.values(i, n, ""))
	}
	return b.done(doc)
}

// SliceCount is the number of frames of height frameH needed to show
// contentH. It is at least 1.
func SliceCount(contentH, frameH float64) int {
	if frameH <= 0 || contentH <= 0 {
		return 1
	}
	// The epsilon absorbs float error when contentH is an exact multiple.
	return max(1, int(math.Ceil(contentH/frameH-1e-9)))
}

func (b *Builder) cover(doc canvas.Document) {
	if b.Cover == nil {
		return
	}
	DrawCover(doc, b.Page, b.Cover, b.Values)
}

func (b *Builder) placement(src canvas.Size) canvas.Rect {
	if b.Policy == PolicyOverpaint {
		return canvas.Rect{W: src.W, H: src.H}
	}
	return fit(src, Frame(src, b.Overlay.Header, b.Overlay.Footer, b.Policy))
}

func (b *Builder) values(i, total int, item string) labels.Values {
	v := b.Values
	v.Page = i + 1
	v.Total = total
	v.Item = item
	return v
}

func (b *Builder) done(doc canvas.Document) error {
	if doc.PageCount() == 0 {
		return ErrEmptyDocument
	}
	return nil
}
