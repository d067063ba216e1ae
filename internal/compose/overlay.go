package compose

import (
	"github.com/alnah/go-pdfcompose/internal/canvas"
	"github.com/alnah/go-pdfcompose/internal/labels"
)

// Stamp is a registered watermark image drawn at its natural size, one
// point per pixel, centred on the page.
type Stamp struct {
	Image   canvas.ImageRef
	Opacity float64
}

func (s *Stamp) draw(surf canvas.Surface, page canvas.Size) {
	r := centered(page, float64(s.Image.Width), float64(s.Image.Height))
	surf.DrawImage(s.Image, r, s.Opacity)
}

// Overlay decorates content pages with the header band, the footer band and
// the watermark. Any of the three may be nil.
type Overlay struct {
	Header    *Band
	Footer    *Band
	Watermark *Stamp
}

// Decorate paints the overlays on the current page of surf. It must be
// called after the page's base content so the overlays land on top.
func (o *Overlay) Decorate(surf canvas.Surface, page canvas.Size, v labels.Values) {
	if o.Header != nil {
		o.drawBand(surf, o.Header, 0, page, v)
	}
	if o.Footer != nil {
		o.drawBand(surf, o.Footer, page.H-o.Footer.Height, page, v)
	}
	if o.Watermark != nil {
		o.Watermark.draw(surf, page)
	}
}

func (o *Overlay) drawBand(surf canvas.Surface, b *Band, top float64, page canvas.Size, v labels.Values) {
	surf.FillRect(canvas.Rect{X: 0, Y: top, W: page.W, H: b.Height}, b.Fill)

	text := labels.Expand(b.Label, v)
	if text == "" {
		return
	}
	surf.DrawText(canvas.Label{
		Text:  text,
		X:     page.W / 2,
		Y:     b.baseline(top),
		Size:  b.FontSize,
		Color: b.TextColor,
		Align: canvas.AlignCenter,
	})
}
