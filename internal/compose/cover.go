package compose

import (
	"github.com/alnah/go-pdfcompose/internal/canvas"
	"github.com/alnah/go-pdfcompose/internal/labels"
)

// Cover is the first page of the output. It never carries bands.
type Cover struct {
	Fill         canvas.Color
	Title        string // template
	Subtitle     string // template
	TitleSize    float64
	SubtitleSize float64
	TextColor    canvas.Color
	// TitleOffset and SubtitleOffset are baseline distances from the
	// vertical centre; negative is above.
	TitleOffset    float64
	SubtitleOffset float64
	Watermark      *Stamp
	// Image replaces the programmatic cover with a raster, scaled to the
	// page width.
	Image *canvas.ImageRef
}

// DrawCover appends the cover page to doc.
func DrawCover(doc canvas.Surface, page canvas.Size, c *Cover, v labels.Values) {
	doc.AddPage(page)

	if c.Image != nil {
		src := canvas.Size{W: float64(c.Image.Width), H: float64(c.Image.Height)}
		frame := canvas.Rect{W: page.W, H: page.H}
		doc.Clip(frame, func() {
			doc.DrawImage(*c.Image, widthFit(src, frame), 1)
		})
		return
	}

	doc.FillRect(canvas.Rect{W: page.W, H: page.H}, c.Fill)
	if title := labels.Expand(c.Title, v); title != "" {
		doc.DrawText(canvas.Label{
			Text:  title,
			X:     page.W / 2,
			Y:     page.H/2 + c.TitleOffset,
			Size:  c.TitleSize,
			Color: c.TextColor,
			Align: canvas.AlignCenter,
		})
	}
	if sub := labels.Expand(c.Subtitle, v); sub != "" {
		doc.DrawText(canvas.Label{
			Text:  sub,
			X:     page.W / 2,
			Y:     page.H/2 + c.SubtitleOffset,
			Size:  c.SubtitleSize,
			Color: c.TextColor,
			Align: canvas.AlignCenter,
		})
	}
	if c.Watermark != nil {
		c.Watermark.draw(doc, page)
	}
}

// widthFit scales src to the frame width, keeping its aspect ratio.
func widthFit(src canvas.Size, frame canvas.Rect) canvas.Rect {
	if src.W <= 0 {
		return frame
	}
	return canvas.Rect{X: frame.X, Y: frame.Y, W: frame.W, H: src.H * frame.W / src.W}
}
