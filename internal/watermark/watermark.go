// Package watermark supplies the single translucent image stamped on every
// page. A remote image is preferred; when it cannot be fetched or decoded a
// text watermark is synthesized locally, so acquisition never fails.
package watermark

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // remote logos may be GIF
	_ "image/jpeg" // remote logos may be JPEG
	"image/png"
	"log/slog"

	_ "golang.org/x/image/bmp" // remote logos may be BMP
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // remote logos may be WebP

	"github.com/alnah/go-pdfcompose/internal/fetch"
)

// Image is a decoded watermark re-encoded as 8-bit PNG. It is immutable and
// shared by every page that draws it.
type Image struct {
	PNG         []byte
	Width       int
	Height      int
	Synthesized bool
	Source      string // URL, or "" when synthesized
}

// Getter fetches a remote resource.
type Getter interface {
	Get(ctx context.Context, url string) (*fetch.Response, error)
}

// Provider acquires watermark images.
type Provider struct {
	getter Getter
	logger *slog.Logger
}

// NewProvider returns a Provider fetching through g. A nil logger discards.
func NewProvider(g Getter, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Provider{getter: g, logger: logger}
}

// Acquire fetches and decodes the image at url. Any failure falls back to
// Synthesize; the returned image is never nil.
func (p *Provider) Acquire(ctx context.Context, url string) *Image {
	img, err := p.fetch(ctx, url)
	if err != nil {
		p.logger.Warn("watermark unavailable, using synthesized fallback", "url", url, "error", err)
		return Synthesize()
	}
	p.logger.Debug("watermark fetched", "url", url, "width", img.Width, "height", img.Height)
	return img
}

func (p *Provider) fetch(ctx context.Context, url string) (*Image, error) {
	if url == "" {
		return nil, fmt.Errorf("no watermark URL")
	}
	res, err := p.getter.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	img, err := Decode(res.Body)
	if err != nil {
		return nil, err
	}
	img.Source = url
	return img, nil
}

// Decode decodes any registered image format and re-encodes it as 8-bit
// NRGBA PNG, the only PNG flavour the PDF writer embeds reliably.
func Decode(data []byte) (*Image, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding watermark: %w", err)
	}

	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("decoding watermark: empty image")
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	return encode(dst, false)
}

func encode(img *image.NRGBA, synthesized bool) (*Image, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding watermark: %w", err)
	}
	b := img.Bounds()
	return &Image{
		PNG:         buf.Bytes(),
		Width:       b.Dx(),
		Height:      b.Dy(),
		Synthesized: synthesized,
	}, nil
}
