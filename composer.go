package pdfcompose

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alnah/go-pdfcompose/internal/assets"
	"github.com/alnah/go-pdfcompose/internal/canvas"
	"github.com/alnah/go-pdfcompose/internal/capture"
	"github.com/alnah/go-pdfcompose/internal/compose"
	"github.com/alnah/go-pdfcompose/internal/fetch"
	"github.com/alnah/go-pdfcompose/internal/inspect"
	"github.com/alnah/go-pdfcompose/internal/labels"
	"github.com/alnah/go-pdfcompose/internal/watermark"
)

// capturer rasterises one DOM element to PNG.
type capturer interface {
	Capture(ctx context.Context, t capture.Target) ([]byte, error)
	Close() error
}

// Compile-time interface implementation checks.
var (
	_ capturer         = (*capture.Browser)(nil)
	_ watermark.Getter = (*fetch.Client)(nil)
	_ canvas.Document  = (*canvas.PDF)(nil)
)

// Text line of generated pages, in points.
const (
	itemX    = 40
	itemY    = 100
	itemSize = 14
)

// Image names registered in every document.
const (
	watermarkImage = "watermark"
	captureImage   = "capture"
)

// creator is written to the document information dictionary.
const creator = "pdfcompose"

// Composer runs the composition pipeline: source acquisition, watermark
// acquisition, cover, content pages with overlays, serialization.
// Create with NewComposer, use Compose, and Close when done. A Composer is
// not safe for concurrent use; use a Pool for parallel work.
type Composer struct {
	cfg         composerConfig
	fetcher     *fetch.Client
	watermarks  *watermark.Provider
	capturer    capturer
	newDocument func(canvas.Metadata) canvas.Document
}

// NewComposer creates a Composer with default configuration.
// Chrome is only started by the first capture source.
func NewComposer(opts ...Option) (*Composer, error) {
	c := &Composer{
		cfg: composerConfig{
			timeout: defaultTimeout,
			logger:  slog.New(slog.DiscardHandler),
			now:     time.Now,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.cfg.loader = resolver
		c.cfg.logger.Debug("asset path configured", "path", c.cfg.assetPath, "custom", resolver.HasCustomLoader())
	}

	c.fetcher = fetch.NewClient(c.cfg.httpClient)
	c.watermarks = watermark.NewProvider(c.fetcher, c.cfg.logger)

	// Injected by tests.
	if c.capturer == nil {
		c.capturer = capture.NewBrowser(c.cfg.timeout, c.cfg.loader, c.cfg.logger)
	}
	if c.newDocument == nil {
		c.newDocument = func(m canvas.Metadata) canvas.Document { return canvas.NewPDF(m) }
	}
	return c, nil
}

// base is the acquired source content.
type base struct {
	pdf []byte // url and file sources
	png []byte // capture source
}

// Compose runs the full pipeline and returns the finished document.
// A failed run returns no bytes. Watermark failures never fail a run; a
// text watermark is synthesized instead.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Composer) Compose(ctx context.Context, in Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: internal error: %v", ErrCompose, r)
		}
	}()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	now := c.cfg.now()
	date, err := labels.ResolveDate(in.Date, now)
	if err != nil {
		return nil, err
	}
	policy, err := compose.ParsePolicy(in.Layout)
	if err != nil {
		return nil, err
	}

	src, err := c.acquire(ctx, in.Source)
	if err != nil {
		return nil, err
	}

	doc := c.newDocument(canvas.Metadata{Title: in.Title, Creator: creator, CreatedAt: now})
	b := &compose.Builder{
		Page:    in.Page.Dimensions(),
		Policy:  policy,
		Overlay: compose.Overlay{Header: in.Header.toBand(), Footer: in.Footer.toBand()},
		Line:    compose.TextLine{Template: in.ItemText, X: itemX, Y: itemY, Size: itemSize, Color: canvas.Black},
		Values:  labels.Values{Title: in.Title, Date: date},
	}

	result = &Result{Filename: OutputName(in.Source)}
	if in.Watermark != nil {
		stamp, synthesized, err := c.watermark(ctx, doc, in.Watermark)
		if err != nil {
			return nil, err
		}
		b.Overlay.Watermark = stamp
		result.WatermarkSynthesized = synthesized
	}
	if in.Cover != nil {
		b.Cover = in.Cover.toCover(b.Overlay.Watermark)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.build(doc, b, in.Source, src); err != nil {
		return nil, err
	}

	result.Pages = doc.PageCount()
	if result.PDF, err = doc.Bytes(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompose, err)
	}

	c.cfg.logger.Info("document composed",
		"source", in.Source.Kind, "pages", result.Pages, "bytes", len(result.PDF),
		"watermark_synthesized", result.WatermarkSynthesized)
	return result, nil
}

// Close releases resources (headless Chrome browser).
func (c *Composer) Close() error {
	if c.capturer != nil {
		return c.capturer.Close()
	}
	return nil
}

// acquire fetches, reads or captures the base content. Failures are fatal.
func (c *Composer) acquire(ctx context.Context, s Source) (base, error) {
	switch s.Kind {
	case SourceURL:
		res, err := c.fetcher.Get(ctx, s.URL)
		if err != nil {
			return base{}, fmt.Errorf("%w: %w", ErrSourceFetch, err)
		}
		c.cfg.logger.Debug("source fetched", "url", s.URL, "bytes", len(res.Body), "content_type", res.ContentType)
		return base{pdf: res.Body}, nil
	case SourceFile:
		return base{pdf: s.File.Data}, nil
	case SourceCapture:
		t := s.Capture
		png, err := c.capturer.Capture(ctx, capture.Target{
			URL:      t.URL,
			File:     t.File,
			Selector: t.Selector,
			Style:    t.Style,
			Width:    t.Width,
		})
		if err != nil {
			return base{}, err
		}
		return base{png: png}, nil
	}
	return base{}, nil
}

// watermark acquires the image once and registers it for every page.
func (c *Composer) watermark(ctx context.Context, doc canvas.Document, w *Watermark) (*compose.Stamp, bool, error) {
	img := c.watermarks.Acquire(ctx, w.URL)
	ref, err := doc.RegisterImage(watermarkImage, img.PNG)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrCompose, err)
	}
	return &compose.Stamp{Image: ref, Opacity: w.Opacity}, img.Synthesized, nil
}

// build appends every page to doc.
func (c *Composer) build(doc canvas.Document, b *compose.Builder, s Source, src base) error {
	switch s.Kind {
	case SourceURL, SourceFile:
		info, err := inspect.Inspect(src.pdf)
		if err != nil {
			return err
		}
		c.cfg.logger.Debug("source inspected", "pages", info.PageCount())
		refs, err := doc.EmbedPages(src.pdf, info.Pages)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCompose, err)
		}
		return b.Rebuild(doc, refs)
	case SourceCapture:
		img, err := doc.RegisterImage(captureImage, src.png)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCompose, err)
		}
		if s.Capture.AsCover {
			b.Cover = &compose.Cover{Image: &img}
			return b.Batch(doc, s.items())
		}
		return b.Raster(doc, img)
	}
	return b.Batch(doc, s.items())
}
