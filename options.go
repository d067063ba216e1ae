package pdfcompose

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alnah/go-pdfcompose/internal/assets"
	"github.com/alnah/go-pdfcompose/internal/canvas"
)

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// Option configures a Composer.
type Option func(*Composer)

// composerConfig holds internal configuration for Composer.
type composerConfig struct {
	timeout    time.Duration
	httpClient *http.Client
	loader     AssetLoader
	assetPath  string
	logger     *slog.Logger
	now        func() time.Time
}

// WithTimeout bounds one Compose call, including network fetches and
// browser capture.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("pdfcompose: WithTimeout duration must be positive")
	}
	return func(c *Composer) {
		c.cfg.timeout = d
	}
}

// WithHTTPClient sets the client used for the watermark and URL sources.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Composer) {
		c.cfg.httpClient = hc
	}
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *Composer) {
		if l != nil {
			c.cfg.logger = l
		}
	}
}

// AssetLoader loads the CSS styles and the HTML page template used when a
// Markdown file is captured. Names carry no extension.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// Compile-time check that the built-in loaders satisfy AssetLoader.
var _ AssetLoader = (*assets.Resolver)(nil)

// WithAssetLoader sets where capture assets are read from.
func WithAssetLoader(l AssetLoader) Option {
	return func(c *Composer) {
		c.cfg.loader = l
	}
}

// WithAssetPath reads capture assets from dir, falling back to the
// built-in ones for names dir does not provide.
func WithAssetPath(dir string) Option {
	return func(c *Composer) {
		c.cfg.assetPath = dir
	}
}

// WithClock sets the time source for {date} and document metadata.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) {
		if now != nil {
			c.cfg.now = now
		}
	}
}

// withCapturer replaces the browser, for tests.
func withCapturer(cp capturer) Option {
	return func(c *Composer) {
		c.capturer = cp
	}
}

// withDocument replaces the PDF document factory, for tests.
func withDocument(fn func(canvas.Metadata) canvas.Document) Option {
	return func(c *Composer) {
		c.newDocument = fn
	}
}
