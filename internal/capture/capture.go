package capture

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-pdfcompose/internal/assets"
	"github.com/alnah/go-pdfcompose/internal/fetch"
	"github.com/alnah/go-pdfcompose/internal/fileutil"
	"github.com/alnah/go-pdfcompose/internal/process"
)

// Viewport defaults: A4 width at 96 DPI.
const (
	DefaultViewportWidth = 794
	viewportHeight       = 1123
)

// Target names the page to open and the element to capture. Exactly one of
// URL and File is set.
type Target struct {
	URL      string
	File     string // .html, .htm, .md or .markdown
	Selector string // DefaultSelector when empty
	Style    string // stylesheet for Markdown files; "" for none
	Width    int    // viewport width in CSS pixels
}

// boundsScript reports the element's box in document coordinates.
const boundsScript = `function() {
	const r = this.getBoundingClientRect();
	return {x: r.left + window.scrollX, y: r.top + window.scrollY, w: r.width, h: r.height};
}`

// Browser captures elements with a lazily launched headless Chrome. It is
// not safe for concurrent use; pool one Browser per worker.
type Browser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	pages    *PageBuilder
	timeout  time.Duration
	logger   *slog.Logger
}

// NewBrowser creates a Browser. Chrome is not started until the first
// capture.
func NewBrowser(timeout time.Duration, loader assets.Loader, logger *slog.Logger) *Browser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Browser{
		pages:   NewPageBuilder(loader),
		timeout: timeout,
		logger:  logger,
	}
}

// ensureBrowser lazily launches and connects to Chrome.
func (b *Browser) ensureBrowser() error {
	if b.browser != nil {
		return nil
	}

	l := launcher.New()
	// Pre-installed browser (Docker, CI).
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b.launcher, b.browser = l, browser
	b.logger.Debug("browser started", "pid", l.PID())
	return nil
}

// Close shuts Chrome down and kills any process it leaves behind.
func (b *Browser) Close() error {
	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	if b.launcher != nil {
		process.KillTree(b.launcher.PID())
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
	b.browser, b.launcher = nil, nil
	return err
}

// Capture opens the target and returns a PNG of the matched element at its
// full height, including any part below the fold.
func (b *Browser) Capture(ctx context.Context, t Target) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, cleanup, err := b.resolve(ctx, t)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := b.ensureBrowser(); err != nil {
		return nil, err
	}

	timeout := b.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	p := page.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	width := t.Width
	if width <= 0 {
		width = DefaultViewportWidth
	}
	err = p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageLoad, err)
	}

	if err := p.Navigate(target); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	selector := t.Selector
	if selector == "" {
		selector = DefaultSelector
	}
	el, err := p.Element(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: element %q: %v", ErrCapture, selector, err)
	}

	res, err := el.Eval(boundsScript)
	if err != nil {
		return nil, fmt.Errorf("%w: measuring %q: %v", ErrCapture, selector, err)
	}
	x, y := res.Value.Get("x").Num(), res.Value.Get("y").Num()
	w, h := res.Value.Get("w").Num(), res.Value.Get("h").Num()
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: element %q has no area", ErrCapture, selector)
	}

	png, err := p.Screenshot(false, &proto.PageCaptureScreenshot{
		Format:                proto.PageCaptureScreenshotFormatPng,
		Clip:                  &proto.PageViewport{X: x, Y: y, Width: w, Height: h, Scale: 1},
		CaptureBeyondViewport: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapture, err)
	}

	b.logger.Debug("element captured", "selector", selector, "width", w, "height", h)
	return png, nil
}

// resolve turns a Target into a URL Chrome can open. Markdown is rendered
// to a temporary HTML file removed by cleanup.
func (b *Browser) resolve(ctx context.Context, t Target) (string, func(), error) {
	noop := func() {}

	switch {
	case t.URL != "" && t.File != "":
		return "", noop, fmt.Errorf("%w: both URL and file set", ErrUnsupportedTarget)
	case t.URL != "":
		if !fetch.IsHTTP(t.URL) {
			return "", noop, fmt.Errorf("%w: %q is not an http(s) URL", ErrUnsupportedTarget, t.URL)
		}
		return t.URL, noop, nil
	case t.File == "":
		return "", noop, fmt.Errorf("%w: no URL or file", ErrUnsupportedTarget)
	}

	abs, err := filepath.Abs(t.File)
	if err != nil {
		return "", noop, fmt.Errorf("%w: %v", ErrReadTarget, err)
	}

	switch strings.ToLower(filepath.Ext(abs)) {
	case ".html", ".htm":
		if !fileutil.FileExists(abs) {
			return "", noop, fmt.Errorf("%w: %s: %w", ErrReadTarget, abs, os.ErrNotExist)
		}
		return fileURL(abs), noop, nil
	case ".md", ".markdown":
		src, err := os.ReadFile(abs) // #nosec G304 -- user-selected capture source
		if err != nil {
			return "", noop, fmt.Errorf("%w: %w", ErrReadTarget, err)
		}
		html, err := b.pages.Build(ctx, string(src), t.Style)
		if err != nil {
			return "", noop, err
		}
		path, cleanup, err := fileutil.WriteTempFile(html, "html")
		if err != nil {
			return "", noop, fmt.Errorf("%w: %v", ErrReadTarget, err)
		}
		return fileURL(path), cleanup, nil
	}
	return "", noop, fmt.Errorf("%w: %s (want .html, .htm, .md or .markdown)", ErrUnsupportedTarget, filepath.Base(abs))
}

func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // C:/x on Windows
	}
	return "file://" + p
}
