package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	pdfcompose "github.com/alnah/go-pdfcompose"
	"github.com/alnah/go-pdfcompose/internal/config"
	"github.com/alnah/go-pdfcompose/internal/fetch"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrReadSource         = errors.New("failed to read source file")
	ErrWritePDF           = errors.New("failed to write PDF file")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrComposerInit       = errors.New("failed to initialize composer")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// session is everything a command needs once flags, environment and config
// file are merged.
type session struct {
	cfg     *config.Config
	input   pdfcompose.Input // Source left for the command to fill
	opts    []pdfcompose.Option
	workers int
}

// newSession loads the config and merges, by increasing priority, the
// config file, PDFCOMPOSE_* variables and flags.
func newSession(f *composeFlags, env *Environment) (*session, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	name := f.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	cfg, err := loadConfig(name, env.Config)
	if err != nil {
		return nil, err
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(f, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout, err := resolveTimeout(f.timeout, envCfg.Timeout)
	if err != nil {
		return nil, err
	}

	workers := f.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return nil, err
	}

	in := buildInput(cfg)
	// Sources are checked per document; the rest is shared by every run.
	probe := in
	probe.Source = pdfcompose.Source{Kind: pdfcompose.SourceBlank}
	if err := probe.Validate(); err != nil {
		return nil, err
	}

	opts := []pdfcompose.Option{
		pdfcompose.WithLogger(newLogger(env.Stderr, f.common.verbose)),
	}
	if timeout > 0 {
		opts = append(opts, pdfcompose.WithTimeout(timeout))
	}
	if env.Now != nil {
		opts = append(opts, pdfcompose.WithClock(env.Now))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, pdfcompose.WithAssetPath(cfg.Assets.BasePath))
	} else if env.AssetLoader != nil {
		opts = append(opts, pdfcompose.WithAssetLoader(env.AssetLoader))
	}
	opts = append(opts, env.Options...)

	return &session{cfg: cfg, input: in, opts: opts, workers: workers}, nil
}

// loadConfig loads a named config file, or copies fallback when no name is
// given.
func loadConfig(name string, fallback *config.Config) (*config.Config, error) {
	if name != "" {
		cfg, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	if fallback == nil {
		return config.DefaultConfig(), nil
	}
	cfg := *fallback
	return &cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(f *composeFlags, cfg *config.Config) {
	if f.output != "" {
		cfg.Output.DefaultDir = f.output
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}

	// Source flags
	if f.source.pages > 0 {
		cfg.Source.PageCount = f.source.pages
	}
	if len(f.source.items) > 0 {
		cfg.Source.Items = f.source.items
	}

	// Capture flags
	if f.capture.selector != "" {
		cfg.Capture.Selector = f.capture.selector
	}
	if f.capture.style != "" {
		cfg.Capture.Style = f.capture.style
	}
	if f.capture.width > 0 {
		cfg.Capture.Width = f.capture.width
	}
	if f.capture.asCover {
		cfg.Capture.AsCover = true
	}

	// Page flags
	if f.page.size != "" {
		cfg.Page.Size = f.page.size
	}
	if f.page.orientation != "" {
		cfg.Page.Orientation = f.page.orientation
	}
	if f.page.layout != "" {
		cfg.Page.Layout = f.page.layout
	}

	// Document flags
	if f.document.title != "" {
		cfg.Document.Title = f.document.title
	}
	if f.document.date != "" {
		cfg.Document.Date = f.document.date
	}
	if f.document.itemText != "" {
		cfg.Document.ItemText = f.document.itemText
	}

	// Cover flags
	if f.cover.title != "" {
		cfg.Cover.Title = f.cover.title
	}
	if f.cover.subtitle != "" {
		cfg.Cover.Subtitle = f.cover.subtitle
	}
	if f.cover.color != "" {
		cfg.Cover.Color = f.cover.color
	}
	if f.cover.noWatermark {
		cfg.Cover.Watermark = false
	}
	if f.cover.disabled {
		cfg.Cover.Enabled = false
	}

	mergeBandFlags(f.header, &cfg.Header)
	mergeBandFlags(f.footer, &cfg.Footer)

	// Watermark flags (URL auto-enables)
	if f.watermark.url != "" {
		cfg.Watermark.URL = f.watermark.url
		cfg.Watermark.Enabled = true
	}
	if f.watermark.opacity != unsetFloat {
		cfg.Watermark.Opacity = f.watermark.opacity
	}
	if f.watermark.disabled {
		cfg.Watermark.Enabled = false
	}
}

func mergeBandFlags(f bandFlags, b *config.BandConfig) {
	if f.text != "" {
		b.Text = f.text
	}
	if f.color != "" {
		b.Color = f.color
	}
	if f.textColor != "" {
		b.TextColor = f.textColor
	}
	if f.height != unsetFloat {
		b.Height = f.height
	}
	if f.fontSize != unsetFloat {
		b.FontSize = f.fontSize
	}
	if f.disabled {
		b.Enabled = false
	}
}

// buildInput maps config onto library input, filling zero values with
// library defaults.
func buildInput(cfg *config.Config) pdfcompose.Input {
	in := pdfcompose.Input{
		Page:     buildPageSettings(cfg),
		Layout:   cfg.Page.Layout,
		Title:    cfg.Document.Title,
		Date:     cfg.Document.Date,
		ItemText: cfg.Document.ItemText,
	}
	if cfg.Cover.Enabled {
		in.Cover = buildCover(cfg.Cover)
	}
	if cfg.Header.Enabled {
		in.Header = buildBand(pdfcompose.DefaultHeader(), cfg.Header)
	}
	if cfg.Footer.Enabled {
		in.Footer = buildBand(pdfcompose.DefaultFooter(), cfg.Footer)
	}
	if cfg.Watermark.Enabled {
		in.Watermark = pdfcompose.DefaultWatermark()
		if cfg.Watermark.URL != "" {
			in.Watermark.URL = cfg.Watermark.URL
		}
		if cfg.Watermark.Opacity != 0 {
			in.Watermark.Opacity = cfg.Watermark.Opacity
		}
	}
	return in
}

func buildPageSettings(cfg *config.Config) *pdfcompose.PageSettings {
	p := pdfcompose.DefaultPageSettings()
	if cfg.Page.Size != "" {
		p.Size = cfg.Page.Size
	}
	if cfg.Page.Orientation != "" {
		p.Orientation = cfg.Page.Orientation
	}
	return p
}

func buildCover(c config.CoverConfig) *pdfcompose.Cover {
	cover := pdfcompose.DefaultCover()
	if c.Title != "" {
		cover.Title = c.Title
	}
	if c.Subtitle != "" {
		cover.Subtitle = c.Subtitle
	}
	if c.Color != "" {
		cover.Color = c.Color
	}
	if c.TextColor != "" {
		cover.TextColor = c.TextColor
	}
	cover.Watermark = c.Watermark
	return cover
}

// buildBand overrides the non-zero fields of def with c.
func buildBand(def *pdfcompose.Band, c config.BandConfig) *pdfcompose.Band {
	if c.Height != 0 {
		def.Height = c.Height
	}
	if c.Color != "" {
		def.Color = c.Color
	}
	if c.Text != "" {
		def.Text = c.Text
	}
	if c.FontSize != 0 {
		def.FontSize = c.FontSize
	}
	if c.TextColor != "" {
		def.TextColor = c.TextColor
	}
	return def
}

// sourceFromFlags builds the compose command's source. --url, --file and
// --capture are exclusive; none of them generates blank pages.
func sourceFromFlags(f sourceFlags, cfg *config.Config) (pdfcompose.Source, error) {
	set := 0
	for _, v := range []string{f.url, f.file, f.capture} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return pdfcompose.Source{}, fmt.Errorf("%w: --url, --file and --capture are mutually exclusive", ErrUsage)
	}

	src := pdfcompose.Source{Items: cfg.Source.Items, PageCount: cfg.Source.PageCount}
	switch {
	case f.url != "":
		src.Kind = pdfcompose.SourceURL
		src.URL = f.url
	case f.file != "":
		sel, err := readSelection(f.file)
		if err != nil {
			return pdfcompose.Source{}, err
		}
		src.Kind = pdfcompose.SourceFile
		src.File = sel
	case f.capture != "":
		src.Kind = pdfcompose.SourceCapture
		src.Capture = &pdfcompose.CaptureTarget{
			Selector: cfg.Capture.Selector,
			Style:    cfg.Capture.Style,
			Width:    cfg.Capture.Width,
			AsCover:  cfg.Capture.AsCover,
		}
		if fetch.IsHTTP(f.capture) {
			src.Capture.URL = f.capture
		} else {
			src.Capture.File = f.capture
		}
	default:
		src.Kind = pdfcompose.SourceBlank
	}
	return src, nil
}

// readSelection selects a local file the way a file picker does: the type
// is declared from the extension and only PDFs are accepted.
func readSelection(path string) (*pdfcompose.FileSelection, error) {
	sel, err := pdfcompose.SelectFile(filepath.Base(path), pdfcompose.ContentTypeOf(path), nil)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
	}
	sel.Data = data
	return sel, nil
}

// resolveTimeout returns the flag timeout, else the environment one. Zero
// means the library default.
func resolveTimeout(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envValue, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flagValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s (must be positive)", ErrInvalidTimeout, d)
	}
	return d, nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > pdfcompose.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, pdfcompose.MaxPoolSize)
	}
	return nil
}

// resolveOutputPath returns where a document named name is written. An
// output ending in .pdf is used as is; anything else is a directory.
func resolveOutputPath(output, name string) string {
	if filepath.Ext(output) == ".pdf" {
		return output
	}
	if output == "" {
		output = "."
	}
	return filepath.Join(output, name)
}
