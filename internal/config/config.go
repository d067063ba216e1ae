// Package config loads the YAML configuration of the pdfcompose CLI.
//
// Zero values mean "use the library default": a header with no height gets
// the default 50pt band, an empty watermark URL the default logo. Features
// are switched on and off with their Enabled field.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-pdfcompose/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrEmptyConfig     = errors.New("config file is empty")
	ErrConfigTooLarge  = errors.New("config file exceeds maximum size")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrFieldRange      = errors.New("field out of range")
)

// Field length limits.
const (
	MaxURLLength      = 2048 // Browser limit
	MaxPathLength     = 4096
	MaxTitleLength    = 200
	MaxTextLength     = 500 // band and item templates
	MaxDateLength     = 60  // "auto:[Week of] D MMMM YYYY"
	MaxColorLength    = 7   // "#rrggbb"
	MaxSelectorLength = 500
	MaxNameLength     = 50 // page size, orientation, layout, style
	MaxItems          = 1000
)

// Range limits.
const (
	MaxBandHeight    = 500  // points
	MaxFontSize      = 200  // points
	MaxViewportWidth = 8192 // CSS pixels
)

// Config holds all configuration for document composition.
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Source    SourceConfig    `yaml:"source"`
	Capture   CaptureConfig   `yaml:"capture"`
	Page      PageConfig      `yaml:"page"`
	Document  DocumentConfig  `yaml:"document"`
	Cover     CoverConfig     `yaml:"cover"`
	Header    BandConfig      `yaml:"header"`
	Footer    BandConfig      `yaml:"footer"`
	Watermark WatermarkConfig `yaml:"watermark"`
	Assets    AssetsConfig    `yaml:"assets"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = current)
}

// SourceConfig defines generated content for blank sources.
type SourceConfig struct {
	PageCount int      `yaml:"pageCount"` // 0 = 3 pages
	Items     []string `yaml:"items"`     // one page per item, overrides pageCount
}

// CaptureConfig defines DOM capture options.
type CaptureConfig struct {
	Selector string `yaml:"selector"` // CSS selector (default: "#pdf-content")
	Style    string `yaml:"style"`    // style applied to Markdown files (default: "default")
	Width    int    `yaml:"width"`    // viewport width in CSS pixels (default: 794)
	AsCover  bool   `yaml:"asCover"`  // place the capture as the cover page
}

// PageConfig defines page geometry and layout.
type PageConfig struct {
	Size        string `yaml:"size"`        // "a4", "letter", "legal" (default: "a4")
	Orientation string `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Layout      string `yaml:"layout"`      // "reserve", "overpaint" (default: "reserve")
}

// DocumentConfig defines placeholder values and the item line.
type DocumentConfig struct {
	Title    string `yaml:"title"`    // {title}
	Date     string `yaml:"date"`     // {date}: literal, "auto" or "auto:FORMAT"
	ItemText string `yaml:"itemText"` // template of the item line (default: "{item}")
}

// CoverConfig defines cover page options.
type CoverConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Title     string `yaml:"title"`
	Subtitle  string `yaml:"subtitle"`
	Color     string `yaml:"color"`     // "#rrggbb"
	TextColor string `yaml:"textColor"` // "#rrggbb"
	Watermark bool   `yaml:"watermark"` // stamp the watermark on the cover
}

// BandConfig defines a header or footer band.
type BandConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Height    float64 `yaml:"height"` // points
	Color     string  `yaml:"color"`
	Text      string  `yaml:"text"` // template: {page}, {total}, {date}, {title}
	FontSize  float64 `yaml:"fontSize"`
	TextColor string  `yaml:"textColor"`
}

// WatermarkConfig defines the watermark image.
type WatermarkConfig struct {
	Enabled bool    `yaml:"enabled"`
	URL     string  `yaml:"url"`
	Opacity float64 `yaml:"opacity"` // (0, 1] (default: 0.2)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// DefaultConfig enables every overlay with library defaults.
func DefaultConfig() *Config {
	return &Config{
		Cover:     CoverConfig{Enabled: true, Watermark: true},
		Header:    BandConfig{Enabled: true},
		Footer:    BandConfig{Enabled: true},
		Watermark: WatermarkConfig{Enabled: true},
	}
}

// Validate checks field lengths and ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"capture.selector", c.Capture.Selector, MaxSelectorLength},
		{"capture.style", c.Capture.Style, MaxNameLength},
		{"page.size", c.Page.Size, MaxNameLength},
		{"page.orientation", c.Page.Orientation, MaxNameLength},
		{"page.layout", c.Page.Layout, MaxNameLength},
		{"document.title", c.Document.Title, MaxTitleLength},
		{"document.date", c.Document.Date, MaxDateLength},
		{"document.itemText", c.Document.ItemText, MaxTextLength},
		{"cover.title", c.Cover.Title, MaxTitleLength},
		{"cover.subtitle", c.Cover.Subtitle, MaxTitleLength},
		{"cover.color", c.Cover.Color, MaxColorLength},
		{"cover.textColor", c.Cover.TextColor, MaxColorLength},
		{"header.text", c.Header.Text, MaxTextLength},
		{"header.color", c.Header.Color, MaxColorLength},
		{"header.textColor", c.Header.TextColor, MaxColorLength},
		{"footer.text", c.Footer.Text, MaxTextLength},
		{"footer.color", c.Footer.Color, MaxColorLength},
		{"footer.textColor", c.Footer.TextColor, MaxColorLength},
		{"watermark.url", c.Watermark.URL, MaxURLLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Source.PageCount < 0 || c.Source.PageCount > MaxItems {
		return rangeError("source.pageCount", float64(c.Source.PageCount), 0, MaxItems)
	}
	if len(c.Source.Items) > MaxItems {
		return fmt.Errorf("%w: source.items (%d items, max %d)", ErrFieldRange, len(c.Source.Items), MaxItems)
	}
	for i, item := range c.Source.Items {
		if err := validateFieldLength(fmt.Sprintf("source.items[%d]", i), item, MaxTextLength); err != nil {
			return err
		}
	}
	if c.Capture.Width < 0 || c.Capture.Width > MaxViewportWidth {
		return rangeError("capture.width", float64(c.Capture.Width), 0, MaxViewportWidth)
	}
	if !inRange(c.Watermark.Opacity, 0, 1) {
		return rangeError("watermark.opacity", c.Watermark.Opacity, 0, 1)
	}
	if err := c.Header.validate("header"); err != nil {
		return err
	}
	return c.Footer.validate("footer")
}

func (b BandConfig) validate(name string) error {
	if !inRange(b.Height, 0, MaxBandHeight) {
		return rangeError(name+".height", b.Height, 0, MaxBandHeight)
	}
	if !inRange(b.FontSize, 0, MaxFontSize) {
		return rangeError(name+".fontSize", b.FontSize, 0, MaxFontSize)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// inRange reports whether lo <= v <= hi. NaN is never in range.
func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

func rangeError(fieldName string, got, lo, hi float64) error {
	return fmt.Errorf("%w: %s must be between %g and %g, got %g", ErrFieldRange, fieldName, lo, hi, got)
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := unmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists, in lookup order, the files a config name resolves to:
// name.yaml and name.yml in the current directory, then in
// the user config directory under go-pdfcompose/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, "go-pdfcompose", name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file of SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
