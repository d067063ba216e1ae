package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Cover.Enabled || !cfg.Cover.Watermark {
		t.Error("cover should be enabled and watermarked by default")
	}
	if !cfg.Header.Enabled || !cfg.Footer.Enabled {
		t.Error("header and footer should be enabled by default")
	}
	if !cfg.Watermark.Enabled {
		t.Error("Watermark.Enabled = false, want true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{"empty value is valid", "", 10, false},
		{"value at limit is valid", "1234567890", 10, false},
		{"value over limit returns error", "12345678901", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr != errors.Is(err, ErrFieldTooLong) {
				t.Errorf("validateFieldLength() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	long := func(n int) string { return strings.Repeat("x", n) }

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr error
	}{
		{"defaults", func(*Config) {}, nil},
		{"document title too long", func(c *Config) { c.Document.Title = long(MaxTitleLength + 1) }, ErrFieldTooLong},
		{"header text too long", func(c *Config) { c.Header.Text = long(MaxTextLength + 1) }, ErrFieldTooLong},
		{"color too long", func(c *Config) { c.Footer.Color = "#1234567" }, ErrFieldTooLong},
		{"watermark url too long", func(c *Config) { c.Watermark.URL = long(MaxURLLength + 1) }, ErrFieldTooLong},
		{"item too long", func(c *Config) { c.Source.Items = []string{"ok", long(MaxTextLength + 1)} }, ErrFieldTooLong},
		{"too many items", func(c *Config) { c.Source.Items = make([]string, MaxItems+1) }, ErrFieldRange},
		{"negative page count", func(c *Config) { c.Source.PageCount = -1 }, ErrFieldRange},
		{"page count above max", func(c *Config) { c.Source.PageCount = MaxItems + 1 }, ErrFieldRange},
		{"opacity above one", func(c *Config) { c.Watermark.Opacity = 1.2 }, ErrFieldRange},
		{"negative band height", func(c *Config) { c.Header.Height = -1 }, ErrFieldRange},
		{"huge footer font", func(c *Config) { c.Footer.FontSize = MaxFontSize + 1 }, ErrFieldRange},
		{"negative width", func(c *Config) { c.Capture.Width = -10 }, ErrFieldRange},
		{"NaN opacity", func(c *Config) { c.Watermark.Opacity = math.NaN() }, ErrFieldRange},
		{"NaN header height", func(c *Config) { c.Header.Height = math.NaN() }, ErrFieldRange},
		{"infinite footer height", func(c *Config) { c.Footer.Height = math.Inf(1) }, ErrFieldRange},
		{"NaN footer font", func(c *Config) { c.Footer.FontSize = math.NaN() }, ErrFieldRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config over defaults", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "report.yaml", `page:
  size: letter
  layout: overpaint
header:
  text: "{title} - {page}/{total}"
  height: 60
footer:
  enabled: false
watermark:
  url: https://cdn.example.com/logo.png
  opacity: 0.3
source:
  items: [alpha, beta]
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		want := DefaultConfig()
		want.Page = PageConfig{Size: "letter", Layout: "overpaint"}
		want.Header = BandConfig{Enabled: true, Text: "{title} - {page}/{total}", Height: 60}
		want.Footer.Enabled = false
		want.Watermark = WatermarkConfig{Enabled: true, URL: "https://cdn.example.com/logo.png", Opacity: 0.3}
		want.Source.Items = []string{"alpha", "beta"}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "invalid.yaml", "page: [unclosed")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "unknown.yaml", "header:\n  colour: \"#fff\"\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("non-finite YAML number returns ErrFieldRange", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "nan.yaml", "header:\n  height: .nan\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrFieldRange) {
			t.Errorf("error = %v, want ErrFieldRange", err)
		}
	})

	t.Run("empty file returns ErrEmptyConfig", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "empty.yaml", "")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrEmptyConfig) {
			t.Errorf("error = %v, want ErrEmptyConfig", err)
		}
	})

	t.Run("oversized file returns ErrConfigTooLarge", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "big.yaml", "# "+strings.Repeat("x", MaxInputSize))
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigTooLarge) {
			t.Errorf("error = %v, want ErrConfigTooLarge", err)
		}
	})

	t.Run("out of range value fails validation", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "range.yaml", "watermark:\n  opacity: 3\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrFieldRange) {
			t.Errorf("error = %v, want ErrFieldRange", err)
		}
	})
}

func TestLoadConfig_ByName(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	t.Run("yml extension in current directory", func(t *testing.T) {
		writeConfig(t, dir, "brand.yml", "cover:\n  title: Brand\n")

		cfg, err := LoadConfig("brand")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Cover.Title != "Brand" {
			t.Errorf("Cover.Title = %q, want %q", cfg.Cover.Title, "Brand")
		}
	})

	t.Run("missing name lists tried paths", func(t *testing.T) {
		_, err := LoadConfig("absent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "absent.yaml") || !strings.Contains(err.Error(), "absent.yml") {
			t.Errorf("error %q should list tried paths", err)
		}
	})
}
