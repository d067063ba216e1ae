package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	pdfcompose "github.com/alnah/go-pdfcompose"
	"github.com/alnah/go-pdfcompose/internal/config"
)

func mustParse(t *testing.T, args ...string) *composeFlags {
	t.Helper()

	f, _, err := parseComposeFlags(args, io.Discard)
	if err != nil {
		t.Fatalf("parseComposeFlags(%v) error = %v", args, err)
	}
	return f
}

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	t.Run("unset flags keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Header.Height = 60
		cfg.Watermark.Opacity = 0.5
		want := *cfg

		mergeFlags(mustParse(t), cfg)

		if diff := cmp.Diff(want, *cfg); diff != "" {
			t.Errorf("config changed (-want +got):\n%s", diff)
		}
	})

	t.Run("flags override config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Page.Size = "letter"
		mergeFlags(mustParse(t,
			"-p", "legal", "--layout", "overpaint", "--title", "Report",
			"--item", "one", "--item", "two", "--selector", "main",
			"--header-height", "0", "--footer-text", "{page}/{total}",
			"--no-cover", "--wm-opacity", "0.4",
		), cfg)

		if cfg.Page.Size != "legal" || cfg.Page.Layout != "overpaint" {
			t.Errorf("Page = %+v", cfg.Page)
		}
		if cfg.Document.Title != "Report" {
			t.Errorf("Document.Title = %q, want Report", cfg.Document.Title)
		}
		if diff := cmp.Diff([]string{"one", "two"}, cfg.Source.Items); diff != "" {
			t.Errorf("Source.Items (-want +got):\n%s", diff)
		}
		if cfg.Capture.Selector != "main" {
			t.Errorf("Capture.Selector = %q, want main", cfg.Capture.Selector)
		}
		if cfg.Header.Height != 0 {
			t.Errorf("Header.Height = %v, want explicit 0", cfg.Header.Height)
		}
		if cfg.Footer.Text != "{page}/{total}" {
			t.Errorf("Footer.Text = %q", cfg.Footer.Text)
		}
		if cfg.Cover.Enabled {
			t.Error("Cover.Enabled = true, want false after --no-cover")
		}
		if cfg.Watermark.Opacity != 0.4 {
			t.Errorf("Watermark.Opacity = %v, want 0.4", cfg.Watermark.Opacity)
		}
	})

	t.Run("watermark url enables watermark", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Watermark.Enabled = false
		mergeFlags(mustParse(t, "--wm-url", "https://example.com/logo.png"), cfg)

		if !cfg.Watermark.Enabled {
			t.Error("Watermark.Enabled = false, want true")
		}
	})

	t.Run("no-watermark wins over url", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		mergeFlags(mustParse(t, "--wm-url", "https://example.com/logo.png", "--no-watermark"), cfg)

		if cfg.Watermark.Enabled {
			t.Error("Watermark.Enabled = true, want false")
		}
	})
}

func TestBuildInput(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		in := buildInput(config.DefaultConfig())

		if diff := cmp.Diff(pdfcompose.DefaultPageSettings(), in.Page); diff != "" {
			t.Errorf("Page (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(pdfcompose.DefaultCover(), in.Cover); diff != "" {
			t.Errorf("Cover (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(pdfcompose.DefaultHeader(), in.Header); diff != "" {
			t.Errorf("Header (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(pdfcompose.DefaultFooter(), in.Footer); diff != "" {
			t.Errorf("Footer (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(pdfcompose.DefaultWatermark(), in.Watermark); diff != "" {
			t.Errorf("Watermark (-want +got):\n%s", diff)
		}
	})

	t.Run("disabled features are nil", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{}
		in := buildInput(cfg)

		if in.Cover != nil || in.Header != nil || in.Footer != nil || in.Watermark != nil {
			t.Errorf("want no overlays, got cover=%v header=%v footer=%v watermark=%v",
				in.Cover, in.Header, in.Footer, in.Watermark)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Header = config.BandConfig{Enabled: true, Height: 30, Text: "{title}", FontSize: 10, Color: "#000"}
		cfg.Cover.Watermark = false
		cfg.Cover.Title = "Annual"
		cfg.Page.Orientation = "landscape"

		in := buildInput(cfg)

		wantHeader := &pdfcompose.Band{Height: 30, Color: "#000", Text: "{title}", FontSize: 10, TextColor: pdfcompose.DefaultTextColor}
		if diff := cmp.Diff(wantHeader, in.Header); diff != "" {
			t.Errorf("Header (-want +got):\n%s", diff)
		}
		if in.Cover.Title != "Annual" || in.Cover.Watermark {
			t.Errorf("Cover = %+v", in.Cover)
		}
		if in.Page.Orientation != "landscape" || in.Page.Size != pdfcompose.PageSizeA4 {
			t.Errorf("Page = %+v", in.Page)
		}
	})
}

func TestSourceFromFlags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pdfPath := writeFile(t, dir, "x.pdf", samplePDF(t, a4))
	txtPath := writeFile(t, dir, "notes.txt", []byte("hello"))

	cfg := config.DefaultConfig()
	cfg.Source.PageCount = 2
	cfg.Capture.Selector = "#main"
	cfg.Capture.AsCover = true

	tests := []struct {
		name    string
		flags   sourceFlags
		check   func(t *testing.T, s pdfcompose.Source)
		wantErr error
	}{
		{
			name:  "blank",
			flags: sourceFlags{},
			check: func(t *testing.T, s pdfcompose.Source) {
				if s.Kind != pdfcompose.SourceBlank || s.PageCount != 2 {
					t.Errorf("source = %+v, want blank with 2 pages", s)
				}
			},
		},
		{
			name:  "url",
			flags: sourceFlags{url: "https://example.com/a.pdf"},
			check: func(t *testing.T, s pdfcompose.Source) {
				if s.Kind != pdfcompose.SourceURL || s.URL != "https://example.com/a.pdf" {
					t.Errorf("source = %+v", s)
				}
			},
		},
		{
			name:  "file",
			flags: sourceFlags{file: pdfPath},
			check: func(t *testing.T, s pdfcompose.Source) {
				if s.Kind != pdfcompose.SourceFile || s.File == nil {
					t.Fatalf("source = %+v", s)
				}
				if s.File.Name != "x.pdf" || s.File.ContentType != pdfcompose.PDFContentType || len(s.File.Data) == 0 {
					t.Errorf("File = %q %q %d bytes", s.File.Name, s.File.ContentType, len(s.File.Data))
				}
			},
		},
		{
			name:  "capture url",
			flags: sourceFlags{capture: "https://example.com/page"},
			check: func(t *testing.T, s pdfcompose.Source) {
				want := &pdfcompose.CaptureTarget{URL: "https://example.com/page", Selector: "#main", AsCover: true}
				if diff := cmp.Diff(want, s.Capture); diff != "" {
					t.Errorf("Capture (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:  "capture file",
			flags: sourceFlags{capture: "doc.md"},
			check: func(t *testing.T, s pdfcompose.Source) {
				if s.Capture == nil || s.Capture.File != "doc.md" || s.Capture.URL != "" {
					t.Errorf("Capture = %+v", s.Capture)
				}
			},
		},
		{"exclusive", sourceFlags{url: "https://example.com/a.pdf", file: pdfPath}, nil, ErrUsage},
		{"not a pdf", sourceFlags{file: txtPath}, nil, pdfcompose.ErrNotPDF},
		{"missing file", sourceFlags{file: filepath.Join(dir, "missing.pdf")}, nil, ErrReadSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := sourceFromFlags(tt.flags, cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("sourceFromFlags() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("sourceFromFlags() error = %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestReadSelection_RejectsBeforeReading(t *testing.T) {
	t.Parallel()

	// The file does not exist: a non-PDF name is rejected without I/O.
	_, err := readSelection(filepath.Join(t.TempDir(), "photo.png"))
	if !errors.Is(err, pdfcompose.ErrNotPDF) {
		t.Fatalf("readSelection() error = %v, want ErrNotPDF", err)
	}
	if errors.Is(err, os.ErrNotExist) {
		t.Error("readSelection() read the file before checking its type")
	}
}

func TestResolveTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flag    string
		env     time.Duration
		want    time.Duration
		wantErr bool
	}{
		{"none", "", 0, 0, false},
		{"env", "", time.Minute, time.Minute, false},
		{"flag wins", "45s", time.Minute, 45 * time.Second, false},
		{"malformed", "soon", 0, 0, true},
		{"negative", "-1s", 0, 0, true},
		{"zero", "0s", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveTimeout(tt.flag, tt.env)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimeout) {
					t.Errorf("resolveTimeout() error = %v, want ErrInvalidTimeout", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("resolveTimeout() = %v, %v, want %v", got, err, tt.want)
			}
		})
	}
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, pdfcompose.MaxPoolSize} {
		if err := validateWorkers(n); err != nil {
			t.Errorf("validateWorkers(%d) error = %v", n, err)
		}
	}
	for _, n := range []int{-1, pdfcompose.MaxPoolSize + 1} {
		if err := validateWorkers(n); !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", n, err)
		}
	}
}

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		output string
		want   string
	}{
		{"", "modified-x.pdf"},
		{"out", filepath.Join("out", "modified-x.pdf")},
		{filepath.Join("out", "final.pdf"), filepath.Join("out", "final.pdf")},
	}

	for _, tt := range tests {
		if got := resolveOutputPath(tt.output, "modified-x.pdf"); got != tt.want {
			t.Errorf("resolveOutputPath(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestLoadConfig_FallbackIsCopied(t *testing.T) {
	t.Parallel()

	fallback := config.DefaultConfig()
	cfg, err := loadConfig("", fallback)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	cfg.Page.Size = "legal"

	if fallback.Page.Size != "" {
		t.Error("loadConfig() returned the fallback itself")
	}
}

func TestNewSession_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"bands overlap", []string{"--header-height", "450", "--footer-height", "450"}, pdfcompose.ErrBandsOverlap},
		{"config range", []string{"--header-height", "600"}, config.ErrFieldRange},
		{"NaN band height", []string{"--header-height", "NaN"}, config.ErrFieldRange},
		{"NaN opacity", []string{"--wm-opacity", "NaN"}, config.ErrFieldRange},
		{"invalid color", []string{"--header-color", "blue"}, pdfcompose.ErrInvalidColor},
		{"invalid layout", []string{"--layout", "squeeze"}, pdfcompose.ErrInvalidLayout},
		{"invalid timeout", []string{"-t", "later"}, ErrInvalidTimeout},
		{"too many workers", []string{"-w", "99"}, ErrInvalidWorkerCount},
		{"missing config", []string{"-c", filepath.Join(t.TempDir(), "none.yaml")}, config.ErrConfigNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := testEnv()
			_, err := newSession(mustParse(t, tt.args...), env)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("newSession() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
