package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-pdfcompose/internal/config"
)

// envPrefix namespaces the environment variables read by the CLI.
const envPrefix = "PDFCOMPOSE_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // PDFCOMPOSE_CONFIG: config file path
	Timeout    time.Duration // PDFCOMPOSE_TIMEOUT: composition timeout
	Workers    int           // PDFCOMPOSE_WORKERS: parallel workers

	// Tier 2 - I/O
	OutputDir string // PDFCOMPOSE_OUTPUT_DIR: default output directory
	AssetPath string // PDFCOMPOSE_ASSET_PATH: custom asset directory

	// Tier 3 - Document
	PageSize     string // PDFCOMPOSE_PAGE_SIZE: a4, letter, legal
	Layout       string // PDFCOMPOSE_LAYOUT: reserve, overpaint
	Title        string // PDFCOMPOSE_TITLE: {title}
	Date         string // PDFCOMPOSE_DATE: {date}
	WatermarkURL string // PDFCOMPOSE_WATERMARK_URL: watermark image
}

// knownEnvVars lists valid PDFCOMPOSE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"PDFCOMPOSE_CONFIG":  true,
	"PDFCOMPOSE_TIMEOUT": true,
	"PDFCOMPOSE_WORKERS": true,
	// Tier 2 - I/O
	"PDFCOMPOSE_OUTPUT_DIR": true,
	"PDFCOMPOSE_ASSET_PATH": true,
	// Tier 3 - Document
	"PDFCOMPOSE_PAGE_SIZE":     true,
	"PDFCOMPOSE_LAYOUT":        true,
	"PDFCOMPOSE_TITLE":         true,
	"PDFCOMPOSE_DATE":          true,
	"PDFCOMPOSE_WATERMARK_URL": true,
	// Read by doctor
	"PDFCOMPOSE_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed timeout and worker values are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:   os.Getenv("PDFCOMPOSE_CONFIG"),
		OutputDir:    os.Getenv("PDFCOMPOSE_OUTPUT_DIR"),
		AssetPath:    os.Getenv("PDFCOMPOSE_ASSET_PATH"),
		PageSize:     os.Getenv("PDFCOMPOSE_PAGE_SIZE"),
		Layout:       os.Getenv("PDFCOMPOSE_LAYOUT"),
		Title:        os.Getenv("PDFCOMPOSE_TITLE"),
		Date:         os.Getenv("PDFCOMPOSE_DATE"),
		WatermarkURL: os.Getenv("PDFCOMPOSE_WATERMARK_URL"),
	}

	if timeout := os.Getenv("PDFCOMPOSE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("PDFCOMPOSE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized PDFCOMPOSE_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}

	if env.PageSize != "" && cfg.Page.Size == "" {
		cfg.Page.Size = env.PageSize
	}
	if env.Layout != "" && cfg.Page.Layout == "" {
		cfg.Page.Layout = env.Layout
	}
	if env.Title != "" && cfg.Document.Title == "" {
		cfg.Document.Title = env.Title
	}
	if env.Date != "" && cfg.Document.Date == "" {
		cfg.Document.Date = env.Date
	}

	// Watermark URL (auto-enable)
	if env.WatermarkURL != "" && cfg.Watermark.URL == "" {
		cfg.Watermark.URL = env.WatermarkURL
		cfg.Watermark.Enabled = true
	}
}
