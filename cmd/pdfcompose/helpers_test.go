package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alnah/go-pdfcompose/internal/canvas"
	"github.com/alnah/go-pdfcompose/internal/config"
	"github.com/alnah/go-pdfcompose/internal/inspect"
)

var a4 = canvas.Size{W: 595.28, H: 841.89}

func fixedNow() time.Time {
	return time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
}

// testEnv returns an environment writing to buffers, with no config file
// and embedded assets.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Now:    fixedNow,
		Stdout: &stdout,
		Stderr: &stderr,
		Config: config.DefaultConfig(),
	}, &stdout, &stderr
}

// samplePDF builds a PDF with one page per size.
func samplePDF(t *testing.T, sizes ...canvas.Size) []byte {
	t.Helper()

	doc := canvas.NewPDF(canvas.Metadata{Title: "sample"})
	for _, s := range sizes {
		doc.AddPage(s)
	}
	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	return data
}

// writeFile writes data under dir and returns the path.
func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// pageCount reads path and returns its page count.
func pageCount(t *testing.T, path string) int {
	t.Helper()

	data, err := os.ReadFile(path) // #nosec G304 -- test path
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	info, err := inspect.Inspect(data)
	if err != nil {
		t.Fatalf("Inspect(%s) error = %v", path, err)
	}
	return info.PageCount()
}

// newPDFServer serves report.pdf with n A4 pages and 404 elsewhere.
func newPDFServer(t *testing.T, n int) *httptest.Server {
	t.Helper()

	sizes := make([]canvas.Size, n)
	for i := range sizes {
		sizes[i] = a4
	}
	pdf := samplePDF(t, sizes...)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/docs/report.pdf" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdf)
	}))
	t.Cleanup(srv.Close)
	return srv
}
