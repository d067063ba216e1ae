package pdfcompose

import (
	"fmt"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/alnah/go-pdfcompose/internal/fetch"
)

// SourceKind selects how the base document is acquired.
type SourceKind string

// Source kinds.
const (
	// SourceBlank generates one content page per item.
	SourceBlank SourceKind = "blank"
	// SourceURL fetches a PDF over HTTP(S) and rebuilds its pages.
	SourceURL SourceKind = "url"
	// SourceFile rebuilds the pages of a selected PDF file.
	SourceFile SourceKind = "file"
	// SourceCapture rasterises one element of a web page or HTML/Markdown
	// file in headless Chrome.
	SourceCapture SourceKind = "capture"
)

// Page count bounds for generated documents.
const (
	DefaultPageCount = 3
	MaxPageCount     = 1000
)

// DefaultItemText is the text of generated page i when no items are given.
const DefaultItemText = "This is the main PDF content. - Page {n}"

// PDFContentType is the only declared type SelectFile accepts.
const PDFContentType = "application/pdf"

// Source describes the base document. Exactly the field matching Kind is
// used.
type Source struct {
	Kind SourceKind

	URL     string         // SourceURL
	File    *FileSelection // SourceFile
	Capture *CaptureTarget // SourceCapture

	// Items are the texts of generated pages (SourceBlank, and SourceCapture
	// with AsCover). When empty, PageCount pages are generated from
	// DefaultItemText.
	Items     []string
	PageCount int
}

// CaptureTarget names the page and element to rasterise.
type CaptureTarget struct {
	URL      string // http(s) page; exclusive with File
	File     string // .html, .htm, .md or .markdown
	Selector string // CSS selector, "#pdf-content" when empty
	Style    string // stylesheet applied to Markdown files
	Width    int    // viewport width in CSS pixels, 794 when zero
	// AsCover places the capture as the cover page, full-bleed, and
	// generates content pages from Items.
	AsCover bool
}

// FileSelection is a user-selected file with its declared content type.
type FileSelection struct {
	Name        string
	ContentType string
	Data        []byte
}

// SelectFile accepts a selection only when its declared type is a PDF.
// The content is not sniffed. On rejection the returned selection is nil.
func SelectFile(name, contentType string, data []byte) (*FileSelection, error) {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil || mt != PDFContentType {
		return nil, fmt.Errorf("%w: %s has type %q", ErrNotPDF, name, contentType)
	}
	return &FileSelection{Name: name, ContentType: mt, Data: data}, nil
}

// ContentTypeOf derives the declared content type of a file from its
// extension, the way a file picker reports it.
func ContentTypeOf(name string) string {
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}

// Validate checks that the fields required by Kind are present.
func (s *Source) Validate() error {
	if s.PageCount < 0 || s.PageCount > MaxPageCount {
		return fmt.Errorf("%w: %d (must be between 0 and %d)", ErrInvalidPageCount, s.PageCount, MaxPageCount)
	}
	if len(s.Items) > MaxPageCount {
		return fmt.Errorf("%w: %d items (max %d)", ErrInvalidPageCount, len(s.Items), MaxPageCount)
	}

	switch s.Kind {
	case SourceBlank:
		return nil
	case SourceURL:
		if !fetch.IsHTTP(s.URL) {
			return fmt.Errorf("%w: url %q is not http(s)", ErrInvalidSource, s.URL)
		}
		return nil
	case SourceFile:
		if s.File == nil {
			return fmt.Errorf("%w: no file selected", ErrInvalidSource)
		}
		if s.File.ContentType != PDFContentType {
			return fmt.Errorf("%w: %s", ErrNotPDF, s.File.Name)
		}
		return nil
	case SourceCapture:
		if s.Capture == nil || (s.Capture.URL == "") == (s.Capture.File == "") {
			return fmt.Errorf("%w: capture needs exactly one of URL and file", ErrInvalidSource)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown kind %q", ErrInvalidSource, s.Kind)
}

// items returns the generated page texts.
func (s *Source) items() []string {
	if len(s.Items) > 0 {
		return s.Items
	}
	n := s.PageCount
	if n == 0 {
		n = DefaultPageCount
	}
	out := make([]string, n)
	for i := range out {
		out[i] = strings.ReplaceAll(DefaultItemText, "{n}", fmt.Sprint(i+1))
	}
	return out
}

// Fixed output names.
const (
	BlankFilename   = "pdf-with-full-size-watermark.pdf"
	CaptureFilename = "captured-document.pdf"
	modifiedPrefix  = "modified-"
)

// OutputName is the name the composed document is saved under: the source
// name prefixed with "modified-" for file and URL sources, a fixed name
// otherwise.
func OutputName(s Source) string {
	switch s.Kind {
	case SourceFile:
		if s.File != nil {
			return modifiedName(filepath.Base(s.File.Name))
		}
	case SourceURL:
		return modifiedName(urlBase(s.URL))
	case SourceCapture:
		return CaptureFilename
	}
	return BlankFilename
}

func modifiedName(base string) string {
	if base == "" || base == "." || base == "/" || base == string(filepath.Separator) {
		base = "document.pdf"
	}
	if !strings.EqualFold(filepath.Ext(base), ".pdf") {
		base += ".pdf"
	}
	return modifiedPrefix + base
}

// urlBase is the last path segment of raw.
func urlBase(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return ""
	}
	return path.Base(u.Path)
}
