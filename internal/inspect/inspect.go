// Package inspect reads just enough of a PDF to rebuild it: page count and
// per-page geometry. Malformed, encrypted or empty documents are rejected
// here so the embedding step never sees them.
package inspect

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/alnah/go-pdfcompose/internal/canvas"
)

// ErrInvalidPDF is returned for any document pdfcpu cannot read or validate.
var ErrInvalidPDF = errors.New("invalid PDF")

func init() {
	// Keep pdfcpu from creating its config directory under the user's home.
	model.ConfigPath = "disable"
}

// Info describes an inspected document.
type Info struct {
	Pages []canvas.Size
}

// PageCount returns the number of pages.
func (i *Info) PageCount() int {
	return len(i.Pages)
}

// Inspect validates data and reports its page geometry in points.
func Inspect(data []byte) (info *Info, err error) {
	defer func() {
		if r := recover(); r != nil {
			info = nil
			err = fmt.Errorf("%w: %v", ErrInvalidPDF, r)
		}
	}()

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidPDF)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	if ctx.Encrypt != nil {
		return nil, fmt.Errorf("%w: encrypted documents are not supported", ErrInvalidPDF)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	// MediaBox with /Rotate applied: the same box canvas.EmbedPages imports.
	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("%w: reading page sizes: %v", ErrInvalidPDF, err)
	}
	if len(dims) == 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrInvalidPDF)
	}

	info = &Info{Pages: make([]canvas.Size, len(dims))}
	for i, d := range dims {
		if d.Width <= 0 || d.Height <= 0 {
			return nil, fmt.Errorf("%w: page %d has no area", ErrInvalidPDF, i+1)
		}
		info.Pages[i] = canvas.Size{W: d.Width, H: d.Height}
	}
	return info, nil
}
