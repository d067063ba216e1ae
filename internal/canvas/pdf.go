package canvas

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png" // DecodeConfig for registered images
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/phpdave11/gofpdi"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Font used for every label. Core fonts need no embedding.
const fontFamily = "Helvetica"

// blendNormal is the blend mode passed with every alpha change.
const blendNormal = "Normal"

// PageBox is the source page box transcluded by EmbedPages. Page sizes
// handed to EmbedPages must be measured on the same box, rotation applied.
const PageBox = "/MediaBox"

// Metadata is written to the document information dictionary.
type Metadata struct {
	Title     string
	Creator   string
	CreatedAt time.Time
}

// PDF is a Document backed by gofpdf. Source pages are transcluded through
// gofpdi templates.
type PDF struct {
	f        *gofpdf.Fpdf
	importer *gofpdi.Importer
	enc      *encoding.Encoder
}

// Compile-time interface check.
var _ Document = (*PDF)(nil)

// NewPDF creates an empty document measured in points.
func NewPDF(meta Metadata) *PDF {
	f := gofpdf.New("P", "pt", "A4", "")
	f.SetMargins(0, 0, 0)
	f.SetAutoPageBreak(false, 0)
	if meta.Title != "" {
		f.SetTitle(meta.Title, true)
	}
	if meta.Creator != "" {
		f.SetCreator(meta.Creator, true)
	}
	if !meta.CreatedAt.IsZero() {
		f.SetCreationDate(meta.CreatedAt)
	}

	return &PDF{
		f:        f,
		importer: gofpdi.NewImporter(),
		// Core fonts are cp1252; anything outside it is replaced, not dropped.
		enc: encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()),
	}
}

// AddPage starts a new page. The size is used verbatim, so landscape
// geometries are expressed by W > H rather than by orientation.
func (p *PDF) AddPage(size Size) {
	p.f.AddPageFormat("P", gofpdf.SizeType{Wd: size.W, Ht: size.H})
}

// FillRect paints a solid rectangle.
func (p *PDF) FillRect(r Rect, c Color) {
	p.f.SetFillColor(int(c.R), int(c.G), int(c.B))
	p.f.Rect(r.X, r.Y, r.W, r.H, "F")
}

// DrawText paints a label at its baseline.
func (p *PDF) DrawText(l Label) {
	txt := p.encode(l.Text)
	p.f.SetFont(fontFamily, "", l.Size)
	p.f.SetTextColor(int(l.Color.R), int(l.Color.G), int(l.Color.B))

	x := l.X
	if l.Align == AlignCenter {
		x -= p.f.GetStringWidth(txt) / 2
	}
	p.f.Text(x, l.Y, txt)
}

// DrawImage paints a registered image. gofpdf keeps alpha as a surface-wide
// mode, so it is reset to opaque on every exit path.
func (p *PDF) DrawImage(img ImageRef, r Rect, opacity float64) {
	if opacity < 1 {
		p.f.SetAlpha(opacity, blendNormal)
		defer p.f.SetAlpha(1, blendNormal)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG", AllowNegativePosition: true}
	p.f.ImageOptions(img.Name, r.X, r.Y, r.W, r.H, false, opts, 0, "")
}

// DrawPage paints a transcluded source page.
func (p *PDF) DrawPage(ref PageRef, r Rect) {
	name, sx, sy, tx, ty := p.importer.UseTemplate(ref.ID, r.X, r.Y, r.W, r.H)
	p.f.UseImportedTemplate(name, sx, sy, tx, ty)
}

// Clip restricts draws issued by draw to r.
func (p *PDF) Clip(r Rect, draw func()) {
	p.f.ClipRect(r.X, r.Y, r.W, r.H, false)
	defer p.f.ClipEnd()
	draw()
}

// RegisterImage registers PNG bytes under name and reports pixel dimensions.
func (p *PDF) RegisterImage(name string, data []byte) (ImageRef, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageRef{}, fmt.Errorf("%w: %s: %v", ErrImageRegister, name, err)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	if info := p.f.RegisterImageOptionsReader(name, opts, bytes.NewReader(data)); info == nil || p.f.Err() {
		return ImageRef{}, fmt.Errorf("%w: %s: %v", ErrImageRegister, name, p.f.Error())
	}

	return ImageRef{Name: name, Width: cfg.Width, Height: cfg.Height}, nil
}

// EmbedPages imports every listed page of data as a template, in one pass
// over the source. It is called at most once per document. gofpdi panics on
// malformed input; the panic is turned into an error.
func (p *PDF) EmbedPages(data []byte, sizes []Size) (refs []PageRef, err error) {
	defer func() {
		if r := recover(); r != nil {
			refs = nil
			err = fmt.Errorf("%w: %v", ErrEmbedPages, r)
		}
	}()

	rs := io.ReadSeeker(bytes.NewReader(data))
	p.importer.SetSourceStream(&rs)
	refs = make([]PageRef, 0, len(sizes))
	for i, size := range sizes {
		id := p.importer.ImportPage(i+1, PageBox)
		refs = append(refs, PageRef{ID: id, Index: i, Size: size})
	}

	// Form XObjects are written once for the whole source. Each write emits
	// every template imported so far.
	p.f.ImportTemplates(p.importer.PutFormXobjectsUnordered())
	p.f.ImportObjects(p.importer.GetImportedObjectsUnordered())
	p.f.ImportObjPos(p.importer.GetImportedObjHashPos())

	if p.f.Err() {
		return nil, fmt.Errorf("%w: %v", ErrEmbedPages, p.f.Error())
	}
	return refs, nil
}

// PageCount returns the number of pages added so far.
func (p *PDF) PageCount() int {
	return p.f.PageCount()
}

// Bytes serializes the document. The document cannot be drawn on afterwards.
func (p *PDF) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.f.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutput, err)
	}
	return buf.Bytes(), nil
}

func (p *PDF) encode(s string) string {
	out, err := p.enc.String(s)
	if err != nil {
		return s
	}
	return out
}
