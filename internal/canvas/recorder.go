package canvas

import (
	"bytes"
	"fmt"
	"image"
)

// OpKind names a recorded draw call.
type OpKind string

// Recorded draw call kinds.
const (
	OpPage      OpKind = "page"
	OpRect      OpKind = "rect"
	OpText      OpKind = "text"
	OpImage     OpKind = "image"
	OpEmbedded  OpKind = "embedded"
	OpClipBegin OpKind = "clip"
	OpClipEnd   OpKind = "unclip"
)

// Op is one recorded draw call. Page is the 1-based page the call landed on.
type Op struct {
	Kind    OpKind
	Page    int
	Rect    Rect
	Color   Color
	Text    string
	Name    string
	Opacity float64
}

// Recorder is an in-memory Document that records draw calls instead of
// producing PDF output. Tests use it to check ordering and geometry.
type Recorder struct {
	Ops   []Op
	Sizes []Size // geometry of each added page

	nextTemplate int
}

// Compile-time interface check.
var _ Document = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) AddPage(size Size) {
	r.Sizes = append(r.Sizes, size)
	r.record(Op{Kind: OpPage, Rect: Rect{W: size.W, H: size.H}})
}

func (r *Recorder) FillRect(rect Rect, c Color) {
	r.record(Op{Kind: OpRect, Rect: rect, Color: c})
}

func (r *Recorder) DrawText(l Label) {
	r.record(Op{Kind: OpText, Rect: Rect{X: l.X, Y: l.Y}, Color: l.Color, Text: l.Text})
}

func (r *Recorder) DrawImage(img ImageRef, rect Rect, opacity float64) {
	r.record(Op{Kind: OpImage, Rect: rect, Name: img.Name, Opacity: opacity})
}

func (r *Recorder) DrawPage(p PageRef, rect Rect) {
	r.record(Op{Kind: OpEmbedded, Rect: rect, Name: fmt.Sprintf("page-%d", p.Index+1)})
}

func (r *Recorder) Clip(rect Rect, draw func()) {
	r.record(Op{Kind: OpClipBegin, Rect: rect})
	defer r.record(Op{Kind: OpClipEnd})
	draw()
}

// RegisterImage reads the pixel dimensions of data; nothing is drawn.
func (r *Recorder) RegisterImage(name string, data []byte) (ImageRef, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageRef{}, fmt.Errorf("%w: %s: %v", ErrImageRegister, name, err)
	}
	return ImageRef{Name: name, Width: cfg.Width, Height: cfg.Height}, nil
}

// EmbedPages hands out sequential template ids without parsing data.
func (r *Recorder) EmbedPages(_ []byte, sizes []Size) ([]PageRef, error) {
	refs := make([]PageRef, len(sizes))
	for i, size := range sizes {
		r.nextTemplate++
		refs[i] = PageRef{ID: r.nextTemplate, Index: i, Size: size}
	}
	return refs, nil
}

func (r *Recorder) PageCount() int {
	return len(r.Sizes)
}

// Bytes returns a placeholder; the Recorder never produces real PDF output.
func (r *Recorder) Bytes() ([]byte, error) {
	return []byte("%PDF-recorded"), nil
}

// OpsOnPage returns the draw calls issued on page n (1-based), excluding the
// page break itself.
func (r *Recorder) OpsOnPage(n int) []Op {
	var ops []Op
	for _, op := range r.Ops {
		if op.Page == n && op.Kind != OpPage {
			ops = append(ops, op)
		}
	}
	return ops
}

func (r *Recorder) record(op Op) {
	op.Page = len(r.Sizes)
	r.Ops = append(r.Ops, op)
}
